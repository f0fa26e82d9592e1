package comments

// Queries captures every comment in a script. The comment node has the same
// name in the JavaScript, TypeScript and TSX grammars.
//
// Each query captures:
//   - @comment.block - The comment node
const Queries = `
(comment) @comment.block
`
