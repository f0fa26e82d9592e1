package exports

// JSQueries locates the candidates for a component definition in a script.
//
// Each query captures one of:
//   - @component.options   - An object literal holding the component options
//   - @component.reference - An identifier naming the exported component
//   - @component.factory   - An exported function returning component options
//   - @component.target    - The assignment target of a CommonJS export
const JSQueries = `
; export default { ... }
(export_statement
  value: (object) @component.options)

; export default Vue.extend({ ... }) / defineComponent({ ... })
(export_statement
  value: (call_expression
    arguments: (arguments . (object) @component.options)))

; export default Button
(export_statement
  value: (identifier) @component.reference)

; export default Vue.extend(Base)
(export_statement
  value: (call_expression
    arguments: (arguments . (identifier) @component.reference)))

; module.exports = { ... }
(expression_statement
  (assignment_expression
    left: (member_expression) @component.target
    right: (object) @component.options))

; export function InputMixin (Vue) { ... }
(export_statement
  declaration: (function_declaration) @component.factory)

; export default function (Vue) { ... }
(export_statement
  value: [(function_expression) (arrow_function)] @component.factory)
`
