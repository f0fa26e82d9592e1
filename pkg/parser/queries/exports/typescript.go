package exports

// TSQueries extends JSQueries with TypeScript assertion forms.
const TSQueries = JSQueries + `
; export default { ... } as ComponentOptions
(export_statement
  value: (as_expression
    (object) @component.options))
`
