package extractor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/parser"
	"github.com/gnana997/sfcdoc/pkg/parser/queries"
)

type result struct {
	ctx  *Context
	meta Meta
	err  error
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// run extracts a component from an inline script and optional template.
func run(t *testing.T, script, lang, template string, opts Options) result {
	t.Helper()

	pm := parser.NewParserManager(quietLogger())
	t.Cleanup(func() { pm.Close() })
	qm := queries.NewQueryManager(pm, quietLogger())
	t.Cleanup(func() { qm.Close() })

	source := []byte(script)
	sc, err := pm.ParseScript(source, lang)
	require.NoError(t, err)
	t.Cleanup(sc.Close)

	comments, err := qm.Run(sc, queries.QueryTypeComments, source)
	require.NoError(t, err)
	exports, err := qm.Run(sc, queries.QueryTypeExports, source)
	require.NoError(t, err)

	ctx := NewContext(source, Comments(comments), opts, quietLogger())
	def := ctx.Locate(sc.Root(), exports)

	var tmpl *Template
	if template != "" {
		tmpl = &Template{Content: []byte(template), Line: 1}
	}
	meta, err := NewComponentExtractor(ctx).Extract(sc.Root(), def, tmpl)
	return result{ctx: ctx, meta: meta, err: err}
}

func extract(t *testing.T, script string) result {
	t.Helper()
	r := run(t, script, "", "", DefaultOptions())
	require.NoError(t, r.err)
	return r
}

func entriesOf[T entry.Entry](r result) []T {
	var out []T
	for _, e := range r.ctx.Channel.Entries() {
		if typed, ok := e.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func names[T entry.Entry](entries []T) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.EntryName()
	}
	return out
}
