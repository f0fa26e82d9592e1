package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentParseScript runs many script parses at once, mixing declared
// and fallback languages, to shake out pool races.
func TestConcurrentParseScript(t *testing.T) {
	manager := newTestManager(t)

	inputs := []struct {
		source string
		lang   string
	}{
		{"export default { props: ['a'] }", ""},
		{"export default { data(): { a: number } { return { a: 1 } } }", "ts"},
		{"const el = <div/>; export default {}", "tsx"},
		{"export default { methods: { f(a: string) {} } }", ""},
	}

	const rounds = 25
	var wg sync.WaitGroup
	errChan := make(chan error, rounds*len(inputs))

	for i := 0; i < rounds; i++ {
		for _, in := range inputs {
			wg.Add(1)
			go func(source, lang string) {
				defer wg.Done()
				script, err := manager.ParseScript([]byte(source), lang)
				if err != nil {
					errChan <- err
					return
				}
				script.Close()
			}(in.source, in.lang)
		}
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs)

	stats := manager.GetStats()
	// three grammars, each bounded by the pool size
	assert.LessOrEqual(t, stats.ParsersCreated, 3*getDefaultPoolSize())
	assert.Equal(t, rounds, stats.Fallbacks)
}

func BenchmarkParseScript(b *testing.B) {
	manager := NewParserManager(nil)
	defer manager.Close()

	source := []byte(`export default {
  props: { value: String },
  methods: { close () { this.$emit('close') } }
}`)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			script, err := manager.ParseScript(source, "")
			if err != nil {
				b.Fatal(err)
			}
			script.Close()
		}
	})
}
