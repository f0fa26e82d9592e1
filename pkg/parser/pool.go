package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers bound to one grammar.
//
// Design:
//   - Idle parsers wait in a buffered channel of capacity maxSize
//   - Parsers are created lazily, only when no idle one is available
//   - Once maxSize parsers exist, acquire blocks until one is released
//   - TSX and plain TypeScript get separate pools
//
// Thread Safety:
//   - acquire and release may be called from any goroutine
//   - mutex serializes parser creation and the created counter
//   - close must only run after every borrowed parser is back
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	lang    Language
	isTSX   bool
	maxSize int

	// mutex guards created
	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

// newParserPool creates an empty pool for one grammar.
//
// Parameters:
//   - lang: Language the pool serves, used in log records
//   - langPtr: Grammar pointer from the tree-sitter binding
//   - isTSX: Whether the grammar is the TSX variant
//   - maxSize: Upper bound on parsers the pool creates
//   - logger: Structured logger
func newParserPool(lang Language, langPtr unsafe.Pointer, isTSX bool, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		lang:    lang,
		isTSX:   isTSX,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns an idle parser, creating one if the pool has headroom.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
	}

	p.mutex.Lock()
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.pool, nil
	}

	parser := ts.NewParser()
	if parser == nil {
		p.mutex.Unlock()
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		p.mutex.Unlock()
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.lang, err)
	}
	p.created++
	created := p.created
	p.mutex.Unlock()

	p.logger.Debug("created parser in pool",
		"language", p.lang.String(),
		"isTSX", p.isTSX,
		"pool_size", created)

	return parser, nil
}

// release returns a parser to the pool. Parsers beyond capacity are closed.
//
// Thread Safety: Safe for concurrent calls.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}

	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"language", p.lang.String())
	}
}

// close releases all idle parsers. The pool cannot be used afterwards.
func (p *parserPool) close() {
	close(p.pool)

	count := 0
	for parser := range p.pool {
		if parser != nil {
			parser.Close()
			count++
		}
	}

	p.logger.Debug("closed parser pool",
		"language", p.lang.String(),
		"isTSX", p.isTSX,
		"parsers_closed", count)
}

func (p *parserPool) getCreatedCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
