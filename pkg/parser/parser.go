package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrUnsupportedLang is returned when a script declares a language with no
// grammar available.
var ErrUnsupportedLang = errors.New("unsupported script language")

// poolKey uniquely identifies a parser pool (language + TSX variant)
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager manages pooled tree-sitter parsers for component scripts.
//
// Pools are created lazily per grammar and are safe for concurrent use.
// ParserManager must be closed via Close(); callers own returned trees and
// must call tree.Close() after use.
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	script, err := manager.ParseScript([]byte("export default {}"), "")
//	if err != nil {
//	    return err
//	}
//	defer script.Close()
type ParserManager struct {
	// pools stores parser pools per grammar (lazily initialized)
	pools map[poolKey]*parserPool

	// mutex provides thread-safe access to pools map and stats
	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
		fallbacks    int
	}
}

// NewParserManager creates a new ParserManager instance.
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Script is a parsed component script.
type Script struct {
	Tree     *ts.Tree
	Language Language
	TSX      bool
}

// Root returns the root node of the script tree.
func (s *Script) Root() *ts.Node {
	return s.Tree.RootNode()
}

// HasError reports whether tree-sitter recovered from syntax errors.
func (s *Script) HasError() bool {
	return s.Tree.RootNode().HasError()
}

// Close releases the underlying tree.
func (s *Script) Close() {
	if s != nil && s.Tree != nil {
		s.Tree.Close()
	}
}

// ParseScript parses the body of a <script> block according to its lang
// attribute.
//
// Scripts without a lang attribute are parsed as JavaScript first. Authors
// frequently use TypeScript syntax without declaring it, so when the
// JavaScript tree contains errors the source is parsed again with the
// TypeScript grammar and the cleaner tree wins.
func (pm *ParserManager) ParseScript(source []byte, langAttr string) (*Script, error) {
	lang, isTSX := ScriptLang(langAttr)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLang, langAttr)
	}

	tree, err := pm.Parse(source, lang, isTSX)
	if err != nil {
		return nil, err
	}
	script := &Script{Tree: tree, Language: lang, TSX: isTSX}

	if langAttr != "" || !script.HasError() {
		return script, nil
	}

	tsTree, err := pm.Parse(source, LanguageTypeScript, false)
	if err != nil {
		return script, nil
	}
	if tsTree.RootNode().HasError() {
		tsTree.Close()
		return script, nil
	}

	pm.mutex.Lock()
	pm.stats.fallbacks++
	pm.mutex.Unlock()

	pm.logger.Debug("script reparsed as typescript")
	tree.Close()
	return &Script{Tree: tsTree, Language: LanguageTypeScript}, nil
}

// Parse parses source code using the specified language grammar.
//
// The isTSX parameter is only relevant for TypeScript - it enables JSX support.
// Returns a Tree that MUST be closed by the caller via tree.Close().
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	// Partial trees are still useful; errors become diagnostics downstream.
	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors",
			"language", lang.String(),
			"tsx", isTSX)
	}

	return tree, nil
}

// Close releases all parser pool resources.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager",
		"parses_called", pm.stats.parsesCalled,
		"fallbacks", pm.stats.fallbacks)

	for key, pool := range pm.pools {
		if pool != nil {
			pool.close()
			pm.logger.Debug("closed parser pool",
				"language", key.lang.String(),
				"isTSX", key.isTSX)
		}
	}
	pm.pools = make(map[poolKey]*parserPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking pattern.
func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := pm.GetLanguagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	poolSize := getDefaultPoolSize()
	pool = newParserPool(lang, langPtr, isTSX, poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created new parser pool",
		"language", lang.String(),
		"isTSX", isTSX,
		"maxSize", poolSize)

	return pool, nil
}

// GetLanguagePointer returns the unsafe.Pointer to the tree-sitter language grammar.
//
// QueryManager uses it to compile queries against the same grammar.
func (pm *ParserManager) GetLanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil

	case LanguageJavaScript:
		return ts_javascript.Language(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLang, lang.String())
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	totalParsers := 0
	for _, pool := range pm.pools {
		totalParsers += pool.getCreatedCount()
	}

	return ParserStats{
		ParsersCreated: totalParsers,
		ParsesCalled:   pm.stats.parsesCalled,
		Fallbacks:      pm.stats.fallbacks,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int

	// Fallbacks counts untyped scripts that were reparsed as TypeScript
	Fallbacks int
}
