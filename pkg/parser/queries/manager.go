// Package queries provides tree-sitter query compilation, caching, and execution.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/parser"
	"github.com/gnana997/sfcdoc/pkg/parser/queries/comments"
	"github.com/gnana997/sfcdoc/pkg/parser/queries/exports"
)

// QueryType identifies which query to execute.
type QueryType int

const (
	// QueryTypeComments captures every comment for the comment index
	QueryTypeComments QueryType = iota
	// QueryTypeExports captures candidate component definitions
	QueryTypeExports
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeComments:
		return "comments"
	case QueryTypeExports:
		return "exports"
	default:
		return "unknown"
	}
}

// queryKey uniquely identifies a compiled query. Queries are bound to the
// grammar they were compiled against, so TSX gets its own entries.
type queryKey struct {
	lang  parser.Language
	isTSX bool
	qtype QueryType
}

// QueryManager manages tree-sitter query compilation and caching.
//
// Queries are compiled lazily on first use and cached until Close. All
// methods are safe for concurrent use.
//
// Usage:
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	matches, err := qm.Run(script, QueryTypeComments, source)
type QueryManager struct {
	parserManager *parser.ParserManager
	cache         map[queryKey]*ts.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewQueryManager creates a new query manager.
//
// Logger can be nil (will use default slog logger).
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryManager{
		parserManager: pm,
		cache:         make(map[queryKey]*ts.Query),
		logger:        logger,
	}
}

// GetQuery returns a compiled query for the grammar and query type.
func (qm *QueryManager) GetQuery(lang parser.Language, isTSX bool, qtype QueryType) (*ts.Query, error) {
	key := queryKey{lang: lang, isTSX: isTSX, qtype: qtype}

	qm.mutex.RLock()
	query, exists := qm.cache[key]
	qm.mutex.RUnlock()

	if exists {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	if query, exists = qm.cache[key]; exists {
		return query, nil
	}

	queryString, err := queryString(lang, qtype)
	if err != nil {
		return nil, err
	}

	langPtr, err := qm.parserManager.GetLanguagePointer(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", qtype, lang, qerr.Message)
	}

	qm.cache[key] = query

	qm.logger.Debug("compiled query",
		"language", lang.String(),
		"tsx", isTSX,
		"type", qtype.String())

	return query, nil
}

func queryString(lang parser.Language, qtype QueryType) (string, error) {
	switch qtype {
	case QueryTypeComments:
		if lang == parser.LanguageUnknown {
			break
		}
		return comments.Queries, nil
	case QueryTypeExports:
		switch lang {
		case parser.LanguageJavaScript:
			return exports.JSQueries, nil
		case parser.LanguageTypeScript:
			return exports.TSQueries, nil
		}
	default:
		return "", fmt.Errorf("unknown query type: %d", qtype)
	}
	return "", fmt.Errorf("unsupported language for %s queries: %s", qtype, lang)
}

// Run compiles (or reuses) the query matching the script's grammar and
// executes it over the whole tree.
func (qm *QueryManager) Run(script *parser.Script, qtype QueryType, source []byte) ([]QueryMatch, error) {
	if script == nil {
		return nil, fmt.Errorf("script is nil")
	}
	query, err := qm.GetQuery(script.Language, script.TSX, qtype)
	if err != nil {
		return nil, err
	}
	return qm.ExecuteQuery(script.Tree, query, source)
}

// ExecuteQuery runs a compiled query on a parse tree and returns structured matches.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []QueryCapture
		for _, capture := range match.Captures {
			var captureName string
			if int(capture.Index) < len(captureNames) {
				captureName = captureNames[capture.Index]
			}

			category, field := parseCaptureName(captureName)
			node := capture.Node
			captures = append(captures, QueryCapture{
				Name:     captureName,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
			})
		}

		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	return matches, nil
}

// Close releases all compiled queries.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	qm.logger.Debug("closing QueryManager",
		"queries_compiled", len(qm.cache))

	for key, query := range qm.cache {
		if query != nil {
			query.Close()
		}
		delete(qm.cache, key)
	}

	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []QueryCapture
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name (e.g., "component.options")
	Name string

	// Category is the first part of the capture name (e.g., "component")
	Category string

	// Field is the second part of the capture name (e.g., "options")
	Field string

	// Node is the captured AST node
	Node *ts.Node

	// Text is the source code text of the captured node
	Text string
}

// parseCaptureName splits a capture name like "component.options" into
// ("component", "options"). Names without a dot return (name, "").
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}
