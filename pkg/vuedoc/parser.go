// Package vuedoc documents single file components: it splits a component
// file, parses its script, runs the extractors and groups their output.
package vuedoc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/extractor"
	"github.com/gnana997/sfcdoc/pkg/parser"
	"github.com/gnana997/sfcdoc/pkg/parser/queries"
	"github.com/gnana997/sfcdoc/pkg/sfc"
)

var (
	// ErrNoScript is returned for files with neither a script nor a
	// template block.
	ErrNoScript = errors.New("no script or template block")

	// ErrInvalidOptions is returned by New when options fail validation.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrUnsupportedLang is returned for scripts in a language without a
	// grammar.
	ErrUnsupportedLang = parser.ErrUnsupportedLang
)

// DefaultCacheSize is the number of results kept when Options.CacheSize is 0.
const DefaultCacheSize = 256

// Options configures a Parser.
type Options struct {
	extractor.Options `yaml:",inline"`

	// CacheSize bounds the result cache. Negative disables caching.
	CacheSize int `json:"cacheSize" yaml:"cache_size"`
}

// DefaultOptions enables every kind with the default cache size.
func DefaultOptions() Options {
	return Options{Options: extractor.DefaultOptions(), CacheSize: DefaultCacheSize}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks feature names and visibility.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: %v is not one of %s", fe.Namespace(), fe.Value(), fe.Param())
			}
			return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// Source is one file to document.
type Source struct {
	// Path is used for the language of standalone scripts and the
	// component name fallback. It may be empty.
	Path    string
	Content []byte
}

// Parser documents component files. It is safe for concurrent use and must
// be closed via Close.
type Parser struct {
	opts    Options
	parsers *parser.ParserManager
	queries *queries.QueryManager
	cache   *lru.Cache[string, *Component]
	logger  *slog.Logger
}

// New creates a Parser. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Parser{opts: opts, logger: logger}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, *Component](size)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		p.cache = cache
	}

	p.parsers = parser.NewParserManager(logger)
	p.queries = queries.NewQueryManager(p.parsers, logger)
	return p, nil
}

// Close releases parsers and compiled queries.
func (p *Parser) Close() error {
	qerr := p.queries.Close()
	perr := p.parsers.Close()
	return errors.Join(qerr, perr)
}

// Options returns the options the parser was created with.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse documents one file. Recoverable problems are reported in the
// component's Errors and Warnings; the returned error is reserved for
// unreadable input and unsupported syntax.
func (p *Parser) Parse(ctx context.Context, src Source) (*Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := p.cacheKey(src)
	if p.cache != nil {
		if c, ok := p.cache.Get(key); ok {
			p.logger.Debug("component cache hit", "path", src.Path)
			return c, nil
		}
	}

	c, err := p.parse(src)
	if err != nil {
		if src.Path != "" {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		return nil, err
	}

	if p.cache != nil {
		p.cache.Add(key, c)
	}
	return c, nil
}

// Invalidate drops every cached result.
func (p *Parser) Invalidate() {
	if p.cache != nil {
		p.cache.Purge()
	}
}

func (p *Parser) parse(src Source) (*Component, error) {
	script, template, err := p.blocks(src)
	if err != nil {
		return nil, err
	}

	c := newComponent(src.Path)
	xctx, root, cleanup, err := p.context(src, script, c)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var def *extractor.Definition
	if root != nil {
		exports, err := p.queries.Run(root.script, queries.QueryTypeExports, xctx.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to run export query: %w", err)
		}
		def = xctx.Locate(root.node, exports)
	}

	var tmpl *extractor.Template
	if template != nil {
		tmpl = &extractor.Template{Content: template.Content, Line: template.Line}
	}

	var node *ts.Node
	if root != nil {
		node = root.node
	}
	meta, err := extractor.NewComponentExtractor(xctx).Extract(node, def, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to extract component: %w", err)
	}

	c.Name = meta.Name
	if c.Name == "" && src.Path != "" {
		c.Name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	c.Description = meta.Description
	c.Category = meta.Category
	c.Keywords = meta.Keywords
	c.InheritAttrs = meta.InheritAttrs
	c.collect(xctx.Channel.Messages())

	p.logger.Debug("component parsed",
		"path", src.Path,
		"name", c.Name,
		"entries", len(c.Entries()),
		"errors", len(c.Errors),
		"warnings", len(c.Warnings))
	return c, nil
}

// blocks returns the script and template to document. Standalone .js and
// .ts files are a single script block.
func (p *Parser) blocks(src Source) (*sfc.Block, *sfc.Block, error) {
	switch ext := strings.ToLower(filepath.Ext(src.Path)); ext {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts":
		return &sfc.Block{
			Type:    "script",
			Lang:    ext[1:],
			Content: src.Content,
			End:     len(src.Content),
			Line:    1,
		}, nil, nil
	}

	desc, err := sfc.Split(src.Content)
	if err != nil {
		return nil, nil, err
	}
	if desc.Script == nil && desc.Template == nil {
		return nil, nil, ErrNoScript
	}
	return desc.Script, desc.Template, nil
}

type parsedRoot struct {
	script *parser.Script
	node   *ts.Node
}

// context parses the script and builds the extraction context. The script
// is parsed from a masked copy of the file so reported lines are file lines.
func (p *Parser) context(src Source, script *sfc.Block, c *Component) (*extractor.Context, *parsedRoot, func(), error) {
	nop := func() {}
	if script == nil {
		return extractor.NewContext(nil, nil, p.opts.Options, p.logger), nil, nop, nil
	}

	source := script.Content
	if script.Start > 0 || script.End < len(src.Content) {
		source = script.Masked(src.Content)
	}

	sc, err := p.parsers.ParseScript(source, script.Lang)
	if err != nil {
		return nil, nil, nil, err
	}
	if sc.HasError() {
		ln := firstError(sc.Root())
		p.logger.Warn("script has syntax errors", "path", src.Path, "line", ln)
		c.warnf("syntax error at line %d", ln)
	}

	comments, err := p.queries.Run(sc, queries.QueryTypeComments, source)
	if err != nil {
		sc.Close()
		return nil, nil, nil, fmt.Errorf("failed to run comment query: %w", err)
	}

	xctx := extractor.NewContext(source, extractor.Comments(comments), p.opts.Options, p.logger)
	return xctx, &parsedRoot{script: sc, node: sc.Root()}, sc.Close, nil
}

// firstError returns the 1-based line of the first error or missing node.
func firstError(n *ts.Node) uint {
	if n.IsError() || n.IsMissing() {
		return n.StartPosition().Row + 1
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstError(child)
		}
	}
	return n.StartPosition().Row + 1
}

func (p *Parser) cacheKey(src Source) string {
	h := sha256.New()
	h.Write([]byte(src.Path))
	h.Write([]byte{0})
	h.Write(src.Content)
	h.Write([]byte{0})
	features := p.opts.Features
	if features == nil {
		features = entry.AllKinds()
	}
	for _, k := range features {
		h.Write([]byte(k))
		h.Write([]byte{','})
	}
	h.Write([]byte(p.opts.DefaultVisibility))
	return hex.EncodeToString(h.Sum(nil))
}
