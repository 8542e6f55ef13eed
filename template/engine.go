package template

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// DefaultCacheSize bounds the compile cache. Templates are mostly
	// static per deployment, but callers can generate them dynamically
	// (per-industry critic variants), so the cache must not grow without
	// bound.
	DefaultCacheSize = 256

	// DefaultMaxPartialDepth bounds partial-in-partial expansion. There
	// is no cycle detection; the depth limit is the backstop.
	DefaultMaxPartialDepth = 16
)

// Config holds engine construction options. Zero values select defaults.
type Config struct {
	CacheSize       int
	MaxPartialDepth int
	Logger          *zap.SugaredLogger // nil = nop logger
}

// Engine compiles and renders prompt templates. It owns a bounded LRU
// cache of compiled ASTs keyed by the exact template text, so hot
// templates parse once and re-render per request with varying contexts.
//
// An Engine is safe for concurrent use. Compilation is a pure,
// deterministic function of the template string, so concurrent callers
// racing to populate the same cache entry at most duplicate work; the
// LRU serializes its own mutations.
type Engine struct {
	cache           *lru.Cache[string, []Node]
	maxPartialDepth int
	logger          *zap.SugaredLogger
}

// NewEngine constructs an engine from cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.MaxPartialDepth <= 0 {
		cfg.MaxPartialDepth = DefaultMaxPartialDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	cache, err := lru.New[string, []Node](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cache:           cache,
		maxPartialDepth: cfg.MaxPartialDepth,
		logger:          cfg.Logger,
	}, nil
}

// Compile tokenizes and builds a template into its AST, memoized by the
// exact template string. Compile is total: it never fails, whatever the
// input. Compiling the same string twice yields structurally equal
// ASTs.
func (e *Engine) Compile(template string) []Node {
	if ast, ok := e.cache.Get(template); ok {
		return ast
	}
	ast := Build(Tokenize(template))
	e.cache.Add(template, ast)
	return ast
}

// Render expands a template against a context and partial registry and
// returns the complete output string. Missing data degrades silently;
// a missing partial returns a PartialNotFoundError. Neither ctx nor
// partials is mutated.
func (e *Engine) Render(template string, ctx Context, partials Partials) (string, error) {
	ast := e.Compile(template)
	return renderNodes(ast, ctx, renderState{engine: e, partials: partials})
}

// Validate checks a template's block-tag balance. Identical to the
// package-level Validate; on the engine for callers already holding one.
func (e *Engine) Validate(template string) ValidationResult {
	return Validate(template)
}

// SafeResult is SafeRender's structured outcome.
type SafeResult struct {
	Success bool     `json:"success"`
	Result  string   `json:"result,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// SafeRender validates the template first, then renders, converting any
// failure into a structured result instead of propagating it. Intended
// for callers assembling prompts from externally authored templates.
func (e *Engine) SafeRender(partials Partials, template string, ctx Context) SafeResult {
	if vr := Validate(template); !vr.Valid {
		e.logger.Debugw("template failed validation", "errors", vr.Errors)
		return SafeResult{Success: false, Errors: vr.Errors}
	}

	out, err := e.Render(template, ctx, partials)
	if err != nil {
		e.logger.Debugw("template render failed", "error", err)
		return SafeResult{Success: false, Errors: []string{err.Error()}}
	}

	return SafeResult{Success: true, Result: out}
}

// CacheLen reports the number of compiled templates currently cached.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}
