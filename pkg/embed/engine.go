// Package kea provides the high-level embedding API: create an Engine,
// bind Go values and constructors into it, and evaluate scripts that
// reach back into those values through reflection.
package kea

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kea-lang/kea/internal/ast"
	"github.com/kea-lang/kea/internal/evaluator"
	"github.com/kea-lang/kea/internal/introspection"
	"github.com/kea-lang/kea/internal/lexer"
	"github.com/kea-lang/kea/internal/parser"
)

// Engine is a script evaluation engine bound to a set of host values.
// An Engine is safe for concurrent Eval calls; the bound environment is
// shared between them.
type Engine struct {
	id       string
	log      zerolog.Logger
	registry *introspection.ConstructorRegistry

	mu   sync.RWMutex
	uber *introspection.Uberspect
	eval *evaluator.Evaluator
	env  *evaluator.Environment
}

// Option configures an Engine at construction time.
type Option func(*config)

type config struct {
	log    zerolog.Logger
	perms  introspection.Permissions
	onDiag introspection.DiagnosticFunc
}

// WithLogger sets the logger used by the engine and its dispatch layer.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithPermissions restricts which type members scripts may touch.
func WithPermissions(perms introspection.Permissions) Option {
	return func(c *config) { c.perms = perms }
}

// WithDiagnostics registers a callback invoked when dispatch demotes an
// ambiguous overload to a miss.
func WithDiagnostics(fn introspection.DiagnosticFunc) Option {
	return func(c *config) { c.onDiag = fn }
}

// New creates an Engine with an empty environment.
func New(opts ...Option) *Engine {
	cfg := &config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	id := uuid.NewString()
	log := cfg.log.With().Str("engine", id).Logger()

	registry := introspection.NewConstructorRegistry()
	is := introspection.NewIntrospector(log)
	is.SetResolver(registry)
	if cfg.onDiag != nil {
		is.OnDiagnostic(cfg.onDiag)
	}
	uber := introspection.NewUberspect(is, cfg.perms)

	return &Engine{
		id:       id,
		log:      log,
		registry: registry,
		uber:     uber,
		eval:     evaluator.New(uber, log),
		env:      evaluator.NewEnvironment(),
	}
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() string { return e.id }

// Set binds a value under name in the script environment. Any Go value
// works: structs, pointers, maps, slices, channels, functions.
func (e *Engine) Set(name string, value interface{}) {
	e.env.Define(name, value)
}

// Get reads a value from the script environment.
func (e *Engine) Get(name string) (interface{}, bool) {
	return e.env.Get(name)
}

// RegisterConstructor makes factory functions available to `new name(...)`
// expressions. Each fn must be a func; overloads are resolved by argument
// types at the call site.
func (e *Engine) RegisterConstructor(name string, fns ...interface{}) error {
	if err := e.registry.Register(name, fns...); err != nil {
		return err
	}
	e.bumpGeneration()
	return nil
}

// RegisterType makes `new name()` produce a zero value of sample's type.
// If sample is a non-pointer struct the constructor returns a pointer to
// a fresh instance, so scripts can write through it.
func (e *Engine) RegisterType(name string, sample interface{}) error {
	if err := e.registry.RegisterType(name, sample); err != nil {
		return err
	}
	e.bumpGeneration()
	return nil
}

func (e *Engine) bumpGeneration() {
	e.mu.RLock()
	defer e.mu.RUnlock()
	// Re-announcing the resolver advances the generation counter, so
	// call sites holding stale constructor resolutions re-resolve.
	e.uber.Introspector().SetResolver(e.registry)
}

// SetPermissions swaps the permission overlay. Dispatch caches are keyed
// by type, not by permission, so the overlay is rebuilt wholesale.
func (e *Engine) SetPermissions(perms introspection.Permissions) {
	e.mu.Lock()
	defer e.mu.Unlock()
	is := e.uber.Introspector()
	e.uber = introspection.NewUberspect(is, perms)
	e.eval = evaluator.New(e.uber, e.log)
}

// Eval parses and evaluates src against the engine's environment and
// returns the value of the last statement.
func (e *Engine) Eval(src string) (interface{}, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	ev := e.eval
	e.mu.RUnlock()
	return ev.EvalProgram(program, e.env)
}

// Parse parses src and returns the program, or an error aggregating all
// syntax errors with their positions.
func Parse(src string) (*ast.Program, error) {
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, pe := range errs {
			msgs[i] = pe.Error()
		}
		return nil, fmt.Errorf("%s", strings.Join(msgs, "\n"))
	}
	return program, nil
}
