// Package world owns the execution context: one table store, one
// persistent sandbox console, and the scratch query being processed. It
// also manages the process-wide "current context" pointer that domain
// logic reaches through ambiently, with scoped activation so sequential
// simulations cannot leak state into each other.
package world

import (
	"fmt"

	"github.com/traefik/yaegi/interp"

	"github.com/worldbox/worldbox/internal/sandbox"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
)

// Context is the full encapsulation of one sandbox world: its database,
// its interpreter session, and the query currently being processed.
type Context struct {
	store   *store.Store
	console *sandbox.Console

	// Query is the request currently being processed. Consumed by domain
	// logic, not by the store.
	Query string
}

// Option customizes context construction.
type Option func(*Context) error

// WithExports loads extra symbol tables into the context's console, on top
// of whatever domain packages registered globally.
func WithExports(exports interp.Exports) Option {
	return func(c *Context) error {
		return c.console.Use(exports)
	}
}

// NewContext creates a context with every table initialized to its
// headguard and a fresh console.
func NewContext(opts ...Option) (*Context, error) {
	console, err := sandbox.NewConsole()
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}
	c := &Context{store: store.New(), console: console}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Store exposes the underlying table store.
func (c *Context) Store() *store.Store { return c.store }

// Console exposes the persistent interpreter session.
func (c *Context) Console() *sandbox.Console { return c.console }

// GetDatabase returns the visible (non-headguard) rows of a namespace.
func (c *Context) GetDatabase(ns schema.Namespace) []store.Row {
	return c.store.Get(ns)
}

// GetDatabaseWithHeadguard returns every physical row. Debugging only.
func (c *Context) GetDatabaseWithHeadguard(ns schema.Namespace) []store.Row {
	return c.store.GetWithHeadguard(ns)
}

// AddToDatabase inserts rows into a namespace.
func (c *Context) AddToDatabase(ns schema.Namespace, rows []store.Row) error {
	return c.store.Insert(ns, rows)
}

// RemoveFromDatabase deletes the rows matching the predicate.
func (c *Context) RemoveFromDatabase(ns schema.Namespace, predicate store.Predicate) error {
	return c.store.Delete(ns, predicate)
}

// current is the process-wide active context. Deliberately not
// thread-safe: the sandbox schedules simulations sequentially, and the
// scope discipline below is the only form of switching.
var current *Context

// Current returns the active context, lazily creating a default one the
// first time anything asks.
func Current() *Context {
	if current == nil {
		c, err := NewContext()
		if err != nil {
			panic(fmt.Sprintf("world: failed to create default context: %v", err))
		}
		current = c
	}
	return current
}

// SetCurrent replaces the active context unconditionally.
func SetCurrent(c *Context) { current = c }

// Scoped activates c and returns a restore function that reinstates the
// previously active context. Callers must defer the restore so it runs on
// every exit path:
//
//	defer world.Scoped(ctx)()
func Scoped(c *Context) func() {
	previous := Current()
	SetCurrent(c)
	return func() { SetCurrent(previous) }
}

// Execute runs a program on the currently active context's console.
func Execute(program string) sandbox.Message {
	return sandbox.Run(Current().Console(), program)
}

// ExecuteProgram runs a program with an import preamble and an automatic
// call to its entry-point function, on the active context's console.
func ExecuteProgram(program, imports string) (sandbox.Message, error) {
	return sandbox.RunProgram(Current().Console(), program, imports)
}
