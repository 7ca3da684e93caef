// Package sandbox runs agent-generated programs inside a persistent
// interactive interpreter, capturing their output and shaping failures
// into Messages the evaluation layer can score.
package sandbox

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// defaultExports collects symbol tables registered by domain packages so
// every new console can call into them. Mirrors the database/sql driver
// registration pattern: importing a domain package makes its functions
// available to interpreted programs.
var defaultExports = interp.Exports{}

// RegisterExports adds a symbol table under an import path (for example
// "workplace/workplace"). Call from package init; later registrations for
// the same path replace earlier ones.
func RegisterExports(path string, symbols map[string]reflect.Value) {
	defaultExports[path] = symbols
}

// Console is a persistent interpreter session. Names defined by one run
// remain visible to later runs on the same console, which is what lets a
// "runtime setup" program and a "query" program share state. Output is
// captured per run only.
type Console struct {
	interp *interp.Interpreter
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// NewConsole creates a console with the standard library and all
// registered domain exports loaded.
func NewConsole() (*Console, error) {
	c := &Console{}
	c.interp = interp.New(interp.Options{Stdout: &c.stdout, Stderr: &c.stderr})
	if err := c.interp.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	if len(defaultExports) > 0 {
		if err := c.interp.Use(defaultExports); err != nil {
			return nil, fmt.Errorf("failed to load registered exports: %w", err)
		}
	}
	return c, nil
}

// Use makes additional symbols available to programs run on this console.
func (c *Console) Use(exports interp.Exports) error {
	return c.interp.Use(exports)
}
