// Package templates renders RenderedThread's three HTML fragments with
// pongo2 (a Jinja2-like engine): templates are registered by name from an
// in-memory source and compiled once, then rendered repeatedly with a
// per-call context.
package templates

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Engine compiles and caches pongo2 templates registered by name.
type Engine struct {
	mu        sync.RWMutex
	compiled  map[string]*pongo2.Template
	templates map[string]string
}

// NewEngine returns an Engine with no templates registered.
func NewEngine() *Engine {
	return &Engine{
		compiled:  make(map[string]*pongo2.Template),
		templates: make(map[string]string),
	}
}

// Register adds or replaces the named template's source. It invalidates
// any previously compiled version of that name.
func (e *Engine) Register(name, source string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[name] = source
	delete(e.compiled, name)
}

// Render compiles (once) and executes the named template against ctx.
func (e *Engine) Render(name string, ctx pongo2.Context) (string, error) {
	tmpl, err := e.compile(name)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("templates: rendering %q: %w", name, err)
	}
	return out, nil
}

func (e *Engine) compile(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if t, ok := e.compiled[name]; ok {
		e.mu.RUnlock()
		return t, nil
	}
	source, ok := e.templates[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("templates: no template registered as %q", name)
	}

	tmpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("templates: compiling %q: %w", name, err)
	}

	e.mu.Lock()
	e.compiled[name] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}
