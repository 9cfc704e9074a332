package templates

import (
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
)

func TestEngineRenderCachesCompiledTemplate(t *testing.T) {
	e := NewEngine()
	e.Register("greet", "hello {{ name }}")

	out, err := e.Render("greet", pongo2.Context{"name": "world"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hello world" {
		t.Errorf("Render = %q", out)
	}

	// Re-register under the same name should invalidate the cache.
	e.Register("greet", "bye {{ name }}")
	out, err = e.Render("greet", pongo2.Context{"name": "world"})
	if err != nil {
		t.Fatalf("Render after re-register: %v", err)
	}
	if out != "bye world" {
		t.Errorf("Render after re-register = %q", out)
	}
}

func TestEngineRenderUnknownTemplate(t *testing.T) {
	e := NewEngine()
	if _, err := e.Render("missing", nil); err == nil {
		t.Fatal("expected error for unregistered template")
	}
}

func TestNewThreadEngineRegistersAllThree(t *testing.T) {
	e := NewThreadEngine()
	for _, name := range []string{ThreadContentNormal, ThreadContentSimple, ThreadSinglePage} {
		if _, ok := e.templates[name]; !ok {
			t.Errorf("expected template %q to be registered", name)
		}
	}
}

func TestThreadSinglePageEmbedsContent(t *testing.T) {
	e := NewThreadEngine()
	out, err := e.Render(ThreadSinglePage, pongo2.Context{
		"page_title": "hello — autost",
		"content":    "<article>hi</article>",
		"feed_href":  nil,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<title>hello — autost</title>") {
		t.Errorf("missing title in output: %s", out)
	}
	if !strings.Contains(out, "<article>hi</article>") {
		t.Errorf("missing content in output: %s", out)
	}
}
