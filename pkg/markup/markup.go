package markup

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Linkify),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
		html.WithUnsafe(),
	),
)

// RenderMarkdown renders markdown to HTML the way DoRenderMarkdown's
// compute_output does: table and autolink extensions enabled,
// strikethrough left off, single newlines promoted to hard breaks, and
// raw HTML passed through unsanitised (sanitisation is the post filter's
// job, downstream of this render).
func RenderMarkdown(markdown string) string {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		// goldmark's Convert only fails if a renderer/parser hook
		// returns an error; none of the stock extensions used here do.
		panic(err)
	}
	return buf.String()
}
