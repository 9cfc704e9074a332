// Package markup renders the light markup dialect authored posts are
// written in to HTML. It is DoRenderMarkdown's external collaborator: an
// implementation detail the core derivation engine treats as opaque.
//
// RenderMarkdown aims for cohost compatibility (the archived posts this
// system also ingests were originally rendered by cohost's own markdown
// pipeline). Known discrepancies from that original renderer, carried
// over from original_source/src/lib.rs's render_markdown doc comment:
//
//   - "~~strikethrough~~" is not handled (the GFM strikethrough extension
//     is deliberately left disabled).
//   - @mentions are not handled.
//   - :emotes: are not handled.
//   - a single newline always yields a hard break, not a soft one (this
//     was not the case for older chosts, as reflected in their astMap).
//   - blank lines inside <details> may close the element in some
//     situations.
//   - spaced numbered lists yield separate <ol start> elements instead of
//     <li><p>.
package markup
