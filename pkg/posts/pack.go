package posts

import (
	"github.com/delan/autost-go/pkg/canon"
	"github.com/delan/autost-go/pkg/derivation"
)

// NewCachePack bundles a Context's twelve caches in the fixed declared
// order: read_file_drv, read_file_out, render_markdown_drv,
// render_markdown_out, filtered_post_drv, filtered_post_out, thread_drv,
// thread_out, tag_index_drv, tag_index_out, rendered_thread_drv,
// rendered_thread_out, matching pkg/derivation.CachePack's declared slot
// order.
func NewCachePack(c *Context) derivation.CachePack {
	return derivation.CachePack{
		Slots: [12]derivation.PackSlot{
			derivation.NewPackSlot(c.ReadFileDrvCache, encodeReadFileDrv, decodeReadFileDrv),
			derivation.NewPackSlot(c.ReadFileOutCache, encodeBytesOutput, decodeBytesOutput),
			derivation.NewPackSlot(c.RenderMarkdownDrvCache, encodeRenderMarkdownDrv, decodeRenderMarkdownDrv),
			derivation.NewPackSlot(c.RenderMarkdownOutCache, encodeStringOutput, decodeStringOutput),
			derivation.NewPackSlot(c.FilteredPostDrvCache, encodeFilteredPostDrv, decodeFilteredPostDrv),
			derivation.NewPackSlot(c.FilteredPostOutCache, encodeFilteredPostOutput, decodeFilteredPost),
			derivation.NewPackSlot(c.ThreadDrvCache, encodeThreadDrv, decodeThreadDrv),
			derivation.NewPackSlot(c.ThreadOutCache, encodeThreadOutput, decodeThread),
			derivation.NewPackSlot(c.TagIndexDrvCache, encodeTagIndexDrv, decodeTagIndexDrv),
			derivation.NewPackSlot(c.TagIndexOutCache, encodeTagIndexOutput, decodeTagIndex),
			derivation.NewPackSlot(c.RenderedThreadDrvCache, encodeRenderedThreadDrv, decodeRenderedThreadDrv),
			derivation.NewPackSlot(c.RenderedThreadOutCache, encodeRenderedThreadOutput, decodeRenderedThread),
		},
	}
}

func encodeReadFileDrv(w *canon.Writer, d ReadFileDrv) { derivation.EncodeDrv(w, d, encodeDoReadFile) }
func decodeReadFileDrv(r *canon.Reader) (ReadFileDrv, error) {
	return derivation.DecodeDrv(r, decodeDoReadFile)
}

func encodeRenderMarkdownDrv(w *canon.Writer, d RenderMarkdownDrv) {
	derivation.EncodeDrv(w, d, encodeDoRenderMarkdown)
}
func decodeRenderMarkdownDrv(r *canon.Reader) (RenderMarkdownDrv, error) {
	return derivation.DecodeDrv(r, decodeDoRenderMarkdown)
}

func encodeFilteredPostDrv(w *canon.Writer, d FilteredPostDrv) {
	derivation.EncodeDrv(w, d, encodeDoFilteredPost)
}
func decodeFilteredPostDrv(r *canon.Reader) (FilteredPostDrv, error) {
	return derivation.DecodeDrv(r, decodeDoFilteredPost)
}

func encodeThreadDrv(w *canon.Writer, d ThreadDrv) { derivation.EncodeDrv(w, d, encodeDoThread) }
func decodeThreadDrv(r *canon.Reader) (ThreadDrv, error) {
	return derivation.DecodeDrv(r, decodeDoThread)
}

func encodeTagIndexDrv(w *canon.Writer, d TagIndexDrv) { derivation.EncodeDrv(w, d, encodeDoTagIndex) }
func decodeTagIndexDrv(r *canon.Reader) (TagIndexDrv, error) {
	return derivation.DecodeDrv(r, decodeDoTagIndex)
}

func encodeRenderedThreadDrv(w *canon.Writer, d RenderedThreadDrv) {
	derivation.EncodeDrv(w, d, encodeDoRenderedThread)
}
func decodeRenderedThreadDrv(r *canon.Reader) (RenderedThreadDrv, error) {
	return derivation.DecodeDrv(r, decodeDoRenderedThread)
}

func encodeBytesOutput(w *canon.Writer, out []byte)     { w.PutBytes(out) }
func decodeBytesOutput(r *canon.Reader) ([]byte, error) { return r.Bytes() }
func encodeStringOutput(w *canon.Writer, out string)    { w.PutString(out) }
func decodeStringOutput(r *canon.Reader) (string, error) { return r.String() }

func encodeFilteredPostOutput(w *canon.Writer, out FilteredPost)     { out.EncodeCanon(w) }
func encodeThreadOutput(w *canon.Writer, out Thread)                 { out.EncodeCanon(w) }
func encodeTagIndexOutput(w *canon.Writer, out TagIndex)             { out.EncodeCanon(w) }
func encodeRenderedThreadOutput(w *canon.Writer, out RenderedThread) { out.EncodeCanon(w) }
