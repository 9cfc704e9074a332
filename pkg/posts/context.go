package posts

import (
	"path/filepath"

	"github.com/delan/autost-go/pkg/config"
	"github.com/delan/autost-go/pkg/derivation"
	"github.com/delan/autost-go/pkg/templates"
)

// Context owns the twelve MemoryCaches (one derivation cache and one
// output cache per concrete derivation type) and the two writer pools
// that back one build. Its lifetime spans exactly one Run call.
//
// Every Kind in this package spawns both its derivation-record writes and
// its output writes on DerivationWriterPool; Run enters OutputWriterPool's
// scope, but no write is spawned on it.
type Context struct {
	ReadFileDrvCache       *derivation.MemoryCache[ReadFileDrv]
	ReadFileOutCache       *derivation.MemoryCache[[]byte]
	RenderMarkdownDrvCache *derivation.MemoryCache[RenderMarkdownDrv]
	RenderMarkdownOutCache *derivation.MemoryCache[string]
	FilteredPostDrvCache   *derivation.MemoryCache[FilteredPostDrv]
	FilteredPostOutCache   *derivation.MemoryCache[FilteredPost]
	ThreadDrvCache         *derivation.MemoryCache[ThreadDrv]
	ThreadOutCache         *derivation.MemoryCache[Thread]
	TagIndexDrvCache       *derivation.MemoryCache[TagIndexDrv]
	TagIndexOutCache       *derivation.MemoryCache[TagIndex]
	RenderedThreadDrvCache *derivation.MemoryCache[RenderedThreadDrv]
	RenderedThreadOutCache *derivation.MemoryCache[RenderedThread]

	OutputWriterPool     *derivation.WriterPool
	DerivationWriterPool *derivation.WriterPool
	Stats                *derivation.Stats

	Settings  config.Settings
	Templates *templates.Engine
}

// ContextGuard is the value every compute_output/realise_recursive
// implementation receives: a Context plus the guarantee that it is
// running inside both writer pools' scopes, so spawning a write is
// always safe. In the original Rust, the guard also carries the rayon
// scope references a job captures to spawn into; WriterPool.Scope
// already owns that barrier in Go, so the guard here
// is a thin wrapper kept for API symmetry with the original's
// Context/ContextGuard split.
type ContextGuard struct {
	*Context
}

// NewContext builds a fresh Context: twelve empty caches and two writer
// pools sized from detected CPU parallelism.
func NewContext(settings config.Settings) *Context {
	width := derivation.DefaultPoolWidth()

	return &Context{
		ReadFileDrvCache:       derivation.NewMemoryCache[ReadFileDrv]("ReadFileDrv"),
		ReadFileOutCache:       derivation.NewMemoryCache[[]byte]("ReadFileOut"),
		RenderMarkdownDrvCache: derivation.NewMemoryCache[RenderMarkdownDrv]("RenderMarkdownDrv"),
		RenderMarkdownOutCache: derivation.NewMemoryCache[string]("RenderMarkdownOut"),
		FilteredPostDrvCache:   derivation.NewMemoryCache[FilteredPostDrv]("FilteredPostDrv"),
		FilteredPostOutCache:   derivation.NewMemoryCache[FilteredPost]("FilteredPostOut"),
		ThreadDrvCache:         derivation.NewMemoryCache[ThreadDrv]("ThreadDrv"),
		ThreadOutCache:         derivation.NewMemoryCache[Thread]("ThreadOut"),
		TagIndexDrvCache:       derivation.NewMemoryCache[TagIndexDrv]("TagIndexDrv"),
		TagIndexOutCache:       derivation.NewMemoryCache[TagIndex]("TagIndexOut"),
		RenderedThreadDrvCache: derivation.NewMemoryCache[RenderedThreadDrv]("RenderedThreadDrv"),
		RenderedThreadOutCache: derivation.NewMemoryCache[RenderedThread]("RenderedThreadOut"),

		OutputWriterPool:     derivation.NewWriterPool(width),
		DerivationWriterPool: derivation.NewWriterPool(width),
		Stats:                derivation.NewStats(),

		Settings:  settings,
		Templates: templates.NewThreadEngine(),
	}
}

// Run constructs a fresh Context, warms it from the on-disk pack store,
// enters both writer pools' scopes, runs fun under a ContextGuard, and
// only returns once every spawned write has drained. When fun succeeds,
// newly dirtied cache shards are then saved back to the pack store; when
// it fails, Run returns fun's error without saving.
func Run[R any](settings config.Settings, fun func(*ContextGuard) (R, error)) (R, error) {
	ctx := NewContext(settings)
	defer ctx.OutputWriterPool.Close()
	defer ctx.DerivationWriterPool.Close()

	store := &derivation.PackStore{Dir: settings.PackDir, Pack: NewCachePack(ctx)}
	if err := store.Load(); err != nil {
		var zero R
		return zero, err
	}

	var result R
	var err error
	ctx.OutputWriterPool.Scope(func() {
		ctx.DerivationWriterPool.Scope(func() {
			result, err = fun(&ContextGuard{ctx})
		})
	})
	if err != nil {
		return result, err
	}
	if saveErr := store.SaveDirty(); saveErr != nil {
		return result, saveErr
	}
	return result, nil
}

// AbsPath resolves a SourcePath against the configured posts/attachments
// roots.
func (c *Context) AbsPath(p SourcePath) string {
	switch p.Root {
	case RootAttachments:
		return filepath.Join(c.Settings.AttachmentsDir, p.Rel)
	default:
		return filepath.Join(c.Settings.PostsDir, p.Rel)
	}
}

// derivationCacheDir returns where .drv/.out files for this build live.
func (c *Context) derivationCacheDir() string {
	return c.Settings.CacheDir
}
