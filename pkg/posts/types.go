// Package posts defines the post-to-thread pipeline: the six concrete
// derivation types (DoReadFile through DoRenderedThread), the output
// values they produce, and the Context that owns the caches and writer
// pools a build runs inside.
package posts

import (
	"sort"

	"github.com/delan/autost-go/pkg/canon"
)

// SourceRoot tags which configured root a SourcePath is relative to.
// DoReadFile's absolute source path is expressed as a root tag plus a
// path relative to that root, so two builds run from different working
// directories (or with a relocated posts/attachments tree) still produce
// identical Ids as long as the relative layout matches.
type SourceRoot uint8

const (
	RootPosts SourceRoot = iota
	RootAttachments
)

func (r SourceRoot) EncodeCanon(w *canon.Writer) {
	w.PutTag(uint8(r))
}

func decodeSourceRoot(r *canon.Reader) (SourceRoot, error) {
	tag, err := r.Tag()
	return SourceRoot(tag), err
}

// SourcePath is DoReadFile's input path: a root tag and a path relative
// to it, matching original_source/src/path.rs's RelativePath<Kind>
// newtype without carrying its full component-validation machinery (the
// posts/attachments trees here are globbed by the build driver, which
// already only emits paths rooted correctly).
type SourcePath struct {
	Root SourceRoot
	Rel  string
}

func (p SourcePath) EncodeCanon(w *canon.Writer) {
	p.Root.EncodeCanon(w)
	w.PutString(p.Rel)
}

func decodeSourcePath(r *canon.Reader) (SourcePath, error) {
	root, err := decodeSourceRoot(r)
	if err != nil {
		return SourcePath{}, err
	}
	rel, err := r.String()
	if err != nil {
		return SourcePath{}, err
	}
	return SourcePath{Root: root, Rel: rel}, nil
}

// IsMarkdownPost reports whether the file at this path is authored in
// the markdown dialect rather than raw HTML, matching
// PostsKind::Post{is_markdown} in original_source/src/path.rs.
func (p SourcePath) IsMarkdownPost() bool {
	return len(p.Rel) > len(".md") && p.Rel[len(p.Rel)-len(".md"):] == ".md"
}

// Author is a post's attributed author, extracted from
// `<link rel=author>` plus its name/display-name/display-handle
// companions (original_source/src/lib.rs Author, original_source/src/meta.rs).
type Author struct {
	Href          string
	Name          string
	DisplayName   string
	DisplayHandle string
}

func (a Author) EncodeCanon(w *canon.Writer) {
	w.PutString(a.Href)
	w.PutString(a.Name)
	w.PutString(a.DisplayName)
	w.PutString(a.DisplayHandle)
}

func decodeAuthor(r *canon.Reader) (Author, error) {
	href, err := r.String()
	if err != nil {
		return Author{}, err
	}
	name, err := r.String()
	if err != nil {
		return Author{}, err
	}
	displayName, err := r.String()
	if err != nil {
		return Author{}, err
	}
	displayHandle, err := r.String()
	if err != nil {
		return Author{}, err
	}
	return Author{Href: href, Name: name, DisplayName: displayName, DisplayHandle: displayHandle}, nil
}

// PostMeta is a post's front matter, extracted from hidden <meta>/<link>
// tags by the post filter (original_source/src/lib.rs PostMeta,
// original_source/src/meta.rs extract_metadata).
type PostMeta struct {
	Archived           string
	References         []SourcePath
	Title              string
	Published          string
	Author             *Author
	Tags               []string
	IsTransparentShare bool
}

func (m PostMeta) EncodeCanon(w *canon.Writer) {
	w.PutString(m.Archived)
	canon.PutSeq(w, m.References)
	w.PutString(m.Title)
	w.PutString(m.Published)
	w.PutBool(m.Author != nil)
	if m.Author != nil {
		m.Author.EncodeCanon(w)
	}
	w.PutSeqLen(len(m.Tags))
	for _, tag := range m.Tags {
		w.PutString(tag)
	}
	w.PutBool(m.IsTransparentShare)
}

func decodePostMeta(r *canon.Reader) (PostMeta, error) {
	var m PostMeta
	var err error
	if m.Archived, err = r.String(); err != nil {
		return m, err
	}
	refs, err := canon.ReadSeq(r, decodeSourcePath)
	if err != nil {
		return m, err
	}
	m.References = refs
	if m.Title, err = r.String(); err != nil {
		return m, err
	}
	if m.Published, err = r.String(); err != nil {
		return m, err
	}
	hasAuthor, err := r.Bool()
	if err != nil {
		return m, err
	}
	if hasAuthor {
		author, err := decodeAuthor(r)
		if err != nil {
			return m, err
		}
		m.Author = &author
	}
	n, err := r.SeqLen()
	if err != nil {
		return m, err
	}
	m.Tags = make([]string, n)
	for i := range m.Tags {
		if m.Tags[i], err = r.String(); err != nil {
			return m, err
		}
	}
	if m.IsTransparentShare, err = r.Bool(); err != nil {
		return m, err
	}
	return m, nil
}

// FilteredPost is the output of DoFilteredPost: a post's front matter
// plus its original and sanitised HTML bodies
// (original_source/src/lib.rs TemplatedPost).
type FilteredPost struct {
	RenderedPath string
	Meta         PostMeta
	OriginalHTML string
	SafeHTML     string
}

func (p FilteredPost) EncodeCanon(w *canon.Writer) {
	w.PutString(p.RenderedPath)
	p.Meta.EncodeCanon(w)
	w.PutString(p.OriginalHTML)
	w.PutString(p.SafeHTML)
}

func decodeFilteredPost(r *canon.Reader) (FilteredPost, error) {
	var p FilteredPost
	var err error
	if p.RenderedPath, err = r.String(); err != nil {
		return p, err
	}
	if p.Meta, err = decodePostMeta(r); err != nil {
		return p, err
	}
	if p.OriginalHTML, err = r.String(); err != nil {
		return p, err
	}
	if p.SafeHTML, err = r.String(); err != nil {
		return p, err
	}
	return p, nil
}

// Thread is the output of DoThread: a post plus the references it pulls
// in, in display order, with an overall title
// (original_source/src/lib.rs Thread, TryFrom<TemplatedPost> for Thread).
type Thread struct {
	Slug         string
	Posts        []FilteredPost
	Meta         PostMeta
	OverallTitle string
}

func (t Thread) EncodeCanon(w *canon.Writer) {
	w.PutString(t.Slug)
	canon.PutSeq(w, t.Posts)
	t.Meta.EncodeCanon(w)
	w.PutString(t.OverallTitle)
}

func decodeThread(r *canon.Reader) (Thread, error) {
	var t Thread
	var err error
	if t.Slug, err = r.String(); err != nil {
		return t, err
	}
	posts, err := canon.ReadSeq(r, decodeFilteredPost)
	if err != nil {
		return t, err
	}
	t.Posts = posts
	if t.Meta, err = decodePostMeta(r); err != nil {
		return t, err
	}
	if t.OverallTitle, err = r.String(); err != nil {
		return t, err
	}
	return t, nil
}

// NewThread assembles a Thread from a filtered post and its already
// filtered references, the way TryFrom<TemplatedPost> for Thread does:
// references first, the post itself last, with the overall title taken
// from the last non-transparent-share post.
func NewThread(slug string, post FilteredPost, references []FilteredPost) Thread {
	posts := make([]FilteredPost, 0, len(references)+1)
	posts = append(posts, references...)
	posts = append(posts, post)

	overallTitle := ""
	for i := len(posts) - 1; i >= 0; i-- {
		if !posts[i].Meta.IsTransparentShare {
			overallTitle = posts[i].Meta.Title
			break
		}
	}

	return Thread{
		Slug:         slug,
		Posts:        posts,
		Meta:         post.Meta,
		OverallTitle: overallTitle,
	}
}

// ReverseChronological orders threads newest-published first, matching
// Thread::reverse_chronological.
func ReverseChronological(threads []Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Meta.Published > threads[j].Meta.Published
	})
}

// TagIndexEntry pairs a thread's Id (as a string, so TagIndex stays
// self-contained canon data without depending on pkg/digest here) with
// the realised Thread it names.
type TagIndexEntry struct {
	ThreadID string
	Thread   Thread
}

func (e TagIndexEntry) EncodeCanon(w *canon.Writer) {
	w.PutString(e.ThreadID)
	e.Thread.EncodeCanon(w)
}

func decodeTagIndexEntry(r *canon.Reader) (TagIndexEntry, error) {
	id, err := r.String()
	if err != nil {
		return TagIndexEntry{}, err
	}
	thread, err := decodeThread(r)
	if err != nil {
		return TagIndexEntry{}, err
	}
	return TagIndexEntry{ThreadID: id, Thread: thread}, nil
}

// TagIndex is the output of DoTagIndex: every realised thread, grouped
// by tag and ordered reverse-chronologically within each tag.
type TagIndex struct {
	Tags map[string][]TagIndexEntry
}

func (idx TagIndex) EncodeCanon(w *canon.Writer) {
	keys := make([]string, 0, len(idx.Tags))
	for k := range idx.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.PutSeqLen(len(keys))
	for _, k := range keys {
		w.PutString(k)
		canon.PutSeq(w, idx.Tags[k])
	}
}

func decodeTagIndex(r *canon.Reader) (TagIndex, error) {
	n, err := r.SeqLen()
	if err != nil {
		return TagIndex{}, err
	}
	tags := make(map[string][]TagIndexEntry, n)
	for i := 0; i < n; i++ {
		key, err := r.String()
		if err != nil {
			return TagIndex{}, err
		}
		entries, err := canon.ReadSeq(r, decodeTagIndexEntry)
		if err != nil {
			return TagIndex{}, err
		}
		tags[key] = entries
	}
	return TagIndex{Tags: tags}, nil
}

// NewTagIndex buckets realised threads by tag, keyed by a thread Id
// string (the original's async TagIndex::new bridges to a database;
// here the bucketing is pure and synchronous — see DESIGN.md's Open
// Question resolution).
func NewTagIndex(threads map[string]Thread) TagIndex {
	tags := make(map[string][]TagIndexEntry)
	for id, thread := range threads {
		for _, tag := range thread.Meta.Tags {
			tags[tag] = append(tags[tag], TagIndexEntry{ThreadID: id, Thread: thread})
		}
	}
	for tag := range tags {
		entries := tags[tag]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Thread.Meta.Published > entries[j].Thread.Meta.Published
		})
		tags[tag] = entries
	}
	return TagIndex{Tags: tags}
}

// RenderedThread is the output of DoRenderedThread: a thread's content
// pre-rendered three ways (original_source/src/command/render.rs
// RenderedThread).
type RenderedThread struct {
	ThreadsContentNormal string
	ThreadsContentSimple string
	SingleThreadsPage    string
}

func (r RenderedThread) EncodeCanon(w *canon.Writer) {
	w.PutString(r.ThreadsContentNormal)
	w.PutString(r.ThreadsContentSimple)
	w.PutString(r.SingleThreadsPage)
}

func decodeRenderedThread(r *canon.Reader) (RenderedThread, error) {
	var out RenderedThread
	var err error
	if out.ThreadsContentNormal, err = r.String(); err != nil {
		return out, err
	}
	if out.ThreadsContentSimple, err = r.String(); err != nil {
		return out, err
	}
	if out.SingleThreadsPage, err = r.String(); err != nil {
		return out, err
	}
	return out, nil
}
