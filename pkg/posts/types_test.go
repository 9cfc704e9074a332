package posts

import (
	"testing"

	"github.com/delan/autost-go/pkg/canon"
)

func TestNewThreadOverallTitleSkipsTransparentShares(t *testing.T) {
	reference := FilteredPost{Meta: PostMeta{Title: "original post"}}
	share := FilteredPost{Meta: PostMeta{Title: "", IsTransparentShare: true}}

	thread := NewThread("slug", share, []FilteredPost{reference})
	if thread.OverallTitle != "original post" {
		t.Errorf("OverallTitle = %q, want %q", thread.OverallTitle, "original post")
	}
	if len(thread.Posts) != 2 || thread.Posts[0].Meta.Title != "original post" {
		t.Errorf("Posts order wrong: %+v", thread.Posts)
	}
}

func TestNewThreadOverallTitleFallsBackToEmpty(t *testing.T) {
	onlyShare := FilteredPost{Meta: PostMeta{Title: "", IsTransparentShare: true}}
	thread := NewThread("slug", onlyShare, nil)
	if thread.OverallTitle != "" {
		t.Errorf("OverallTitle = %q, want empty", thread.OverallTitle)
	}
}

func TestReverseChronologicalOrdersNewestFirst(t *testing.T) {
	threads := []Thread{
		{Slug: "old", Meta: PostMeta{Published: "2020-01-01"}},
		{Slug: "new", Meta: PostMeta{Published: "2024-01-01"}},
		{Slug: "mid", Meta: PostMeta{Published: "2022-01-01"}},
	}
	ReverseChronological(threads)
	got := []string{threads[0].Slug, threads[1].Slug, threads[2].Slug}
	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestNewTagIndexBucketsByTagAndOrdersWithinTag(t *testing.T) {
	threads := map[string]Thread{
		"a": {Slug: "a", Meta: PostMeta{Tags: []string{"life"}, Published: "2020-01-01"}},
		"b": {Slug: "b", Meta: PostMeta{Tags: []string{"life", "go"}, Published: "2024-01-01"}},
	}
	idx := NewTagIndex(threads)

	life, ok := idx.Tags["life"]
	if !ok || len(life) != 2 {
		t.Fatalf("Tags[life] = %+v, want 2 entries", life)
	}
	if life[0].Thread.Slug != "b" || life[1].Thread.Slug != "a" {
		t.Errorf("life bucket not reverse-chronological: %+v", life)
	}

	goBucket, ok := idx.Tags["go"]
	if !ok || len(goBucket) != 1 || goBucket[0].Thread.Slug != "b" {
		t.Errorf("Tags[go] = %+v, want one entry for b", goBucket)
	}
}

func TestPostMetaEncodeCanonRoundTrip(t *testing.T) {
	meta := PostMeta{
		Archived:   "https://example.com/original",
		References: []SourcePath{{Root: RootPosts, Rel: "posts/1.html"}},
		Title:      "hello",
		Published:  "2024-01-01",
		Author:     &Author{Href: "https://example.com/@a", Name: "a", DisplayName: "A", DisplayHandle: "@a"},
		Tags:       []string{"life", "go"},
	}

	w := canon.NewWriter(0)
	meta.EncodeCanon(w)
	got, err := decodePostMeta(canon.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Archived != meta.Archived || got.Title != meta.Title || got.Published != meta.Published {
		t.Errorf("scalar fields lost: %+v", got)
	}
	if len(got.References) != 1 || got.References[0] != meta.References[0] {
		t.Errorf("References = %+v, want %+v", got.References, meta.References)
	}
	if got.Author == nil || *got.Author != *meta.Author {
		t.Errorf("Author = %+v, want %+v", got.Author, meta.Author)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "life" || got.Tags[1] != "go" {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestPostMetaEncodeCanonRoundTripNoAuthor(t *testing.T) {
	meta := PostMeta{Title: "no author here"}
	w := canon.NewWriter(0)
	meta.EncodeCanon(w)
	got, err := decodePostMeta(canon.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Author != nil {
		t.Errorf("Author = %+v, want nil", got.Author)
	}
}

func TestThreadEncodeCanonRoundTrip(t *testing.T) {
	thread := NewThread("slug", FilteredPost{
		RenderedPath: "posts/1.html",
		Meta:         PostMeta{Title: "hi", Published: "2024-01-01"},
		OriginalHTML: "<p>hi</p>",
		SafeHTML:     "<p>hi</p>",
	}, nil)

	w := canon.NewWriter(0)
	thread.EncodeCanon(w)
	got, err := decodeThread(canon.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Slug != thread.Slug || got.OverallTitle != thread.OverallTitle {
		t.Errorf("got = %+v, want %+v", got, thread)
	}
	if len(got.Posts) != 1 || got.Posts[0].SafeHTML != "<p>hi</p>" {
		t.Errorf("Posts = %+v", got.Posts)
	}
}

func TestTagIndexEncodeCanonRoundTrip(t *testing.T) {
	idx := NewTagIndex(map[string]Thread{
		"a": {Slug: "a", Meta: PostMeta{Tags: []string{"life"}, Published: "2020-01-01"}},
	})
	w := canon.NewWriter(0)
	idx.EncodeCanon(w)
	got, err := decodeTagIndex(canon.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags["life"]) != 1 || got.Tags["life"][0].ThreadID != "a" {
		t.Errorf("Tags = %+v", got.Tags)
	}
}

func TestRenderedThreadEncodeCanonRoundTrip(t *testing.T) {
	r := RenderedThread{
		ThreadsContentNormal: "<article>normal</article>",
		ThreadsContentSimple: "<article>simple</article>",
		SingleThreadsPage:    "<html></html>",
	}
	w := canon.NewWriter(0)
	r.EncodeCanon(w)
	got, err := decodeRenderedThread(canon.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got != r {
		t.Errorf("got = %+v, want %+v", got, r)
	}
}

func TestSourcePathIsMarkdownPost(t *testing.T) {
	if !(SourcePath{Rel: "posts/1.md"}).IsMarkdownPost() {
		t.Error("expected posts/1.md to be a markdown post")
	}
	if (SourcePath{Rel: "posts/1.html"}).IsMarkdownPost() {
		t.Error("expected posts/1.html not to be a markdown post")
	}
}
