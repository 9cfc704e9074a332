// Package postfilter is DoFilteredPost's external collaborator: it pulls
// front matter out of a post's raw HTML (hidden <meta>/<link> tags) and
// sanitises the remaining markup for safe embedding. Both steps follow
// original_source/src/meta.rs's extract_metadata and
// original_source/src/lib.rs's TemplatedPost::filter.
package postfilter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Selectors are compiled once and reused across every post ExtractMetadata
// parses over a build, rather than having goquery reparse the same three
// CSS selector strings per call.
var (
	metaSelector = cascadia.MustCompile("meta")
	linkSelector = cascadia.MustCompile("link")
	bodySelector = cascadia.MustCompile("body")
)

// ExtractedAuthor mirrors the <link rel=author> + its name/display-name
// /display-handle companion meta tags.
type ExtractedAuthor struct {
	Href          string
	Name          string
	DisplayName   string
	DisplayHandle string
}

// ExtractedPost is what ExtractMetadata pulls out of a post's raw HTML:
// the front matter plus the HTML with the front-matter tags stripped out.
type ExtractedPost struct {
	HTML               string
	Archived           string
	References         []string
	Title              string
	Published          string
	Author             *ExtractedAuthor
	Tags               []string
	IsTransparentShare bool
}

// ExtractMetadata parses unsafeHTML's <meta name=...> and
// <link rel=...> tags into front matter, removing them from the
// returned HTML (original_source/src/meta.rs extract_metadata).
func ExtractMetadata(unsafeHTML string) (ExtractedPost, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unsafeHTML))
	if err != nil {
		return ExtractedPost{}, fmt.Errorf("postfilter: parse html: %w", err)
	}

	var out ExtractedPost
	var authorHref, authorName, authorDisplayName, authorDisplayHandle string
	hasAuthor := false

	doc.FindMatcher(metaSelector).Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		switch name {
		case "title":
			out.Title = content
		case "published":
			out.Published = content
		case "author_display_name":
			authorDisplayName = content
			hasAuthor = true
		case "author_display_handle":
			authorDisplayHandle = content
			hasAuthor = true
		case "tags":
			if content != "" {
				out.Tags = append(out.Tags, content)
			}
		case "is_transparent_share":
			out.IsTransparentShare = true
		}
		s.Remove()
	})

	doc.FindMatcher(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		name, _ := s.Attr("name")
		switch rel, _ := s.Attr("rel"); rel {
		case "archived":
			out.Archived = href
		case "references":
			if href != "" {
				if decoded, err := url.QueryUnescape(href); err == nil {
					href = decoded
				}
				out.References = append(out.References, href)
			}
		case "author":
			authorHref = href
			authorName = name
			hasAuthor = true
		}
		s.Remove()
	})

	if hasAuthor {
		out.Author = &ExtractedAuthor{
			Href:          authorHref,
			Name:          authorName,
			DisplayName:   authorDisplayName,
			DisplayHandle: authorDisplayHandle,
		}
	}

	body, err := doc.FindMatcher(bodySelector).Html()
	if err != nil {
		return ExtractedPost{}, fmt.Errorf("postfilter: serialise html: %w", err)
	}
	out.HTML = body

	return out, nil
}
