// Package build is the Build Driver: the top-level routine that
// enumerates post source paths, creates a ThreadDrv per post, and
// realises each in parallel. It does not install any artifact into a
// final site tree — incremental output installation to a final tree is
// out of scope; the Build Driver's job ends at a fully realised
// derivation graph in the cache.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/delan/autost-go/pkg/config"
	"github.com/delan/autost-go/pkg/derivation"
	"github.com/delan/autost-go/pkg/posts"
)

// EnumeratePostPaths glob-matches settings.PostGlob against
// settings.PostsDir, the way pkg/plugins.GlobPlugin.scanFiles scans a
// content directory: a full doublestar scan, directories discarded,
// results sorted for deterministic build ordering.
func EnumeratePostPaths(settings config.Settings) ([]posts.SourcePath, error) {
	absPostsDir, err := filepath.Abs(settings.PostsDir)
	if err != nil {
		return nil, fmt.Errorf("build: resolving posts dir: %w", err)
	}

	pattern := settings.PostGlob
	if pattern == "" {
		pattern = "*"
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(absPostsDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("build: globbing %s: %w", pattern, err)
	}

	paths := make([]posts.SourcePath, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(absPostsDir, match)
		if err != nil {
			continue
		}
		paths = append(paths, posts.SourcePath{Root: posts.RootPosts, Rel: filepath.ToSlash(rel)})
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i].Rel < paths[j].Rel })
	return paths, nil
}

// PostResult is one post's build outcome.
type PostResult struct {
	Path   posts.SourcePath
	Thread posts.Thread
	Err    error
}

// Result summarises one Build run.
type Result struct {
	Posts    []PostResult
	TagIndex posts.TagIndex
}

// Succeeded returns the posts that realised without error, in
// enumeration order.
func (r Result) Succeeded() []PostResult {
	out := make([]PostResult, 0, len(r.Posts))
	for _, p := range r.Posts {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Failed returns the posts that failed to realise.
func (r Result) Failed() []PostResult {
	out := make([]PostResult, 0)
	for _, p := range r.Posts {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Build enumerates settings.PostsDir, creates a ThreadDrv for every post
// found, realises each in parallel bounded by derivation.DefaultPoolWidth,
// then realises a TagIndexDrv over every post that realised without error.
// A single post's failure does not abort the others; it is recorded on
// its PostResult and Build still returns a nil error as long as the
// driver itself (glob, context setup) succeeded.
func Build(settings config.Settings) (Result, error) {
	return posts.Run(settings, func(g *posts.ContextGuard) (Result, error) {
		return buildAll(g, settings)
	})
}

func buildAll(g *posts.ContextGuard, settings config.Settings) (Result, error) {
	paths, err := EnumeratePostPaths(settings)
	if err != nil {
		return Result{}, err
	}

	results := make([]PostResult, len(paths))
	readFiles := make([]posts.ReadFileDrv, len(paths))

	group := new(errgroup.Group)
	group.SetLimit(derivation.DefaultPoolWidth())
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			readFile, err := posts.NewReadFile(g, path)
			if err != nil {
				results[i] = PostResult{Path: path, Err: err}
				return nil
			}
			readFiles[i] = readFile

			threadDrv, err := posts.NewThreadDrv(g, path)
			if err != nil {
				results[i] = PostResult{Path: path, Err: err}
				return nil
			}
			thread, err := posts.RealiseThreadRecursiveDebug(g, threadDrv)
			results[i] = PostResult{Path: path, Thread: thread, Err: err}
			return nil
		})
	}
	// group.Wait's error is always nil: per-post failures are carried in
	// results rather than aborting sibling realisations.
	_ = group.Wait()

	okReadFiles := make([]posts.ReadFileDrv, 0, len(readFiles))
	for i, rf := range readFiles {
		if results[i].Err == nil {
			okReadFiles = append(okReadFiles, rf)
		}
	}

	tagIndex := posts.TagIndex{}
	if len(okReadFiles) > 0 {
		tagIndexDrv, err := posts.NewTagIndexDrv(g, okReadFiles)
		if err != nil {
			return Result{Posts: results}, err
		}
		tagIndex, err = posts.RealiseTagIndexRecursiveDebug(g, tagIndexDrv)
		if err != nil {
			return Result{Posts: results}, err
		}
	}

	return Result{Posts: results, TagIndex: tagIndex}, nil
}
