// Package config loads the site-wide settings autost-go reads from
// autost.toml. Settings is the one documented source of impurity in the
// derivation graph: DoRenderedThread closes over it when rendering a
// thread's page title, so two builds with different settings can produce
// different RenderedThread outputs for the same ThreadDrv Id.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultSettingsPath is where Load looks when no path is given.
const DefaultSettingsPath = "autost.toml"

// Settings is the effective, defaults-merged configuration for one build.
// yaml tags let `autost config show` dump it with gopkg.in/yaml.v3 using
// the same field names as the toml source.
type Settings struct {
	SiteTitle       string   `toml:"site_title" yaml:"site_title"`
	BaseURL         string   `toml:"base_url" yaml:"base_url"`
	PostsDir        string   `toml:"posts_dir" yaml:"posts_dir"`
	AttachmentsDir  string   `toml:"attachments_dir" yaml:"attachments_dir"`
	OutputDir       string   `toml:"output_dir" yaml:"output_dir"`
	CacheDir        string   `toml:"cache_dir" yaml:"cache_dir"`
	PackDir         string   `toml:"pack_dir" yaml:"pack_dir"`
	InterestingTags []string `toml:"interesting_tags" yaml:"interesting_tags"`

	// PostGlob selects which files under PostsDir the Build Driver
	// enumerates as post sources (pkg/build.EnumeratePostPaths).
	PostGlob string `toml:"post_glob" yaml:"post_glob"`
}

// Defaults returns the baseline Settings that Load merges the settings
// file over, following a defaults-then-merge convention.
func Defaults() Settings {
	return Settings{
		SiteTitle:      "autost",
		BaseURL:        "/",
		PostsDir:       "posts",
		AttachmentsDir: "attachments",
		OutputDir:      "site",
		CacheDir:       "cache",
		PackDir:        "cache/packs",
		PostGlob:       "*.{md,html}",
	}
}

// Load reads path (DefaultSettingsPath if empty), merging it over Defaults.
// A missing file is not an error: the build proceeds with defaults, the
// same way the original's `Settings::load` is infallible-by-convention for
// a from-scratch site.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultSettingsPath
	}
	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return settings, nil
}

// PageTitle renders the "<post title> — <site title>" convention the
// original's `Settings::page_title` uses, falling back to the bare site
// title when a post has no front-matter title.
func (s Settings) PageTitle(postTitle string) string {
	if postTitle == "" {
		return s.SiteTitle
	}
	return fmt.Sprintf("%s — %s", postTitle, s.SiteTitle)
}

// TagIsInteresting reports whether tag appears in InterestingTags,
// mirroring `Settings::tag_is_interesting`.
func (s Settings) TagIsInteresting(tag string) bool {
	for _, t := range s.InterestingTags {
		if t == tag {
			return true
		}
	}
	return false
}
