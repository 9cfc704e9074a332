package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/delan/autost-go/pkg/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the derivation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report derivation and pack file counts",
	Long: `Stats reports how many per-derivation .drv/.out files live under the
cache directory, and how many of the 4096 possible pack shard files
under the pack directory have been written.

Example usage:
  autost cache stats`,
	RunE: runCacheStatsCommand,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache and pack directories",
	Long: `Clear removes the cache directory (per-derivation .drv/.out files) and
the pack directory (shard .pack files) entirely. The next build starts
from a cold cache and recomputes everything.

Example usage:
  autost cache clear`,
	RunE: runCacheClearCommand,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

type dirCounts struct {
	files int
	bytes int64
}

func countDir(dir string, suffixes ...string) (dirCounts, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return dirCounts{}, nil
		}
		return dirCounts{}, err
	}

	var out dirCounts
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(suffixes) > 0 && !hasAnySuffix(entry.Name(), suffixes) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return dirCounts{}, err
		}
		out.files++
		out.bytes += info.Size()
	}
	return out, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func runCacheStatsCommand(_ *cobra.Command, _ []string) error {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	drv, err := countDir(settings.CacheDir, ".drv")
	if err != nil {
		return fmt.Errorf("reading %s: %w", settings.CacheDir, err)
	}
	out, err := countDir(settings.CacheDir, ".out")
	if err != nil {
		return fmt.Errorf("reading %s: %w", settings.CacheDir, err)
	}
	packs, err := countDir(settings.PackDir, ".pack")
	if err != nil {
		return fmt.Errorf("reading %s: %w", settings.PackDir, err)
	}

	fmt.Printf("%s: %d derivation(s), %d output(s)\n", settings.CacheDir, drv.files, out.files)
	fmt.Printf("%s: %d/4096 pack shard(s), %d bytes\n", settings.PackDir, packs.files, packs.bytes)
	return nil
}

func runCacheClearCommand(_ *cobra.Command, _ []string) error {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	for _, dir := range []string{settings.CacheDir, settings.PackDir} {
		if dir == "" {
			continue
		}
		if verbose {
			fmt.Printf("removing %s\n", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	fmt.Println("cache cleared")
	return nil
}
