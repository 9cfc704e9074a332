package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/delan/autost-go/pkg/build"
	"github.com/delan/autost-go/pkg/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Realise every post's thread into the cache",
	Long: `Build enumerates the posts directory, instantiates a ThreadDrv per
post, and realises each in parallel. A post that fails to realise (a
missing reference, an unreadable file) is recorded and skipped; it does
not abort the rest of the build. Build does not install any rendered
output into a separate site tree — it stops once every post's
derivation graph is realised and written to the cache.

Example usage:
  autost build
  autost build -c site/autost.toml
  autost build -v`,
	RunE: runBuildCommand,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuildCommand(_ *cobra.Command, _ []string) error {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if verbose {
		fmt.Printf("posts dir: %s, cache dir: %s\n", settings.PostsDir, settings.CacheDir)
	}

	start := time.Now()
	result, err := build.Build(settings)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	duration := time.Since(start)

	succeeded := result.Succeeded()
	failed := result.Failed()

	fmt.Printf("Built %d post(s) in %.2fs\n", len(succeeded), duration.Seconds())
	if len(failed) > 0 {
		fmt.Printf("  %d post(s) failed:\n", len(failed))
		for _, p := range failed {
			fmt.Printf("  - %s: %v\n", p.Path.Rel, p.Err)
		}
	}
	fmt.Printf("Tags indexed: %d\n", len(result.TagIndex.Tags))

	if len(failed) > 0 {
		return fmt.Errorf("%d post(s) failed to build", len(failed))
	}
	return nil
}
