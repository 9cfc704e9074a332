// Package cmd provides the CLI commands for autost.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile is the path to autost.toml, set via --config.
	cfgFile string

	// verbose enables extra progress output on stdout.
	verbose bool
)

// Version is the semantic version, overwritten via ldflags at release
// build time.
var Version = "dev"

// rootCmd is the base command when autost is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "autost",
	Short: "A content-addressed build cache for a personal microblog",
	Long: `autost builds a static site from a directory of posts by realising a
content-addressed derivation graph: every post is hashed, rendered, and
threaded with its references, with every intermediate result cached by
the hash of its inputs so an unchanged post never recomputes.

Example usage:
  autost build              # Realise every post's thread
  autost cache stats        # Report derivation and pack file counts
  autost config show        # Print the resolved configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: autost.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
