package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/delan/autost-go/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved configuration as YAML",
	Long: `Show loads autost.toml (or the file given by --config), merges it over
the built-in defaults, and prints the result as YAML.

Example usage:
  autost config show
  autost config show -c site/autost.toml`,
	RunE: runConfigShowCommand,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShowCommand(_ *cobra.Command, _ []string) error {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
