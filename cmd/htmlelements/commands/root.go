// Package commands implements the htmlelements CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/livetemplate/htmlelements/internal/config"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "htmlelements",
		Short: "Live showcase of HTML elements with server-side state",
		Long: `htmlelements serves a single page that demonstrates text, media, form,
semantic and interactive HTML elements. Form controls are bound to state kept
on the server; every change is re-rendered and patched into the page over a
websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default: ./"+config.FileName+" if present)")

	root.AddCommand(newServeCommand(), newRenderCommand(), newInitCommand(), newVersionCommand())
	return root
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig loads --config, or htmlelements.yaml from the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}
