package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/livetemplate/htmlelements/internal/server"
)

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the page for the initial state as a static HTML file",
		Long: `Render writes a standalone snapshot of the page: the configured content and
initial state, with the stylesheet inlined and no client script.`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initial, err := cfg.InitialState()
	if err != nil {
		return err
	}
	content, err := cfg.BuildContent()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := server.WritePage(&buf, initial, content, server.PageOptions{TailwindCDN: cfg.Features.TailwindCDN}); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", output, buf.Len())
	return nil
}
