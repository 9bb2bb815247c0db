package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/livetemplate/htmlelements"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "htmlelements version %s\n", htmlelements.Version)
		},
	}
}
