package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deixis/cronrun"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cronrun.Version)
		},
	}
}
