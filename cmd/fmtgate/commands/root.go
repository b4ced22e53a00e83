/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package commands wires the fmtgate subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the fmtgate root command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("FMTGATE_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "fmtgate",
		Short:         "Keep Python formatting compliant on pull requests",
		Long:          "fmtgate checks Python trees against black and isort, remediates non-compliant files, and pushes the fix back to the pull request branch.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the fmtgate version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fmtgate version %s\n", version)
		},
	})

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newFixCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}
