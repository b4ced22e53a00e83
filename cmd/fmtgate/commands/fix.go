/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmtgate/fmtgate/gate"
	"github.com/fmtgate/fmtgate/pyfmt"
)

func newFixCmd() *cobra.Command {
	var (
		dir     string
		black   string
		isort   string
		install bool
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Reformat a Python tree in place",
		Long:  "fix runs black and isort over the tree and rewrites non-compliant files. Nothing is committed or pushed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			runner := pyfmt.NewRunner(pyfmt.WithBlack(black), pyfmt.WithIsort(isort))
			opts := []gate.Option{}
			if install {
				opts = append(opts, gate.WithInstall())
			}
			g, err := gate.New(dir, runner, opts...)
			if err != nil {
				return err
			}

			result, err := g.Run(ctx)
			if err != nil {
				return err
			}
			if result.Compliant {
				fmt.Fprintln(cmd.OutOrStdout(), "All files are compliant.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reformatted %d file(s).\n", len(result.Findings))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to fix")
	cmd.Flags().StringVar(&black, "black", "black", "black executable to invoke")
	cmd.Flags().StringVar(&isort, "isort", "isort", "isort executable to invoke")
	cmd.Flags().BoolVar(&install, "install", false, "install the formatting tools before fixing")

	return cmd
}
