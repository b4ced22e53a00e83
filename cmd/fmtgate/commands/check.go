/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fmtgate/fmtgate/actionsenv"
	"github.com/fmtgate/fmtgate/pyfmt"
)

func newCheckCmd() *cobra.Command {
	var (
		dir      string
		black    string
		isort    string
		exitZero bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a Python tree is formatting compliant",
		Long:  "check runs black in report-only mode and prints the files it would rewrite. It never modifies the tree.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			runner := pyfmt.NewRunner(pyfmt.WithBlack(black), pyfmt.WithIsort(isort))
			result, err := runner.Check(ctx, dir)
			if err != nil {
				return fmt.Errorf("checking %s: %w", dir, err)
			}

			if err := publishVerdict(ctx, result.Compliant); err != nil {
				return err
			}

			if result.Compliant {
				fmt.Fprintln(cmd.OutOrStdout(), "All files are compliant.")
				return nil
			}

			table := newFindingsTable([]string{"File", "Hunks"}, cmd.OutOrStdout())
			for _, f := range result.Findings {
				if err := table.Append([]string{f.Path, strconv.Itoa(f.Hunks)}); err != nil {
					return fmt.Errorf("rendering findings: %w", err)
				}
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("rendering findings: %w", err)
			}

			if exitZero {
				return nil
			}
			return fmt.Errorf("%d file(s) need reformatting", len(result.Findings))
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to check")
	cmd.Flags().StringVar(&black, "black", "black", "black executable to invoke")
	cmd.Flags().StringVar(&isort, "isort", "isort", "isort executable to invoke")
	cmd.Flags().BoolVar(&exitZero, "exit-zero", false, "exit successfully even when files need reformatting")

	return cmd
}

// publishVerdict records the compliance verdict for downstream workflow steps.
// Outside a workflow run there is nowhere to record it, which is fine.
func publishVerdict(ctx context.Context, compliant bool) error {
	env, err := actionsenv.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading runner environment: %w", err)
	}
	err = env.WriteOutput("compliant", strconv.FormatBool(compliant))
	if errors.Is(err, actionsenv.ErrNoOutputFile) {
		return nil
	}
	return err
}
