/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmtgate/fmtgate/workflowgen"
)

func newInitCmd() *cobra.Command {
	var (
		root     string
		name     string
		python   string
		branches []string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the formatting gate workflow into a repository",
		Long:  "init generates a GitHub Actions workflow that runs the gate on pull requests and writes it under .github/workflows.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := workflowgen.Write(root, workflowgen.Config{
				Name:          name,
				PythonVersion: python,
				Branches:      branches,
			})
			if err != nil {
				return fmt.Errorf("writing workflow: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "repository root to write into")
	cmd.Flags().StringVar(&name, "name", "", "workflow name (defaults to Format)")
	cmd.Flags().StringVar(&python, "python", "", "python version for the workflow (defaults to 3.12)")
	cmd.Flags().StringSliceVar(&branches, "branch", nil, "restrict the trigger to these target branches")

	return cmd
}
