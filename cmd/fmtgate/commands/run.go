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
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/fmtgate/fmtgate/actionsenv"
	"github.com/fmtgate/fmtgate/apptoken"
	"github.com/fmtgate/fmtgate/gate"
	"github.com/fmtgate/fmtgate/gitrepo"
	"github.com/fmtgate/fmtgate/pyfmt"
)

func newRunCmd() *cobra.Command {
	var (
		dir          string
		install      bool
		blackVersion string
		isortVersion string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full formatting gate inside a workflow job",
		Long: `run executes the check, fix, and publish flow against the job's checkout.
When the tree is non-compliant the fixes are committed as the triggering actor
and pushed back to the pull request source branch. The verdict is published to
GITHUB_OUTPUT for downstream steps.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := clog.FromContext(ctx)

			env, err := actionsenv.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading runner environment: %w", err)
			}
			if dir == "" {
				dir = env.Workspace
			}
			if dir == "" {
				dir = "."
			}
			if env.Token == "" {
				return errors.New("GITHUB_TOKEN is not set")
			}
			if env.Actor == "" {
				return errors.New("GITHUB_ACTOR is not set")
			}
			branch, err := env.Branch()
			if err != nil {
				return err
			}

			checkout, err := gitrepo.Open(dir, apptoken.Static(env.Token))
			if err != nil {
				return fmt.Errorf("opening checkout: %w", err)
			}
			id := gitrepo.Identity{
				Name:  env.Actor,
				Email: actionsenv.NoReplyEmail(env.Actor, env.ServerURL),
			}

			runner := pyfmt.NewRunner(pyfmt.WithVersions(blackVersion, isortVersion))
			opts := []gate.Option{
				gate.WithPublisher(func(ctx context.Context, message string) (string, error) {
					return checkout.CommitAndPush(ctx, id, branch, message)
				}),
			}
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
				log.Info("Tree is compliant, nothing to do")
			} else if result.Pushed {
				log.Infof("Pushed fix commit %s to %s", result.CommitSHA, branch)
			} else {
				log.Info("Fixes produced no committable changes")
			}

			return writeOutputs(env, result)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to gate (defaults to GITHUB_WORKSPACE)")
	cmd.Flags().BoolVar(&install, "install", true, "install black and isort before checking")
	cmd.Flags().StringVar(&blackVersion, "black-version", "", "pin the black version to install")
	cmd.Flags().StringVar(&isortVersion, "isort-version", "", "pin the isort version to install")

	return cmd
}

// writeOutputs publishes the run's verdict through the runner's inter-step
// output file so workflow conditionals can branch on it.
func writeOutputs(env *actionsenv.Environment, result *gate.Result) error {
	var files []string
	for _, f := range result.Findings {
		files = append(files, f.Path)
	}
	outputs := [][2]string{
		{"compliant", strconv.FormatBool(result.Compliant)},
		{"changed", strconv.FormatBool(result.Pushed)},
		{"commit", result.CommitSHA},
		{"files", strings.Join(files, "\n")},
	}
	for _, kv := range outputs {
		if err := env.WriteOutput(kv[0], kv[1]); err != nil {
			if errors.Is(err, actionsenv.ErrNoOutputFile) {
				return nil
			}
			return fmt.Errorf("writing output %s: %w", kv[0], err)
		}
	}
	return nil
}
