/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package pyfmt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// black --check exits 1 when files would be reformatted; anything else
// non-zero is a tool failure.
const blackWouldReformat = 1

// Runner invokes the formatting tools against a source tree.
type Runner struct {
	black string
	isort string
	pip   []string

	blackVersion string
	isortVersion string
}

// Option configures a Runner.
type Option func(*Runner)

// WithBlack overrides the black executable.
func WithBlack(path string) Option {
	return func(r *Runner) { r.black = path }
}

// WithIsort overrides the isort executable.
func WithIsort(path string) Option {
	return func(r *Runner) { r.isort = path }
}

// WithPip overrides the pip invocation, e.g. {"python3", "-m", "pip"}.
func WithPip(argv ...string) Option {
	return func(r *Runner) { r.pip = argv }
}

// WithVersions pins the tool versions installed by Install. Empty strings
// keep the default behavior of installing the latest releases.
func WithVersions(black, isort string) Option {
	return func(r *Runner) {
		r.blackVersion = black
		r.isortVersion = isort
	}
}

// NewRunner constructs a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		black: "black",
		isort: "isort",
		pip:   []string{"pip"},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Install provisions black and isort with pip. Installation failure is fatal
// to a gate run; there is no retry.
func (r *Runner) Install(ctx context.Context) error {
	args := append([]string(nil), r.pip[1:]...)
	args = append(args, "install", "--upgrade", requirement("black", r.blackVersion), requirement("isort", r.isortVersion))

	clog.FromContext(ctx).Infof("Installing formatters: %s %s", r.pip[0], strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.pip[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("installing formatters: %w: %s", err, lastLine(out))
	}
	return nil
}

func requirement(name, version string) string {
	if version == "" {
		return name
	}
	return fmt.Sprintf("%s==%s", name, version)
}

// Check runs black in report-only mode over dir and returns the verdict.
// The tree is never mutated.
func (r *Runner) Check(ctx context.Context, dir string) (*CheckResult, error) {
	cmd := exec.CommandContext(ctx, r.black, "--check", "--diff", "--quiet", ".")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return &CheckResult{Compliant: true}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != blackWouldReformat {
		return nil, fmt.Errorf("running %s --check: %w: %s", r.black, err, lastLine(stderr.Bytes()))
	}

	findings, err := parseFindings(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("parsing check diff: %w", err)
	}
	return &CheckResult{
		Compliant: false,
		Findings:  findings,
		Diff:      stdout.String(),
	}, nil
}

// Fix rewrites dir into compliant form: black first, then isort configured
// for black compatibility.
func (r *Runner) Fix(ctx context.Context, dir string) error {
	log := clog.FromContext(ctx)

	log.Infof("Reformatting with %s", r.black)
	black := exec.CommandContext(ctx, r.black, "--quiet", ".")
	black.Dir = dir
	if out, err := black.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", r.black, err, lastLine(out))
	}

	log.Infof("Sorting imports with %s", r.isort)
	isort := exec.CommandContext(ctx, r.isort, "--profile", "black", ".")
	isort.Dir = dir
	if out, err := isort.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", r.isort, err, lastLine(out))
	}

	return nil
}

// lastLine extracts the trailing non-empty line of tool output for error
// messages, since formatter failures put the useful detail last.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return lines[len(lines)-1]
}
