/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/fmtgate/fmtgate/pyfmt"
)

// CommitMessage is the fixed message used for every pushed fix commit.
const CommitMessage = "Apply formatting fixes"

// Formatter is the formatting toolchain a gate drives. *pyfmt.Runner
// satisfies it.
type Formatter interface {
	Install(ctx context.Context) error
	Check(ctx context.Context, dir string) (*pyfmt.CheckResult, error)
	Fix(ctx context.Context, dir string) error
}

// PublishFunc commits and pushes the remediated tree with the given message.
// It returns the pushed commit SHA, or an empty string when the tree had no
// changes to publish.
type PublishFunc func(ctx context.Context, message string) (string, error)

// Result is the outcome of one gate run.
type Result struct {
	// Compliant reports the verdict of the initial check.
	Compliant bool
	// Findings lists the files the check flagged, empty when compliant.
	Findings []pyfmt.Finding
	// Pushed reports whether a fix commit was published.
	Pushed bool
	// CommitSHA is the published commit, empty unless Pushed.
	CommitSHA string
}

// Gate runs the check / fix / publish flow over one working tree.
type Gate struct {
	dir       string
	formatter Formatter
	publish   PublishFunc
	install   bool
	message   string
}

// Option configures a Gate.
type Option func(*Gate)

// WithPublisher installs the publish step. Without it the gate remediates the
// tree in place but publishes nothing.
func WithPublisher(publish PublishFunc) Option {
	return func(g *Gate) { g.publish = publish }
}

// WithInstall provisions the formatting tools before the check.
func WithInstall() Option {
	return func(g *Gate) { g.install = true }
}

// WithCommitMessage overrides the fix commit message.
func WithCommitMessage(message string) Option {
	return func(g *Gate) { g.message = message }
}

// New constructs a Gate over the working tree rooted at dir.
func New(dir string, formatter Formatter, opts ...Option) (*Gate, error) {
	if dir == "" {
		return nil, errors.New("dir cannot be empty")
	}
	if formatter == nil {
		return nil, errors.New("formatter cannot be nil")
	}

	g := &Gate{
		dir:       dir,
		formatter: formatter,
		message:   CommitMessage,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run executes the gate once. Provisioning and publish failures are fatal and
// not retried; the caller surfaces them to the pull request's status checks.
func (g *Gate) Run(ctx context.Context) (*Result, error) {
	log := clog.FromContext(ctx)

	if g.install {
		if err := g.formatter.Install(ctx); err != nil {
			return nil, fmt.Errorf("provisioning formatters: %w", err)
		}
	}

	check, err := g.formatter.Check(ctx, g.dir)
	if err != nil {
		return nil, fmt.Errorf("checking formatting: %w", err)
	}
	if check.Compliant {
		log.Info("Tree is compliant, nothing to do")
		return &Result{Compliant: true}, nil
	}

	log.Infof("Reformatting %d non-compliant files", len(check.Findings))
	if err := g.formatter.Fix(ctx, g.dir); err != nil {
		return nil, fmt.Errorf("remediating tree: %w", err)
	}

	// Remediation must converge: a fixed tree passes the same check.
	recheck, err := g.formatter.Check(ctx, g.dir)
	if err != nil {
		return nil, fmt.Errorf("re-checking formatting: %w", err)
	}
	if !recheck.Compliant {
		return nil, errors.New("tree remains non-compliant after remediation")
	}

	result := &Result{Findings: check.Findings}

	if g.publish == nil {
		return result, nil
	}

	sha, err := g.publish(ctx, g.message)
	if err != nil {
		return nil, fmt.Errorf("publishing fixes: %w", err)
	}
	if sha == "" {
		// The formatters reported drift but produced a byte-identical tree.
		log.Warn("Remediation produced no changes to publish")
		return result, nil
	}

	log.Infof("Pushed fix commit %s", sha)
	result.Pushed = true
	result.CommitSHA = sha
	return result, nil
}
