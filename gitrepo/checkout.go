/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	"golang.org/x/oauth2"
)

// Checkout wraps an existing working copy, typically the checkout the CI
// runner prepared for the job. Unlike a Lease it does not reset or clean the
// tree; the runner owns the checkout's lifecycle.
type Checkout struct {
	repo        *git.Repository
	dir         string
	tokenSource oauth2.TokenSource
	signer      git.Signer
}

// CheckoutOption configures an opened Checkout.
type CheckoutOption func(*Checkout)

// WithCheckoutSigner signs fix commits with the provided signer.
func WithCheckoutSigner(signer git.Signer) CheckoutOption {
	return func(c *Checkout) { c.signer = signer }
}

// Open wraps the git working copy rooted at dir. The token source is used to
// authenticate pushes and may be nil for check-only flows.
func Open(dir string, tokenSource oauth2.TokenSource, opts ...CheckoutOption) (*Checkout, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	c := &Checkout{
		repo:        repo,
		dir:         dir,
		tokenSource: tokenSource,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the working directory the checkout was opened at.
func (c *Checkout) Dir() string {
	return c.dir
}

// HeadSHA returns the commit hash currently checked out.
func (c *Checkout) HeadSHA() (string, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// CommitAndPush stages every modification in the working tree, commits it
// with the given identity and message, and pushes the branch to origin
// without force. It returns the pushed commit SHA, or an empty string when
// there was nothing to publish.
func (c *Checkout) CommitAndPush(ctx context.Context, id Identity, branch, message string) (string, error) {
	if branch == "" {
		return "", errors.New("branch cannot be empty")
	}
	if c.tokenSource == nil {
		return "", errors.New("cannot push without a token source")
	}

	sha, committed, err := commitAll(c.repo, id, message, c.signer)
	if err != nil {
		return "", fmt.Errorf("committing changes: %w", err)
	}
	if !committed {
		return "", nil
	}

	auth, err := basicAuth(c.tokenSource)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	clog.FromContext(ctx).Infof("Pushing %s from checkout %s", branch, c.dir)
	if err := pushBranch(ctx, c.repo, auth, branch); err != nil {
		return "", err
	}

	return sha, nil
}
