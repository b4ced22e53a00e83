/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package statuscheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v84/github"
)

// GitHub truncates status descriptions beyond this length.
const maxDescription = 140

// Reporter sets commit statuses for one repository.
type Reporter struct {
	client    *github.Client
	owner     string
	repo      string
	context   string
	targetURL string
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithContext overrides the status context label shown on the pull request.
func WithContext(context string) Option {
	return func(r *Reporter) { r.context = context }
}

// WithTargetURL links the status to run details, e.g. a log viewer.
func WithTargetURL(url string) Option {
	return func(r *Reporter) { r.targetURL = url }
}

// New constructs a Reporter for owner/repo.
func New(client *github.Client, owner, repo string, opts ...Option) (*Reporter, error) {
	switch {
	case client == nil:
		return nil, errors.New("client cannot be nil")
	case owner == "":
		return nil, errors.New("owner cannot be empty")
	case repo == "":
		return nil, errors.New("repo cannot be empty")
	}

	r := &Reporter{
		client:  client,
		owner:   owner,
		repo:    repo,
		context: "fmtgate",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Pending marks the gate run as in progress.
func (r *Reporter) Pending(ctx context.Context, sha, description string) error {
	return r.set(ctx, sha, "pending", description)
}

// Success marks the gate run as passed.
func (r *Reporter) Success(ctx context.Context, sha, description string) error {
	return r.set(ctx, sha, "success", description)
}

// Failure marks the gate run as failed.
func (r *Reporter) Failure(ctx context.Context, sha, description string) error {
	return r.set(ctx, sha, "failure", description)
}

func (r *Reporter) set(ctx context.Context, sha, state, description string) error {
	if sha == "" {
		return errors.New("sha cannot be empty")
	}
	if len(description) > maxDescription {
		description = description[:maxDescription-3] + "..."
	}

	status := &github.RepoStatus{
		State:       github.Ptr(state),
		Context:     github.Ptr(r.context),
		Description: github.Ptr(description),
	}
	if r.targetURL != "" {
		status.TargetURL = github.Ptr(r.targetURL)
	}

	if _, _, err := r.client.Repositories.CreateStatus(ctx, r.owner, r.repo, sha, *status); err != nil {
		return fmt.Errorf("setting %s status on %s: %w", state, sha, err)
	}
	return nil
}
