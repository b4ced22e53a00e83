/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package actionsenv

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Environment captures the pieces of the Actions runner environment the gate
// consumes. All fields are optional at parse time; callers validate what they
// need through the accessors below.
type Environment struct {
	Actor      string `env:"GITHUB_ACTOR"`
	Token      string `env:"GITHUB_TOKEN"`
	Repository string `env:"GITHUB_REPOSITORY"`
	HeadRef    string `env:"GITHUB_HEAD_REF"`
	RefName    string `env:"GITHUB_REF_NAME"`
	SHA        string `env:"GITHUB_SHA"`
	ServerURL  string `env:"GITHUB_SERVER_URL,default=https://github.com"`
	Workspace  string `env:"GITHUB_WORKSPACE"`
	OutputPath string `env:"GITHUB_OUTPUT"`
}

// Load parses the Actions environment from process env vars.
func Load(ctx context.Context) (*Environment, error) {
	var e Environment
	if err := envconfig.Process(ctx, &e); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &e, nil
}

// OwnerRepo splits GITHUB_REPOSITORY into its owner and repository components.
func (e *Environment) OwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(e.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("malformed repository %q", e.Repository)
	}
	return owner, repo, nil
}

// Branch returns the pull request source branch. GITHUB_HEAD_REF is only
// populated for pull_request events; GITHUB_REF_NAME covers direct pushes.
func (e *Environment) Branch() (string, error) {
	if e.HeadRef != "" {
		return e.HeadRef, nil
	}
	if e.RefName != "" {
		return e.RefName, nil
	}
	return "", errors.New("neither GITHUB_HEAD_REF nor GITHUB_REF_NAME is set")
}

// NoReplyEmail derives the synthetic commit author email for an actor, of the
// form <actor>@users.noreply.<host>. The host comes from the server URL so
// GitHub Enterprise installations produce addresses on their own domain.
func NoReplyEmail(actor, serverURL string) string {
	host := "github.com"
	if u, err := url.Parse(serverURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("%s@users.noreply.%s", actor, host)
}
