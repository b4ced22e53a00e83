/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package apptoken

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// Static returns a token source for a fixed repository-scoped token.
func Static(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}

// NewInstallationSource returns a token source minting installation tokens
// for a GitHub App, reading the App's private key from keyPath. Tokens are
// cached and refreshed by the underlying transport.
func NewInstallationSource(appID, installationID int64, keyPath string) (oauth2.TokenSource, error) {
	if appID <= 0 || installationID <= 0 {
		return nil, errors.New("app and installation IDs are required")
	}

	transport, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading app key: %w", err)
	}

	return &installationSource{transport: transport}, nil
}

type installationSource struct {
	transport *ghinstallation.Transport
}

func (s *installationSource) Token() (*oauth2.Token, error) {
	token, err := s.transport.Token(context.Background())
	if err != nil {
		return nil, fmt.Errorf("minting installation token: %w", err)
	}
	return &oauth2.Token{AccessToken: token}, nil
}

// NewClient builds a GitHub API client authenticated by the token source.
func NewClient(ctx context.Context, tokenSource oauth2.TokenSource) *github.Client {
	return github.NewClient(oauth2.NewClient(ctx, tokenSource))
}
