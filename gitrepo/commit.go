/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
)

// Identity is the commit authorship applied to pushed fixes, normally the
// triggering actor's handle and its synthetic no-reply address.
type Identity struct {
	Name  string
	Email string
}

func (id Identity) validate() error {
	if id.Name == "" {
		return errors.New("identity name cannot be empty")
	}
	if id.Email == "" {
		return errors.New("identity email cannot be empty")
	}
	return nil
}

// commitAll stages every modification in the working tree and commits it.
// It reports false with no error when the tree is clean.
func commitAll(repo *git.Repository, id Identity, message string, signer git.Signer) (string, bool, error) {
	if err := id.validate(); err != nil {
		return "", false, err
	}
	if message == "" {
		return "", false, errors.New("commit message cannot be empty")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", false, fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", false, fmt.Errorf("staging changes: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", false, fmt.Errorf("getting worktree status: %w", err)
	}
	if status.IsClean() {
		return "", false, nil
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  id.Name,
			Email: id.Email,
			When:  time.Now(),
		},
		Signer: signer,
	})
	if err != nil {
		return "", false, fmt.Errorf("committing: %w", err)
	}

	return hash.String(), true, nil
}

// pushBranch pushes the branch ref to origin without force, so the push can
// only ever append to the branch. A remote that is already up to date is
// treated as success.
func pushBranch(ctx context.Context, repo *git.Repository, auth *githttp.BasicAuth, branch string) error {
	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))

	if err := repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		Auth:       auth,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	}); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return fmt.Errorf("pushing %s: %w", refSpec, err)
	}

	return nil
}

func basicAuth(tokenSource oauth2.TokenSource) (*githttp.BasicAuth, error) {
	token, err := tokenSource.Token()
	if err != nil {
		return nil, err
	}

	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}
