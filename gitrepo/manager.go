/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/oauth2"
)

const cloneDirPrefix = "fmtgate-clone-"

// remoteURL resolves the remote git URL for a Target. Tests can override this
// to provide local filesystem paths.
var remoteURL = defaultRemoteURL

// Target identifies the pull request source branch a lease prepares.
type Target struct {
	Owner  string
	Repo   string
	Branch string
}

func (t Target) validate() error {
	switch {
	case t.Owner == "":
		return errors.New("target owner cannot be empty")
	case t.Repo == "":
		return errors.New("target repo cannot be empty")
	case t.Branch == "":
		return errors.New("target branch cannot be empty")
	}
	return nil
}

// Manager owns a pool of git clones leased to gate runs. Each lease is
// dedicated to one pull request event and the working tree is reset before
// the clone is returned to the pool.
type Manager struct {
	tokenSource oauth2.TokenSource
	serverURL   string
	signer      git.Signer

	mu        sync.Mutex
	available []*clone
}

type clone struct {
	path  string
	repo  *git.Repository
	owner string
	name  string
}

// Option configures a Manager.
type Option func(*Manager)

// WithServerURL points clones at a GitHub Enterprise host instead of
// github.com.
func WithServerURL(serverURL string) Option {
	return func(m *Manager) { m.serverURL = serverURL }
}

// WithSigner signs fix commits with the provided signer.
func WithSigner(signer git.Signer) Option {
	return func(m *Manager) { m.signer = signer }
}

// NewManager constructs a Manager. The token source must allow cloning and
// pushing to the targeted repositories.
func NewManager(_ context.Context, tokenSource oauth2.TokenSource, opts ...Option) (*Manager, error) {
	if tokenSource == nil {
		return nil, errors.New("token source cannot be nil")
	}

	m := &Manager{
		tokenSource: tokenSource,
		serverURL:   "https://github.com",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Lease hydrates a clone for the target branch and returns a Lease handle.
// Callers must invoke Return to release the clone back to the pool.
func (m *Manager) Lease(ctx context.Context, t Target) (*Lease, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	cl, err := m.acquireClone(ctx, t)
	if err != nil {
		return nil, err
	}

	sha, err := m.prepareClone(ctx, cl, t)
	if err != nil {
		clog.FromContext(ctx).Warnf("Discarding clone after prepare failure: %v", err)
		m.discardClone(cl)
		return nil, err
	}

	return &Lease{
		manager: m,
		clone:   cl,
		target:  t,
		sha:     sha,
	}, nil
}

// acquireClone returns a pooled clone of the same repository or creates a new
// one. Clones are taken from the front of the pool while releaseClone appends
// to the back, so recently returned clones age out instead of churning.
func (m *Manager) acquireClone(ctx context.Context, t Target) (*clone, error) {
	m.mu.Lock()
	for i, cl := range m.available {
		if cl.owner == t.Owner && cl.name == t.Repo {
			m.available = append(m.available[:i], m.available[i+1:]...)
			m.mu.Unlock()
			return cl, nil
		}
	}
	m.mu.Unlock()

	return m.createClone(ctx, t)
}

func (m *Manager) createClone(ctx context.Context, t Target) (*clone, error) {
	dir, err := os.MkdirTemp("", cloneDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	remote := remoteURL(m.serverURL, t.Owner, t.Repo)
	clog.FromContext(ctx).Infof("Cloning repository %s into %s", remote, dir)

	auth, err := basicAuth(m.tokenSource)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("getting token: %w", err)
	}

	repo, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:           remote,
		ReferenceName: plumbing.NewBranchReferenceName(t.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("cloning repository: %w", err)
	}

	return &clone{path: dir, repo: repo, owner: t.Owner, name: t.Repo}, nil
}

func (m *Manager) prepareClone(ctx context.Context, cl *clone, t Target) (string, error) {
	worktree, err := cl.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return "", fmt.Errorf("resetting worktree: %w", err)
	}

	if err := worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return "", fmt.Errorf("cleaning worktree: %w", err)
	}

	auth, err := basicAuth(m.tokenSource)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	fetchOpts := &git.FetchOptions{
		RefSpecs: []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", t.Branch, t.Branch))},
		Auth:     auth,
	}

	clog.FromContext(ctx).Infof("Fetching branch %s", t.Branch)
	if err := cl.repo.FetchContext(ctx, fetchOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("fetching branch %s: %w", t.Branch, err)
	}

	remoteRef, err := cl.repo.Reference(plumbing.NewRemoteReferenceName("origin", t.Branch), true)
	if err != nil {
		return "", fmt.Errorf("getting remote ref %s: %w", t.Branch, err)
	}

	// Track the branch locally so the eventual push targets the same ref the
	// pull request points at.
	branchRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName(t.Branch), remoteRef.Hash())
	if err := cl.repo.Storer.SetReference(branchRef); err != nil {
		return "", fmt.Errorf("setting branch reference: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: branchRef.Name(), Force: true}); err != nil {
		return "", fmt.Errorf("checking out branch %s: %w", t.Branch, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("getting worktree status: %w", err)
	}
	if !status.IsClean() {
		return "", errors.New("worktree is not clean after checkout")
	}

	return remoteRef.Hash().String(), nil
}

func (m *Manager) resetClone(cl *clone) error {
	worktree, err := cl.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return fmt.Errorf("resetting worktree: %w", err)
	}

	if err := worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("cleaning worktree: %w", err)
	}

	return nil
}

// releaseClone returns a clone to the back of the pool.
func (m *Manager) releaseClone(cl *clone) {
	m.mu.Lock()
	m.available = append(m.available, cl)
	m.mu.Unlock()
}

func (m *Manager) discardClone(cl *clone) {
	os.RemoveAll(cl.path)
}

func defaultRemoteURL(serverURL, owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s", serverURL, owner, repo)
}

// Lease represents an acquired clone prepared at the head of a pull request
// source branch.
type Lease struct {
	manager *Manager
	clone   *clone
	target  Target
	sha     string
}

// WorkingTree returns the absolute path to the lease's working directory.
func (l *Lease) WorkingTree() string {
	return l.clone.path
}

// SHA returns the commit hash currently checked out by the lease.
func (l *Lease) SHA() string {
	return l.sha
}

// ID returns a clone ID based on the underlying working tree path.
func (l *Lease) ID() string {
	return filepath.Base(l.clone.path)
}

// CommitAndPush stages every modification in the working tree, commits it
// with the given identity and message, and pushes the branch to origin. It
// returns the pushed commit SHA, or an empty string when the tree had no
// changes to publish. The push is not forced; a branch that moved since the
// lease was prepared fails the push and leaves the remote unchanged.
func (l *Lease) CommitAndPush(ctx context.Context, id Identity, message string) (string, error) {
	sha, committed, err := commitAll(l.clone.repo, id, message, l.manager.signer)
	if err != nil {
		return "", fmt.Errorf("committing changes: %w", err)
	}
	if !committed {
		return "", nil
	}

	auth, err := basicAuth(l.manager.tokenSource)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	clog.FromContext(ctx).Infof("Pushing %s to %s/%s", l.target.Branch, l.target.Owner, l.target.Repo)
	if err := pushBranch(ctx, l.clone.repo, auth, l.target.Branch); err != nil {
		return "", err
	}

	return sha, nil
}

// Return resets the working tree and places the clone back into the manager's
// pool. Once Return succeeds, the lease should be considered invalid.
func (l *Lease) Return(ctx context.Context) error {
	if err := l.manager.resetClone(l.clone); err != nil {
		l.manager.discardClone(l.clone)
		l.clone = nil
		return err
	}

	l.manager.releaseClone(l.clone)
	l.clone = nil
	l.manager = nil
	l.sha = ""

	return nil
}
