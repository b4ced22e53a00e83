/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// cloneWorkingCopy prepares a non-bare clone of the bare remote, standing in
// for the checkout a CI runner produces.
func cloneWorkingCopy(t *testing.T, bare string) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := git.PlainClone(dir, false, &git.CloneOptions{URL: bare}); err != nil {
		t.Fatalf("PlainClone: %v", err)
	}
	return dir
}

func TestOpenAndHeadSHA(t *testing.T) {
	bare, headHash := initTestRepo(t)
	dir := cloneWorkingCopy(t, bare)

	co, err := Open(dir, staticTokenSource(""))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if co.Dir() != dir {
		t.Errorf("Dir = %q, want %q", co.Dir(), dir)
	}

	sha, err := co.HeadSHA()
	if err != nil {
		t.Fatalf("HeadSHA: %v", err)
	}
	if sha != headHash {
		t.Errorf("HeadSHA = %s, want %s", sha, headHash)
	}
}

func TestOpenMissingRepository(t *testing.T) {
	if _, err := Open(t.TempDir(), staticTokenSource("")); err == nil {
		t.Fatal("expected error opening a non-repository")
	}
}

func TestCheckoutCommitAndPush(t *testing.T) {
	ctx := context.Background()

	bare, headHash := initTestRepo(t)
	dir := cloneWorkingCopy(t, bare)

	co, err := Open(dir, staticTokenSource(""))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("x = \"hello\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sha, err := co.CommitAndPush(ctx, testIdentity, "master", "Apply formatting fixes")
	if err != nil {
		t.Fatalf("CommitAndPush: %v", err)
	}
	if sha == "" || sha == headHash {
		t.Fatalf("unexpected sha %q", sha)
	}

	if got := remoteHead(t, bare, "master"); got != sha {
		t.Fatalf("remote head = %s, want %s", got, sha)
	}

	remote, err := git.PlainOpen(bare)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	commit, err := remote.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		t.Fatalf("CommitObject: %v", err)
	}
	if commit.Author.Email != "alice@users.noreply.github.com" {
		t.Errorf("author email = %q", commit.Author.Email)
	}
}

func TestCheckoutCommitAndPushNoChanges(t *testing.T) {
	ctx := context.Background()

	bare, headHash := initTestRepo(t)
	dir := cloneWorkingCopy(t, bare)

	co, err := Open(dir, staticTokenSource(""))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sha, err := co.CommitAndPush(ctx, testIdentity, "master", "Apply formatting fixes")
	if err != nil {
		t.Fatalf("CommitAndPush: %v", err)
	}
	if sha != "" {
		t.Fatalf("expected no commit, got %s", sha)
	}
	if got := remoteHead(t, bare, "master"); got != headHash {
		t.Fatalf("remote head moved to %s", got)
	}
}

func TestCheckoutValidation(t *testing.T) {
	ctx := context.Background()

	bare, _ := initTestRepo(t)
	dir := cloneWorkingCopy(t, bare)

	co, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := co.CommitAndPush(ctx, testIdentity, "master", "msg"); err == nil {
		t.Error("expected error without token source")
	}

	co, err = Open(dir, staticTokenSource(""))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := co.CommitAndPush(ctx, testIdentity, "", "msg"); err == nil {
		t.Error("expected error for empty branch")
	}
	if _, err := co.CommitAndPush(ctx, Identity{}, "master", "msg"); err == nil {
		t.Error("expected error for empty identity")
	}
	if _, err := co.CommitAndPush(ctx, testIdentity, "master", ""); err == nil {
		t.Error("expected error for empty message")
	}
}
