/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package actionsenv

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()

	var e Environment
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target: &e,
		Lookuper: envconfig.MapLookuper(map[string]string{
			"GITHUB_ACTOR":      "alice",
			"GITHUB_REPOSITORY": "acme/widgets",
			"GITHUB_HEAD_REF":   "feature/tidy",
		}),
	}); err != nil {
		t.Fatalf("ProcessWith: %v", err)
	}

	if e.ServerURL != "https://github.com" {
		t.Errorf("ServerURL = %q, want default", e.ServerURL)
	}

	owner, repo, err := e.OwnerRepo()
	if err != nil {
		t.Fatalf("OwnerRepo: %v", err)
	}
	if owner != "acme" || repo != "widgets" {
		t.Errorf("OwnerRepo = %s/%s, want acme/widgets", owner, repo)
	}

	branch, err := e.Branch()
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}
	if branch != "feature/tidy" {
		t.Errorf("Branch = %q, want feature/tidy", branch)
	}
}

func TestOwnerRepoMalformed(t *testing.T) {
	for _, repository := range []string{"", "acme", "/widgets", "acme/"} {
		e := Environment{Repository: repository}
		if _, _, err := e.OwnerRepo(); err == nil {
			t.Errorf("OwnerRepo(%q): expected error", repository)
		}
	}
}

func TestBranchFallsBackToRefName(t *testing.T) {
	e := Environment{RefName: "main"}
	branch, err := e.Branch()
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}
	if branch != "main" {
		t.Errorf("Branch = %q, want main", branch)
	}

	if _, err := (&Environment{}).Branch(); err == nil {
		t.Error("Branch with no refs: expected error")
	}
}

func TestNoReplyEmail(t *testing.T) {
	tests := []struct {
		actor     string
		serverURL string
		want      string
	}{
		{"alice", "https://github.com", "alice@users.noreply.github.com"},
		{"bob", "https://ghe.example.com", "bob@users.noreply.ghe.example.com"},
		{"carol", "", "carol@users.noreply.github.com"},
		{"dave", "::not a url::", "dave@users.noreply.github.com"},
	}
	for _, tc := range tests {
		if got := NoReplyEmail(tc.actor, tc.serverURL); got != tc.want {
			t.Errorf("NoReplyEmail(%q, %q) = %q, want %q", tc.actor, tc.serverURL, got, tc.want)
		}
	}
}
