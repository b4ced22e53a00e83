/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package statuscheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err, "failed to parse test server URL")
	client.BaseURL = base
	return client
}

func TestReporterStates(t *testing.T) {
	ctx := context.Background()

	var got []github.RepoStatus
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/statuses/deadbeef", func(w http.ResponseWriter, r *http.Request) {
		var status github.RepoStatus
		require.NoError(t, json.NewDecoder(r.Body).Decode(&status), "failed to decode status")
		got = append(got, status)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	})

	r, err := New(newTestClient(t, mux), "acme", "widgets")
	require.NoError(t, err, "failed to create reporter")

	require.NoError(t, r.Pending(ctx, "deadbeef", "Checking formatting"))
	require.NoError(t, r.Success(ctx, "deadbeef", "Compliant"))
	require.NoError(t, r.Failure(ctx, "deadbeef", "Push failed"))

	require.Len(t, got, 3)
	for i, want := range []string{"pending", "success", "failure"} {
		require.Equal(t, want, got[i].GetState(), "status %d state", i)
		require.Equal(t, "fmtgate", got[i].GetContext(), "status %d context", i)
	}
}

func TestReporterTruncatesDescription(t *testing.T) {
	ctx := context.Background()

	var got github.RepoStatus
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/statuses/deadbeef", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("{}"))
	})

	r, err := New(newTestClient(t, mux), "acme", "widgets", WithContext("fmtgate/black"))
	require.NoError(t, err, "failed to create reporter")

	long := strings.Repeat("x", 300)
	require.NoError(t, r.Failure(ctx, "deadbeef", long))
	require.LessOrEqual(t, len(got.GetDescription()), 140, "description not truncated")
	require.True(t, strings.HasSuffix(got.GetDescription(), "..."), "description %q not marked truncated", got.GetDescription())
	require.Equal(t, "fmtgate/black", got.GetContext())
}

func TestReporterValidation(t *testing.T) {
	client := github.NewClient(nil)

	_, err := New(nil, "acme", "widgets")
	require.Error(t, err, "expected error for nil client")
	_, err = New(client, "", "widgets")
	require.Error(t, err, "expected error for empty owner")
	_, err = New(client, "acme", "")
	require.Error(t, err, "expected error for empty repo")

	r, err := New(client, "acme", "widgets")
	require.NoError(t, err)
	require.Error(t, r.Success(context.Background(), "", "ok"), "expected error for empty sha")
}
