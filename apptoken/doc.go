/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package apptoken bridges GitHub credentials into oauth2.TokenSource, the
// shape gitrepo and the GitHub API client consume. It covers the two setups
// the gate supports: a GitHub App installation minting short-lived tokens,
// and a static repository-scoped token such as the Actions-provided
// GITHUB_TOKEN.
package apptoken
