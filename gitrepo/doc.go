/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package gitrepo owns the version-control side of a gate run: hydrating the
// pull request source branch into a working tree, staging whatever the
// formatters rewrote, committing as the triggering actor, and pushing the
// result back to the same branch.
//
// Two entry points cover the two execution modes. A Manager keeps a pool of
// clones for the long-running webhook service, leasing one per event and
// resetting it on return. Open wraps an existing working copy (the CI
// runner's checkout) for single-shot runs.
//
// Pushes are never forced: a gate run only ever appends one commit to the
// branch, and a stale branch reference fails the push while leaving the
// remote untouched.
package gitrepo
