/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package workflowgen renders the GitHub Actions workflow that wires the
// formatting gate into a repository: a pull_request-triggered job that
// provisions the formatters, checks the tree, and conditionally fixes and
// pushes.
//
// The check step publishes its verdict through GITHUB_OUTPUT and the fix
// step's condition reads that output. Setting a variable inside the check
// step's process would be invisible to the fix step, which silently turns
// the conditional into "always".
package workflowgen
