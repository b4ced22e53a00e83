/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package gate orchestrates a formatting gate run: a report-only check over
// the source tree, conditional remediation when the check fails, and
// publication of the remediated tree as a single commit on the pull request
// source branch.
//
// The flow is a two-branch conditional with no loops and no retries. The
// check never mutates the tree. Remediation runs only on a failed check and
// is idempotent. Publication happens only when remediation actually changed
// files, and only ever appends one commit.
package gate
