/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package statuscheck reports gate outcomes as commit statuses on the pull
// request head SHA. In CI mode the job's own exit status plays this role; the
// webhook service uses a Reporter so runs it performs out-of-band still show
// up on the pull request's checks.
package statuscheck
