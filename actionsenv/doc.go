/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package actionsenv reads the GitHub Actions environment a gate run executes
// in and writes step outputs back through the runner's official inter-step
// mechanism (the GITHUB_OUTPUT file). Step outputs are the only supported way
// for one workflow step to observe another step's verdict; environment
// variables set inside a step are process-local and invisible to later steps.
package actionsenv
