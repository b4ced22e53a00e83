/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package pyfmt drives the Python formatting toolchain (black and isort).
// A Runner invokes the tools as subprocesses: Check runs black in report-only
// mode and parses its diff output into per-file findings, Fix rewrites the
// tree in place and then normalizes import order with isort's black-compatible
// profile, and Install provisions both tools with pip.
//
// Check never mutates the tree; Fix is idempotent, so a second Fix over the
// same tree produces no further changes.
package pyfmt
