/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package actionsenv

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoOutputFile is returned when GITHUB_OUTPUT is not set, e.g. when running
// outside of a workflow step.
var ErrNoOutputFile = errors.New("GITHUB_OUTPUT is not set")

// WriteOutput appends a named step output to the GITHUB_OUTPUT file.
// Multi-line values use the heredoc form the runner documents
// (name<<delimiter ... delimiter); single-line values use name=value.
func (e *Environment) WriteOutput(name, value string) error {
	if e.OutputPath == "" {
		return ErrNoOutputFile
	}
	if name == "" || strings.ContainsAny(name, "=\n") {
		return fmt.Errorf("invalid output name %q", name)
	}

	line, err := formatOutput(name, value)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(e.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing output %s: %w", name, err)
	}
	return nil
}

func formatOutput(name, value string) (string, error) {
	if !strings.Contains(value, "\n") {
		return fmt.Sprintf("%s=%s\n", name, value), nil
	}

	delim, err := delimiter(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim), nil
}

// delimiter picks a random heredoc terminator that does not occur in value.
func delimiter(value string) (string, error) {
	for range 3 {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("generating delimiter: %w", err)
		}
		d := "ghadelim_" + hex.EncodeToString(buf[:])
		if !strings.Contains(value, d) {
			return d, nil
		}
	}
	return "", errors.New("could not generate a safe delimiter")
}
