/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package actionsenv

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestWriteOutputSingleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	e := Environment{OutputPath: path}

	if err := e.WriteOutput("compliant", "true"); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if err := e.WriteOutput("commit", "deadbeef"); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "compliant=true\ncommit=deadbeef\n"
	if string(data) != want {
		t.Errorf("output file = %q, want %q", data, want)
	}
}

func TestWriteOutputMultiLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	e := Environment{OutputPath: path}

	value := "app/main.py\napp/util.py"
	if err := e.WriteOutput("changed", value); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	re := regexp.MustCompile(`(?s)^changed<<(ghadelim_[0-9a-f]{16})\n(.*)\n(ghadelim_[0-9a-f]{16})\n$`)
	m := re.FindStringSubmatch(string(data))
	if m == nil {
		t.Fatalf("output file %q does not match heredoc form", data)
	}
	if m[1] != m[3] {
		t.Errorf("delimiters differ: %q vs %q", m[1], m[3])
	}
	if m[2] != value {
		t.Errorf("value = %q, want %q", m[2], value)
	}
	if strings.Contains(value, m[1]) {
		t.Errorf("delimiter %q occurs in value", m[1])
	}
}

func TestWriteOutputErrors(t *testing.T) {
	e := Environment{}
	if err := e.WriteOutput("compliant", "true"); !errors.Is(err, ErrNoOutputFile) {
		t.Errorf("expected ErrNoOutputFile, got %v", err)
	}

	e = Environment{OutputPath: filepath.Join(t.TempDir(), "output")}
	for _, name := range []string{"", "a=b", "a\nb"} {
		if err := e.WriteOutput(name, "v"); err == nil {
			t.Errorf("WriteOutput(%q): expected error", name)
		}
	}
}
