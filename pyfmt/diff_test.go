/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package pyfmt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleBlackDiff = `--- app/main.py	2026-08-29 10:14:00.000000+00:00
+++ app/main.py	2026-08-29 10:14:01.000000+00:00
@@ -1,3 +1,3 @@
-x = 'hello'
+x = "hello"
 print(x)
@@ -10,2 +10,2 @@
-y = {'a':1}
+y = {"a": 1}
--- lib/util.py	2026-08-29 10:14:00.000000+00:00
+++ lib/util.py	2026-08-29 10:14:01.000000+00:00
@@ -1,1 +1,1 @@
-z=1
+z = 1
`

func TestParseFindings(t *testing.T) {
	findings, err := parseFindings(sampleBlackDiff)
	if err != nil {
		t.Fatalf("parseFindings: %v", err)
	}

	want := []Finding{
		{Path: "app/main.py", Hunks: 2},
		{Path: "lib/util.py", Hunks: 1},
	}
	if diff := cmp.Diff(want, findings); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFindingsEmpty(t *testing.T) {
	findings, err := parseFindings("")
	if err != nil {
		t.Fatalf("parseFindings: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestCheckResultPaths(t *testing.T) {
	res := &CheckResult{Findings: []Finding{{Path: "a.py"}, {Path: "b.py"}}}
	want := []string{"a.py", "b.py"}
	if diff := cmp.Diff(want, res.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderPath(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"--- app/main.py\t2026-08-29 10:14:00", "app/main.py"},
		{"+++ ./lib/util.py\t2026-08-29 10:14:01", "lib/util.py"},
		{"--- plain.py", "plain.py"},
	}
	for _, tc := range tests {
		if got := headerPath(tc.line); got != tc.want {
			t.Errorf("headerPath(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}
