/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package pyfmt

import (
	"fmt"
	"strings"

	"github.com/waigani/diffparser"
)

// CheckResult is the verdict from a report-only formatting pass.
type CheckResult struct {
	// Compliant is true when no file would be reformatted.
	Compliant bool
	// Findings lists the non-compliant files, one entry per file.
	Findings []Finding
	// Diff is the raw unified diff black produced, empty when compliant.
	Diff string
}

// Finding describes one non-compliant file.
type Finding struct {
	// Path is the file path as reported by the formatter.
	Path string
	// Hunks counts the diff hunks the formatter would rewrite.
	Hunks int
}

// Paths returns the finding paths in report order.
func (c *CheckResult) Paths() []string {
	paths := make([]string, 0, len(c.Findings))
	for _, f := range c.Findings {
		paths = append(paths, f.Path)
	}
	return paths
}

// parseFindings turns black's --diff output into per-file findings.
func parseFindings(diff string) ([]Finding, error) {
	if strings.TrimSpace(diff) == "" {
		return nil, nil
	}

	parsed, err := diffparser.Parse(normalizeBlackDiff(diff))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	findings := make([]Finding, 0, len(parsed.Files))
	for _, f := range parsed.Files {
		name := f.NewName
		if name == "" {
			name = f.OrigName
		}
		findings = append(findings, Finding{Path: name, Hunks: len(f.Hunks)})
	}
	return findings, nil
}

// normalizeBlackDiff rewrites black's POSIX-style file headers
// ("--- path<TAB>timestamp") into the git-style headers diffparser expects,
// inserting the "diff --git" file boundary lines black omits.
func normalizeBlackDiff(diff string) string {
	var b strings.Builder
	lines := strings.Split(diff, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
			path := headerPath(line)
			fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
			fmt.Fprintf(&b, "--- a/%s\n", path)
			fmt.Fprintf(&b, "+++ b/%s\n", headerPath(lines[i+1]))
			i++
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// headerPath strips the "--- "/"+++ " prefix and the trailing
// tab-separated timestamp from a unified diff file header.
func headerPath(line string) string {
	path := line[4:]
	if tab := strings.IndexByte(path, '\t'); tab >= 0 {
		path = path[:tab]
	}
	return strings.TrimPrefix(path, "./")
}
