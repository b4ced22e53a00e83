/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package workflowgen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fmtgate/fmtgate/gate"
)

// DefaultPath is where Write places the workflow, relative to the repo root.
const DefaultPath = ".github/workflows/format.yml"

// Config controls the rendered workflow.
type Config struct {
	// Name is the workflow name, "Format" by default.
	Name string
	// PythonVersion is the interpreter provisioned for the formatters.
	PythonVersion string
	// Branches optionally restricts the pull_request trigger.
	Branches []string
	// CommitMessage is the fix commit message, gate.CommitMessage by default.
	CommitMessage string
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "Format"
	}
	if c.PythonVersion == "" {
		c.PythonVersion = "3.12"
	}
	if c.CommitMessage == "" {
		c.CommitMessage = gate.CommitMessage
	}
	return c
}

type workflow struct {
	Name        string            `yaml:"name"`
	On          onSpec            `yaml:"on"`
	Permissions map[string]string `yaml:"permissions"`
	Jobs        map[string]job    `yaml:"jobs"`
}

type onSpec struct {
	PullRequest prTrigger `yaml:"pull_request"`
}

type prTrigger struct {
	Branches []string `yaml:"branches,omitempty"`
}

type job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type step struct {
	Name string            `yaml:"name,omitempty"`
	ID   string            `yaml:"id,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	If   string            `yaml:"if,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
}

// Generate renders the workflow YAML.
func Generate(cfg Config) ([]byte, error) {
	cfg = cfg.withDefaults()

	checkRun := `if black --check --quiet .; then
  echo "compliant=true" >> "$GITHUB_OUTPUT"
else
  echo "compliant=false" >> "$GITHUB_OUTPUT"
fi
`

	fixRun := fmt.Sprintf(`black --quiet .
isort --profile black .
git config --global user.name "${GITHUB_ACTOR}"
git config --global user.email "${GITHUB_ACTOR}@users.noreply.github.com"
git commit -am %q
git push
`, cfg.CommitMessage)

	wf := workflow{
		Name: cfg.Name,
		On:   onSpec{PullRequest: prTrigger{Branches: cfg.Branches}},
		Permissions: map[string]string{
			"contents": "write",
		},
		Jobs: map[string]job{
			"format": {
				RunsOn: "ubuntu-latest",
				Steps: []step{
					{
						Uses: "actions/checkout@v4",
						With: map[string]string{
							"ref": "${{ github.head_ref }}",
						},
					},
					{
						Uses: "actions/setup-python@v5",
						With: map[string]string{
							"python-version": cfg.PythonVersion,
						},
					},
					{
						Name: "Install formatters",
						Run:  "pip install --upgrade black isort\n",
					},
					{
						Name: "Check formatting",
						ID:   "check",
						Run:  checkRun,
					},
					{
						Name: "Fix formatting and push",
						If:   "steps.check.outputs.compliant == 'false'",
						Run:  fixRun,
					},
				},
			},
		},
	}

	data, err := yaml.Marshal(&wf)
	if err != nil {
		return nil, fmt.Errorf("marshaling workflow: %w", err)
	}
	return data, nil
}

// Write renders the workflow and places it under root at DefaultPath,
// creating the .github/workflows directory as needed.
func Write(root string, cfg Config) (string, error) {
	data, err := Generate(cfg)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, filepath.FromSlash(DefaultPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating workflow dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing workflow: %w", err)
	}
	return path, nil
}
