package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCommand(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	oldPath := writeDoc(t, dir, "old.json", `{"a":1,"b":2,"c":true}`)
	newPath := writeDoc(t, dir, "new.json", `{"a":1,"d":4}`)

	tests := []struct {
		name        string
		args        []string
		expectError bool
		checkOutput func(t *testing.T, stdout, stderr string)
	}{
		{
			name: "json output",
			args: []string{"--format", "json"},
			checkOutput: func(t *testing.T, stdout, stderr string) {
				var result struct {
					Score  int `json:"score"`
					Report struct {
						Changes []struct {
							Kind string `json:"kind"`
							Path string `json:"path"`
						} `json:"changes"`
					} `json:"report"`
				}
				require.NoError(t, json.Unmarshal([]byte(stdout), &result))
				assert.Equal(t, 82, result.Score)
				require.Len(t, result.Report.Changes, 3)
				assert.Equal(t, "b", result.Report.Changes[0].Path)
				assert.Contains(t, stderr, "2 removed, 1 added, 0 risky")
			},
		},
		{
			name: "table output from config default",
			args: []string{"--color", "never"},
			checkOutput: func(t *testing.T, stdout, stderr string) {
				assert.Contains(t, stdout, "JSON Shape Comparison")
				assert.Contains(t, stdout, "Score: 82/100 (high)")
			},
		},
		{
			name: "verbose table",
			args: []string{"--format", "table", "--color", "never", "--verbose"},
			checkOutput: func(t *testing.T, stdout, stderr string) {
				assert.Contains(t, stdout, "(+40)")
			},
		},
		{
			name: "yaml output",
			args: []string{"--format", "yaml"},
			checkOutput: func(t *testing.T, stdout, stderr string) {
				assert.Contains(t, stdout, "score: 82")
				assert.Contains(t, stdout, "kind: removed_field")
			},
		},
		{
			name:        "threshold exceeded",
			args:        []string{"--format", "json", "--fail-above", "50"},
			expectError: true,
		},
		{
			name: "threshold not exceeded",
			args: []string{"--format", "json", "--fail-above", "90"},
		},
		{
			name:        "unsupported output format",
			args:        []string{"--format", "csv"},
			expectError: true,
		},
		{
			name:        "unsupported input format",
			args:        []string{"--input-format", "xml"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"compare", "--config", cfg, "--old", oldPath, "--new", newPath}, tt.args...)
			stdout, stderr, err := executeCommand(t, args...)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			require.NoError(t, err)
			if tt.checkOutput != nil {
				tt.checkOutput(t, stdout, stderr)
			}
		})
	}
}

func TestCompareCommand_NoChanges(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	path := writeDoc(t, dir, "same.json", `{"id":1,"tags":["x"]}`)

	stdout, stderr, err := executeCommand(t, "compare", "--config", cfg, "--old", path, "--new", path,
		"--format", "table", "--color", "never", "--fail-above", "0")
	require.NoError(t, err)

	assert.Contains(t, stdout, "No shape differences found.")
	assert.Contains(t, stdout, "Score: 0/100 (none)")
	assert.Contains(t, stderr, "No shape differences found")
}

func TestCompareCommand_OutputFile(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	oldPath := writeDoc(t, dir, "old.json", `{"count":5}`)
	newPath := writeDoc(t, dir, "new.yaml", "count: \"5\"\n")
	outPath := filepath.Join(dir, "report.json")

	_, stderr, err := executeCommand(t, "compare", "--config", cfg, "--old", oldPath, "--new", newPath,
		"--format", "json", "--output", outPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Results written to")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.EqualValues(t, 26, result["score"])
}

func TestCompareCommand_Repair(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	oldPath := writeDoc(t, dir, "old.json", `{"id":1,}`)
	newPath := writeDoc(t, dir, "new.json", `{"id":1}`)

	_, _, err := executeCommand(t, "compare", "--config", cfg, "--old", oldPath, "--new", newPath, "--format", "json")
	require.Error(t, err, "malformed input is rejected without --repair")

	stdout, stderr, err := executeCommand(t, "compare", "--config", cfg, "--old", oldPath, "--new", newPath,
		"--format", "json", "--repair")
	require.NoError(t, err)
	assert.Contains(t, stderr, "has been repaired")
	assert.Contains(t, stdout, `"score": 0`)
}

func TestCompareCommand_ConfigWeights(t *testing.T) {
	dir := t.TempDir()
	cfg := writeDoc(t, dir, "custom.toml", "[scoring]\nadded = 0\n\n[output]\nformat = \"json\"\n")
	oldPath := writeDoc(t, dir, "old.json", `{"id":1}`)
	newPath := writeDoc(t, dir, "new.json", `{"id":1,"name":"x"}`)

	stdout, _, err := executeCommand(t, "compare", "--config", cfg, "--old", oldPath, "--new", newPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "{"), "configured format is json")
	assert.Contains(t, stdout, `"score": 0`)
}

func TestCompareCommand_LimitsFromEnv(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	oldPath := writeDoc(t, dir, "old.json", `{"a":{"b":{"c":1}}}`)
	newPath := writeDoc(t, dir, "new.json", `{"a":1}`)

	t.Setenv("SHAPESMITH_LIMITS_MAX_DEPTH", "2")
	_, _, err := executeCommand(t, "compare", "--config", cfg, "--old", oldPath, "--new", newPath, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting limit")
}

func TestCompareCommand_MissingFlags(t *testing.T) {
	cfg := writeTestConfig(t)
	_, _, err := executeCommand(t, "compare", "--config", cfg, "--old", "only-old.json")
	if err == nil {
		t.Error("Expected error when --new is missing")
	}
}

func TestCompareCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeDoc(t, dir, "bad.toml", "[scoring]\ndecay = 0.0\n")
	path := writeDoc(t, dir, "doc.json", `{}`)

	_, _, err := executeCommand(t, "compare", "--config", cfg, "--old", path, "--new", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
