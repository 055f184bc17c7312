package testutil

import (
	"fmt"
	"sort"

	"github.com/wonderfulspam/shapesmith/pkg/differ"
)

// Result is the outcome of comparing a scenario's documents.
type Result struct {
	Report *differ.DiffReport
	Score  int
	Level  string
}

// ValidateExpectations checks result against expectations and returns
// whether it matched along with one message per mismatch.
func ValidateExpectations(result *Result, expectations Expectations) (bool, []string) {
	var issues []string

	if result == nil || result.Report == nil {
		return false, []string{"No comparison result"}
	}

	if expectations.Score >= 0 && result.Score != expectations.Score {
		issues = append(issues, fmt.Sprintf("Expected score %d, got %d", expectations.Score, result.Score))
	}

	if expectations.Level != "" && result.Level != expectations.Level {
		issues = append(issues, fmt.Sprintf("Expected level %s, got %s", expectations.Level, result.Level))
	}

	summary := result.Report.Summary
	if summary.Added != expectations.Added {
		issues = append(issues, fmt.Sprintf("Expected %d added fields, got %d", expectations.Added, summary.Added))
	}
	if summary.Removed != expectations.Removed {
		issues = append(issues, fmt.Sprintf("Expected %d removed fields, got %d", expectations.Removed, summary.Removed))
	}
	if summary.Risky != expectations.Risky {
		issues = append(issues, fmt.Sprintf("Expected %d type changes, got %d", expectations.Risky, summary.Risky))
	}

	actual := ChangesByPath(result.Report)
	for _, path := range sortedKeys(expectations.Changes) {
		want := expectations.Changes[path]
		got, ok := actual[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("Path %s: expected %s, found no change", path, want))
			continue
		}
		if got != want {
			issues = append(issues, fmt.Sprintf("Path %s: expected %s, got %s", path, want, got))
		}
	}

	if !expectations.Unlisted && len(expectations.Changes) > 0 {
		for _, path := range sortedKeys(actual) {
			if _, ok := expectations.Changes[path]; !ok {
				issues = append(issues, fmt.Sprintf("Unexpected change at %s: %s", path, actual[path]))
			}
		}
	}

	if err := result.Report.Verify(); err != nil {
		issues = append(issues, fmt.Sprintf("Report is inconsistent: %v", err))
	}

	return len(issues) == 0, issues
}

// ChangesByPath maps each changed path to its change kind.
func ChangesByPath(report *differ.DiffReport) map[string]string {
	changes := make(map[string]string, len(report.Changes))
	for _, change := range report.Changes {
		changes[change.Path] = string(change.Kind)
	}
	return changes
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
