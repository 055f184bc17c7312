package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFile = "scenario.yaml"

// DiscoverScenarios finds every directory under scenariosPath holding an
// old.* and a new.* document. Scenarios are returned sorted by name.
func DiscoverScenarios(scenariosPath string) ([]*Scenario, error) {
	var scenarios []*Scenario

	entries, err := os.ReadDir(scenariosPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		scenarioName := entry.Name()
		scenarioDir := filepath.Join(scenariosPath, scenarioName)

		oldPath, err := findDocument(scenarioDir, "old")
		if err != nil {
			return nil, err
		}
		newPath, err := findDocument(scenarioDir, "new")
		if err != nil {
			return nil, err
		}
		if oldPath == "" || newPath == "" {
			continue
		}

		scenario := &Scenario{
			Name:         scenarioName,
			Description:  GenerateDescription(scenarioName),
			OldPath:      oldPath,
			NewPath:      newPath,
			Expectations: DefaultExpectations(),
		}

		configPath := filepath.Join(scenarioDir, configFile)
		if FileExists(configPath) {
			config, err := LoadScenarioConfig(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config for %s: %w", scenarioName, err)
			}
			ApplyScenarioConfig(scenario, config)
		}

		scenarios = append(scenarios, scenario)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})

	return scenarios, nil
}

// findDocument returns the single <stem>.<ext> file in dir, or "" if none.
func findDocument(dir, stem string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, stem+".*"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("scenario %s has %d %s documents, expected one", filepath.Base(dir), len(matches), stem)
	}
}

// LoadScenarioConfig loads scenario configuration from YAML file
func LoadScenarioConfig(configPath string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config ScenarioConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyScenarioConfig applies configuration to a scenario
func ApplyScenarioConfig(scenario *Scenario, config *ScenarioConfig) {
	if config.Name != "" {
		scenario.Name = config.Name
	}
	if config.Description != "" {
		scenario.Description = config.Description
	}

	exp := config.Expectations
	scenario.Expectations = Expectations{
		Score:    -1,
		Level:    exp.Level,
		Added:    exp.Added,
		Removed:  exp.Removed,
		Risky:    exp.Risky,
		Changes:  exp.Changes,
		Unlisted: exp.Unlisted,
	}
	if exp.Score != nil {
		scenario.Expectations.Score = *exp.Score
	}
	if scenario.Expectations.Changes == nil {
		scenario.Expectations.Changes = make(map[string]string)
	}
}

// DefaultExpectations describes two documents of identical shape.
func DefaultExpectations() Expectations {
	return Expectations{
		Score:   0,
		Level:   "none",
		Changes: make(map[string]string),
	}
}

// GenerateDescription turns a directory name such as "removed-flag" into
// a readable description.
func GenerateDescription(scenarioName string) string {
	words := strings.FieldsFunc(scenarioName, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(words) == 0 {
		return "Unnamed scenario"
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
