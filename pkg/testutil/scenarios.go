package testutil

// Scenario is an old/new document pair with the outcome expected from
// comparing them.
type Scenario struct {
	Name         string
	Description  string
	OldPath      string
	NewPath      string
	Expectations Expectations
}

// Expectations defines what a correct comparison of a scenario produces
type Expectations struct {
	Score    int               // Exact risk score; -1 skips the check
	Level    string            // Expected risk level, empty skips the check
	Added    int               // Expected count of added fields
	Removed  int               // Expected count of removed fields
	Risky    int               // Expected count of type changes
	Changes  map[string]string // Expected change kind per path
	Unlisted bool              // Whether changes outside Changes are tolerated
}

// ScenarioConfig is the on-disk form of a scenario, read from scenario.yaml
type ScenarioConfig struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Expectations struct {
		Score    *int              `yaml:"score"`
		Level    string            `yaml:"level"`
		Added    int               `yaml:"added"`
		Removed  int               `yaml:"removed"`
		Risky    int               `yaml:"risky"`
		Changes  map[string]string `yaml:"changes"`
		Unlisted bool              `yaml:"allow_unlisted_changes"`
	} `yaml:"expectations"`
}
