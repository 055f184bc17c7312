package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wonderfulspam/shapesmith/pkg/differ"
	"github.com/wonderfulspam/shapesmith/pkg/loader"
	"github.com/wonderfulspam/shapesmith/pkg/testutil"
)

func TestScenarios(t *testing.T) {
	scenarios, err := testutil.DiscoverScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	s := New(DefaultWeights())

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			oldDoc, newDoc, err := loader.LoadPair(context.Background(), scenario.OldPath, scenario.NewPath, loader.Options{})
			require.NoError(t, err)

			report := differ.Compare(oldDoc.Value, newDoc.Value)
			breakdown := s.Breakdown(report)

			ok, issues := testutil.ValidateExpectations(&testutil.Result{
				Report: report,
				Score:  breakdown.Score,
				Level:  string(breakdown.Level),
			}, scenario.Expectations)
			if !ok {
				t.Errorf("%s: %d issue(s)", scenario.Description, len(issues))
				for _, issue := range issues {
					t.Logf("  - %s", issue)
				}
			}
		})
	}
}
