package scorer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfulspam/shapesmith/pkg/differ"
	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
)

func reportOf(changes ...differ.Change) *differ.DiffReport {
	return &differ.DiffReport{
		Changes:    changes,
		Summary:    differ.Summarize(changes),
		HasChanges: len(changes) > 0,
	}
}

func removed(path string) differ.Change {
	return differ.Change{Kind: differ.ChangeRemovedField, Path: path, OldType: jsonvalue.TypeBoolean}
}

func added(path string) differ.Change {
	return differ.Change{Kind: differ.ChangeAddedField, Path: path, NewType: jsonvalue.TypeString}
}

func typeChanged(path string, oldType, newType jsonvalue.Type) differ.Change {
	return differ.Change{Kind: differ.ChangeTypeChanged, Path: path, OldType: oldType, NewType: newType}
}

func TestScore_Empty(t *testing.T) {
	assert.Equal(t, 0, Score(reportOf()))
	assert.Equal(t, 0, Score(nil))
	assert.Equal(t, 0, Score(&differ.DiffReport{}))
}

func TestScore_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		old    string
		new    string
		points int
		score  int
	}{
		{name: "field added", old: `{"id":1}`, new: `{"id":1,"name":"x"}`, points: 5, score: 10},
		{name: "field removed", old: `{"id":1,"flag":true}`, new: `{"id":1}`, points: 40, score: 55},
		{name: "compatible change", old: `{"count":5}`, new: `{"count":"5"}`, points: 15, score: 26},
		{name: "structural change", old: `{"meta":false}`, new: `{"meta":{"active":true}}`, points: 35, score: 50},
		{name: "mixed", old: `{"a":1,"b":2,"c":true}`, new: `{"a":1,"d":4}`, points: 85, score: 82},
		{name: "identical", old: `{"a":[1]}`, new: `{"a":[2]}`, points: 0, score: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldDoc, err := jsonvalue.Parse([]byte(tt.old))
			require.NoError(t, err)
			newDoc, err := jsonvalue.Parse([]byte(tt.new))
			require.NoError(t, err)

			report := differ.Compare(oldDoc, newDoc)
			breakdown := New(DefaultWeights()).Breakdown(report)

			assert.Equal(t, tt.points, breakdown.TotalPoints)
			assert.Equal(t, tt.score, breakdown.Score)
			assert.Equal(t, tt.score, Score(report))
		})
	}
}

func TestPoints(t *testing.T) {
	s := New(DefaultWeights())

	tests := []struct {
		name   string
		change differ.Change
		want   int
	}{
		{"removed", removed("a"), 40},
		{"added", added("a"), 5},
		{"object to string is structural", typeChanged("a", jsonvalue.TypeObject, jsonvalue.TypeString), 35},
		{"null to array is structural", typeChanged("a", jsonvalue.TypeNull, jsonvalue.TypeArray), 35},
		{"array to object is structural", typeChanged("a", jsonvalue.TypeArray, jsonvalue.TypeObject), 35},
		{"number to string is compatible", typeChanged("a", jsonvalue.TypeNumber, jsonvalue.TypeString), 15},
		{"string to number is compatible", typeChanged("a", jsonvalue.TypeString, jsonvalue.TypeNumber), 15},
		{"null to boolean is compatible", typeChanged("a", jsonvalue.TypeNull, jsonvalue.TypeBoolean), 15},
		{"boolean to null is compatible", typeChanged("a", jsonvalue.TypeBoolean, jsonvalue.TypeNull), 15},
		{"boolean to number is incompatible", typeChanged("a", jsonvalue.TypeBoolean, jsonvalue.TypeNumber), 25},
		{"string to boolean is incompatible", typeChanged("a", jsonvalue.TypeString, jsonvalue.TypeBoolean), 25},
		{"unknown kind", differ.Change{Kind: "moved", Path: "a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Points(tt.change))
		})
	}
}

func TestCompatible(t *testing.T) {
	all := []jsonvalue.Type{
		jsonvalue.TypeNull, jsonvalue.TypeBoolean, jsonvalue.TypeNumber,
		jsonvalue.TypeString, jsonvalue.TypeArray, jsonvalue.TypeObject,
	}

	for _, a := range all {
		assert.True(t, Compatible(a, a), "%s is compatible with itself", a)
		assert.True(t, Compatible(a, jsonvalue.TypeNull), "%s is compatible with null", a)
		for _, b := range all {
			assert.Equal(t, Compatible(a, b), Compatible(b, a), "compatibility of %s/%s is symmetric", a, b)
		}
	}

	assert.True(t, Compatible(jsonvalue.TypeString, jsonvalue.TypeNumber))
	assert.False(t, Compatible(jsonvalue.TypeBoolean, jsonvalue.TypeNumber))
	assert.False(t, Compatible(jsonvalue.TypeBoolean, jsonvalue.TypeString))
	assert.False(t, Compatible(jsonvalue.TypeArray, jsonvalue.TypeObject))
}

func TestScore_MonotonicSeverity(t *testing.T) {
	ordered := []differ.Change{
		added("a"),
		typeChanged("a", jsonvalue.TypeNumber, jsonvalue.TypeString),
		typeChanged("a", jsonvalue.TypeBoolean, jsonvalue.TypeNumber),
		typeChanged("a", jsonvalue.TypeBoolean, jsonvalue.TypeObject),
		removed("a"),
	}

	previous := 0
	for i, change := range ordered {
		score := Score(reportOf(change))
		if score <= previous {
			t.Errorf("Expected tier %d (%s) to score above %d, got %d", i, change.Kind, previous, score)
		}
		previous = score
	}
}

func TestScore_Bounded(t *testing.T) {
	var changes []differ.Change
	previous := 0
	for i := 0; i < 200; i++ {
		changes = append(changes, removed(jsonvalue.JoinIndex("", i)))
		score := Score(reportOf(changes...))

		assert.GreaterOrEqual(t, score, previous, "score must not drop as changes accumulate")
		assert.LessOrEqual(t, score, 100)
		previous = score
	}
	assert.Equal(t, 100, previous)

	assert.Equal(t, 80, Score(reportOf(removed("a"), removed("b"))))
	assert.Equal(t, 98, Score(reportOf(removed("a"), removed("b"), removed("c"), removed("d"), removed("e"))))
}

func TestScore_DiminishingMarginalRisk(t *testing.T) {
	one := Score(reportOf(removed("a")))
	two := Score(reportOf(removed("a"), removed("b")))
	three := Score(reportOf(removed("a"), removed("b"), removed("c")))

	assert.Greater(t, two-one, three-two)
	assert.Greater(t, one, two-one)
}

func TestScore_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.Added = 0
	s := New(w)

	assert.Equal(t, 0, s.Score(reportOf(added("a"), added("b"))))

	w = DefaultWeights()
	w.Decay = 100
	s = New(w)
	expected := int(math.Floor(100*(1-math.Exp(-40.0/100)) + 0.5))
	assert.Equal(t, expected, s.Score(reportOf(removed("a"))))
	assert.Equal(t, w, s.Weights())
}

func TestBreakdown(t *testing.T) {
	report := reportOf(removed("b"), removed("c"), added("d"))
	breakdown := New(DefaultWeights()).Breakdown(report)

	assert.Equal(t, 85, breakdown.TotalPoints)
	assert.Equal(t, 82, breakdown.Score)
	assert.Equal(t, LevelHigh, breakdown.Level)
	require.Len(t, breakdown.Items, 3)
	assert.Equal(t, 40, breakdown.Items[0].Points)
	assert.Equal(t, "d", breakdown.Items[2].Change.Path)
	assert.Equal(t, 5, breakdown.Items[2].Points)

	empty := New(DefaultWeights()).Breakdown(reportOf())
	assert.Equal(t, LevelNone, empty.Level)
	assert.Empty(t, empty.Items)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelNone},
		{1, LevelLow},
		{29, LevelLow},
		{30, LevelMedium},
		{59, LevelMedium},
		{60, LevelHigh},
		{84, LevelHigh},
		{85, LevelCritical},
		{100, LevelCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "level for %d", tt.score)
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.Removed = -1
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Decay = 0
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Decay = math.Inf(1)
	assert.Error(t, w.Validate())
}
