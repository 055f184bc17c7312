package scorer

import (
	"math"

	"github.com/wonderfulspam/shapesmith/pkg/differ"
	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
)

// Level is a coarse banding of the score.
type Level string

const (
	LevelNone     Level = "none"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// ChangePoints pairs a change with the raw points it contributed.
type ChangePoints struct {
	Change differ.Change `json:"change" yaml:"change"`
	Points int           `json:"points" yaml:"points"`
}

type Breakdown struct {
	TotalPoints int            `json:"total_points" yaml:"total_points"`
	Score       int            `json:"score" yaml:"score"`
	Level       Level          `json:"level" yaml:"level"`
	Items       []ChangePoints `json:"items" yaml:"items"`
}

type Scorer struct {
	weights Weights
}

// New returns a scorer using w. Callers are expected to have validated w.
func New(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score rates report with the default weights.
func Score(report *differ.DiffReport) int {
	return New(DefaultWeights()).Score(report)
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Points returns the raw severity points of a single change.
func (s *Scorer) Points(change differ.Change) int {
	switch change.Kind {
	case differ.ChangeRemovedField:
		return s.weights.Removed
	case differ.ChangeAddedField:
		return s.weights.Added
	case differ.ChangeTypeChanged:
		if Structural(change.OldType, change.NewType) {
			return s.weights.Structural
		}
		if Compatible(change.OldType, change.NewType) {
			return s.weights.Compatible
		}
		return s.weights.Incompatible
	default:
		return 0
	}
}

// Score converts the report's changes into a value in [0, 100]. Each
// additional change adds less than the one before it.
func (s *Scorer) Score(report *differ.DiffReport) int {
	if report == nil || len(report.Changes) == 0 {
		return 0
	}

	total := 0
	for _, change := range report.Changes {
		total += s.Points(change)
	}

	return s.normalize(total)
}

// Breakdown scores the report and keeps the per-change points.
func (s *Scorer) Breakdown(report *differ.DiffReport) Breakdown {
	result := Breakdown{
		Level: LevelNone,
		Items: []ChangePoints{},
	}
	if report == nil || len(report.Changes) == 0 {
		return result
	}

	for _, change := range report.Changes {
		points := s.Points(change)
		result.TotalPoints += points
		result.Items = append(result.Items, ChangePoints{Change: change, Points: points})
	}

	result.Score = s.normalize(result.TotalPoints)
	result.Level = LevelFor(result.Score)

	return result
}

func (s *Scorer) normalize(total int) int {
	raw := 100 * (1 - math.Exp(-float64(total)/s.weights.Decay))
	if math.IsNaN(raw) {
		return 0
	}
	raw = math.Max(0, math.Min(100, raw))
	// round half up
	return int(math.Floor(raw + 0.5))
}

// LevelFor bands a score.
func LevelFor(score int) Level {
	switch {
	case score <= 0:
		return LevelNone
	case score < 30:
		return LevelLow
	case score < 60:
		return LevelMedium
	case score < 85:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Structural reports whether either side is a container type.
func Structural(a, b jsonvalue.Type) bool {
	return a == jsonvalue.TypeObject || a == jsonvalue.TypeArray ||
		b == jsonvalue.TypeObject || b == jsonvalue.TypeArray
}

// Compatible reports whether a value of type a could plausibly be
// converted to type b: identical types, anything involving null, and
// the string/number pair.
func Compatible(a, b jsonvalue.Type) bool {
	if a == b {
		return true
	}
	if a == jsonvalue.TypeNull || b == jsonvalue.TypeNull {
		return true
	}
	return (a == jsonvalue.TypeString && b == jsonvalue.TypeNumber) ||
		(a == jsonvalue.TypeNumber && b == jsonvalue.TypeString)
}
