package renderer

import (
	"github.com/wonderfulspam/shapesmith/pkg/differ"
	"github.com/wonderfulspam/shapesmith/pkg/scorer"
)

// Result is the read-only view of one comparison handed to every output
// format.
type Result struct {
	Files       FileInfo              `json:"files" yaml:"files"`
	Report      *differ.DiffReport    `json:"report" yaml:"report"`
	Score       int                   `json:"score" yaml:"score"`
	Level       scorer.Level          `json:"level" yaml:"level"`
	TotalPoints int                   `json:"total_points" yaml:"total_points"`
	Points      []scorer.ChangePoints `json:"points,omitempty" yaml:"points,omitempty"`
}

type FileInfo struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// NewResult scores report with s and bundles it for rendering.
func NewResult(files FileInfo, report *differ.DiffReport, s *scorer.Scorer) *Result {
	breakdown := s.Breakdown(report)
	return &Result{
		Files:       files,
		Report:      report,
		Score:       breakdown.Score,
		Level:       breakdown.Level,
		TotalPoints: breakdown.TotalPoints,
		Points:      breakdown.Items,
	}
}

// Options controls rendering.
type Options struct {
	NoColor bool
	// Verbose adds per-change points to the table output
	Verbose bool
}
