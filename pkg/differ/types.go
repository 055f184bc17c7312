package differ

import (
	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
)

type ChangeKind string

const (
	ChangeRemovedField ChangeKind = "removed_field"
	ChangeAddedField   ChangeKind = "added_field"
	ChangeTypeChanged  ChangeKind = "type_changed"
)

// Change is a single path-qualified divergence between two documents.
// OldType is set for removed fields and type changes, NewType for added
// fields and type changes.
type Change struct {
	Kind    ChangeKind     `json:"kind" yaml:"kind"`
	Path    string         `json:"path" yaml:"path"`
	OldType jsonvalue.Type `json:"old_type,omitempty" yaml:"old_type,omitempty"`
	NewType jsonvalue.Type `json:"new_type,omitempty" yaml:"new_type,omitempty"`
}

type Summary struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
	Risky   int `json:"risky" yaml:"risky"` // Count of type changes
}

type DiffReport struct {
	Changes    []Change `json:"changes" yaml:"changes"`
	Summary    Summary  `json:"summary" yaml:"summary"`
	HasChanges bool     `json:"has_changes" yaml:"has_changes"`
}
