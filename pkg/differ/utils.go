package differ

import (
	"fmt"
	"strings"
)

// Summarize counts the changes by kind. Type changes count as risky.
func Summarize(changes []Change) Summary {
	var summary Summary
	for _, change := range changes {
		switch change.Kind {
		case ChangeAddedField:
			summary.Added++
		case ChangeRemovedField:
			summary.Removed++
		case ChangeTypeChanged:
			summary.Risky++
		}
	}
	return summary
}

// Verify recomputes the summary from the change list and reports any
// mismatch or malformed entry.
func (r *DiffReport) Verify() error {
	if r == nil {
		return fmt.Errorf("nil report")
	}

	for i, change := range r.Changes {
		switch change.Kind {
		case ChangeRemovedField:
			if change.OldType == "" || change.NewType != "" {
				return fmt.Errorf("change %d at %q: removed field must carry only old_type", i, change.Path)
			}
		case ChangeAddedField:
			if change.NewType == "" || change.OldType != "" {
				return fmt.Errorf("change %d at %q: added field must carry only new_type", i, change.Path)
			}
		case ChangeTypeChanged:
			if change.OldType == "" || change.NewType == "" || change.OldType == change.NewType {
				return fmt.Errorf("change %d at %q: type change needs two different types", i, change.Path)
			}
		default:
			return fmt.Errorf("change %d at %q: unknown kind %q", i, change.Path, change.Kind)
		}
	}

	if got := Summarize(r.Changes); got != r.Summary {
		return fmt.Errorf("summary mismatch: report says %+v, changes give %+v", r.Summary, got)
	}
	if r.HasChanges != (len(r.Changes) > 0) {
		return fmt.Errorf("has_changes is %t with %d changes", r.HasChanges, len(r.Changes))
	}
	return nil
}

// Text renders a one-line summary of the report.
func (r *DiffReport) Text() string {
	if r == nil || !r.HasChanges {
		return "No shape differences found"
	}

	parts := []string{
		fmt.Sprintf("%d removed", r.Summary.Removed),
		fmt.Sprintf("%d added", r.Summary.Added),
		fmt.Sprintf("%d risky", r.Summary.Risky),
	}

	return fmt.Sprintf("%s (%d total changes)", strings.Join(parts, ", "), len(r.Changes))
}

// Description returns a human readable sentence for the change.
func (c Change) Description() string {
	target := c.Path
	if target == "" {
		target = "(root)"
	}

	switch c.Kind {
	case ChangeRemovedField:
		return fmt.Sprintf("Field removed: %s (was %s)", target, c.OldType)
	case ChangeAddedField:
		return fmt.Sprintf("Field added: %s (%s)", target, c.NewType)
	case ChangeTypeChanged:
		return fmt.Sprintf("Type changed at %s: %s -> %s", target, c.OldType, c.NewType)
	default:
		return fmt.Sprintf("Unknown change at %s", target)
	}
}
