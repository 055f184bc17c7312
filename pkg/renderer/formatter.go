package renderer

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"

	"github.com/wonderfulspam/shapesmith/pkg/differ"
)

// formatTable formats a result as a human readable table
func (r *Renderer) formatTable(result *Result) string {
	var buf bytes.Buffer

	buf.WriteString(r.heading.Sprint("JSON Shape Comparison") + "\n")
	buf.WriteString("=====================\n\n")

	if result.Files.Old != "" || result.Files.New != "" {
		buf.WriteString("Files:\n")
		buf.WriteString(fmt.Sprintf("  Old: %s\n", result.Files.Old))
		buf.WriteString(fmt.Sprintf("  New: %s\n\n", result.Files.New))
	}

	report := result.Report
	if report == nil || !report.HasChanges {
		buf.WriteString("No shape differences found.\n\n")
	} else {
		buf.WriteString(fmt.Sprintf("Summary: %s\n\n", report.Text()))

		buf.WriteString("Changes:\n")
		buf.WriteString("--------\n")
		for i, change := range report.Changes {
			line := fmt.Sprintf("  [%s] %s", r.changeSymbol(change.Kind), change.Description())
			if r.opts.Verbose && i < len(result.Points) {
				line += fmt.Sprintf(" (+%d)", result.Points[i].Points)
			}
			buf.WriteString(r.changeColor(change.Kind).Sprint(line) + "\n")
		}
		buf.WriteString("\n")
	}

	level := string(result.Level)
	if level == "" {
		level = "none"
	}
	levelColor, ok := r.levelColor[level]
	if !ok {
		levelColor = r.heading
	}

	buf.WriteString("Risk:\n")
	buf.WriteString("-----\n")
	buf.WriteString(fmt.Sprintf("  Score: %s\n", levelColor.Sprintf("%d/100 (%s)", result.Score, level)))
	buf.WriteString(fmt.Sprintf("  Raw points: %d\n", result.TotalPoints))

	return buf.String()
}

func (r *Renderer) changeSymbol(kind differ.ChangeKind) string {
	switch kind {
	case differ.ChangeRemovedField:
		return "-"
	case differ.ChangeAddedField:
		return "+"
	case differ.ChangeTypeChanged:
		return "~"
	default:
		return "?"
	}
}

func (r *Renderer) changeColor(kind differ.ChangeKind) *color.Color {
	switch kind {
	case differ.ChangeRemovedField:
		return r.removed
	case differ.ChangeAddedField:
		return r.added
	case differ.ChangeTypeChanged:
		return r.changed
	default:
		return r.heading
	}
}
