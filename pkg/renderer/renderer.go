package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
)

// SupportedFormats lists the accepted output formats.
var SupportedFormats = []string{"table", "json", "yaml", "msgpack"}

// Renderer projects comparison results into output formats
type Renderer struct {
	opts Options

	removed    *color.Color
	added      *color.Color
	changed    *color.Color
	heading    *color.Color
	levelColor map[string]*color.Color
}

// New creates a new Renderer instance. A nil opts uses the defaults.
func New(opts *Options) *Renderer {
	r := &Renderer{
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
		changed: color.New(color.FgYellow),
		heading: color.New(color.Bold),
		levelColor: map[string]*color.Color{
			"none":     color.New(color.FgGreen, color.Bold),
			"low":      color.New(color.FgGreen, color.Bold),
			"medium":   color.New(color.FgYellow, color.Bold),
			"high":     color.New(color.FgRed, color.Bold),
			"critical": color.New(color.FgHiRed, color.Bold),
		},
	}
	if opts != nil {
		r.opts = *opts
	}

	if r.opts.NoColor {
		for _, c := range r.colors() {
			c.DisableColor()
		}
	}

	return r
}

// ForceColor enables colour output even when stdout is not a terminal.
func (r *Renderer) ForceColor() {
	r.opts.NoColor = false
	for _, c := range r.colors() {
		c.EnableColor()
	}
}

func (r *Renderer) colors() []*color.Color {
	all := []*color.Color{r.removed, r.added, r.changed, r.heading}
	for _, c := range r.levelColor {
		all = append(all, c)
	}
	return all
}

// Format renders result in the given format
func (r *Renderer) Format(result *Result, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling result to JSON: %w", err)
		}
		return data, nil

	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshaling result to YAML: %w", err)
		}
		return data, nil

	case "msgpack":
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(result); err != nil {
			return nil, fmt.Errorf("marshaling result to msgpack: %w", err)
		}
		return buf.Bytes(), nil

	case "table", "":
		return []byte(r.formatTable(result)), nil

	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: table, json, yaml, msgpack)", format)
	}
}

// FormatOutline lists every path in v with its type, in pre-order.
func (r *Renderer) FormatOutline(v jsonvalue.Value) string {
	var buf bytes.Buffer

	width := 0
	jsonvalue.Walk(v, func(path string, _ jsonvalue.Value) bool {
		if n := len(displayPath(path)); n > width {
			width = n
		}
		return true
	})

	jsonvalue.Walk(v, func(path string, node jsonvalue.Value) bool {
		t := jsonvalue.Classify(node)
		line := fmt.Sprintf("%-*s  %s", width, displayPath(path), t)
		if t == jsonvalue.TypeArray || t == jsonvalue.TypeObject {
			line += fmt.Sprintf(" (%d)", node.Len())
		}
		buf.WriteString(line + "\n")
		return true
	})

	return buf.String()
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
