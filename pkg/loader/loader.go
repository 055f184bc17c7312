package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
)

type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrTooLarge = errors.New("document exceeds size limit")
	ErrTooDeep  = jsonvalue.ErrTooDeep
)

// Options controls how documents are decoded. A zero MaxBytes disables
// the size guard; a zero MaxDepth falls back to jsonvalue.HardMaxDepth.
type Options struct {
	Format   Format
	Repair   bool
	MaxBytes int64
	MaxDepth int
}

// Document is a decoded input ready for comparison.
type Document struct {
	Name     string          `json:"name"`
	Format   Format          `json:"format"`
	Bytes    int             `json:"bytes"`
	Repaired bool            `json:"repaired"`
	Value    jsonvalue.Value `json:"-"`
}

// Stdin is read from when a path of "-" is given.
var Stdin io.Reader = os.Stdin

// LoadFile reads and decodes path. A path of "-" reads standard input.
func LoadFile(path string, opts Options) (*Document, error) {
	data, err := readInput(path, opts.MaxBytes)
	if err != nil {
		return nil, err
	}
	return Decode(path, data, opts)
}

// LoadPair loads the old and new documents concurrently.
func LoadPair(ctx context.Context, oldPath, newPath string, opts Options) (*Document, *Document, error) {
	if oldPath == "-" && newPath == "-" {
		return nil, nil, fmt.Errorf("only one of the documents can be read from stdin")
	}

	var oldDoc, newDoc *Document
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		doc, err := LoadFile(oldPath, opts)
		if err != nil {
			return fmt.Errorf("loading old document '%s': %w", oldPath, err)
		}
		oldDoc = doc
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		doc, err := LoadFile(newPath, opts)
		if err != nil {
			return fmt.Errorf("loading new document '%s': %w", newPath, err)
		}
		newDoc = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return oldDoc, newDoc, nil
}

// Decode turns raw bytes into a Document, applying the size and depth
// guards and, if enabled, lenient JSON repair.
func Decode(name string, data []byte, opts Options) (*Document, error) {
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, len(data), opts.MaxBytes)
	}

	doc := &Document{
		Name:   name,
		Format: detectFormat(name, opts.Format),
		Bytes:  len(data),
	}

	// nesting is enforced while decoding, before any deep recursion
	limits := jsonvalue.DecodeOptions{MaxDepth: opts.MaxDepth}

	var err error
	switch doc.Format {
	case FormatYAML:
		doc.Value, err = jsonvalue.DecodeYAML(data, limits)
	default:
		doc.Value, doc.Repaired, err = decodeJSON(name, data, opts.Repair, limits)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("document", name).
		Str("format", string(doc.Format)).
		Int("bytes", doc.Bytes).
		Str("root_type", string(jsonvalue.Classify(doc.Value))).
		Msg("Document loaded")

	return doc, nil
}

func decodeJSON(name string, data []byte, repair bool, limits jsonvalue.DecodeOptions) (jsonvalue.Value, bool, error) {
	value, err := jsonvalue.DecodeJSON(data, limits)
	if err == nil {
		return value, false, nil
	}
	if !repair || errors.Is(err, ErrTooDeep) {
		return jsonvalue.Value{}, false, err
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return jsonvalue.Value{}, false, fmt.Errorf("%w: repair failed: %v", err, repairErr)
	}

	value, err = jsonvalue.DecodeJSON([]byte(repaired), limits)
	if err != nil {
		if errors.Is(err, ErrTooDeep) {
			return jsonvalue.Value{}, false, err
		}
		return jsonvalue.Value{}, false, fmt.Errorf("%w: still invalid after repair", err)
	}

	log.Debug().
		Str("document", name).
		Int("original_bytes", len(data)).
		Int("repaired_bytes", len(repaired)).
		Msg("Repaired malformed JSON input")

	return value, true, nil
}

func detectFormat(name string, requested Format) Format {
	switch requested {
	case FormatJSON, FormatYAML:
		return requested
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func readInput(path string, maxBytes int64) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if maxBytes > 0 {
		// one extra byte so Decode can tell the limit was exceeded
		r = io.LimitReader(r, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported input format: %s (supported: auto, json, yaml)", s)
	}
}
