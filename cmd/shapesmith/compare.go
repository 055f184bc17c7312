package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wonderfulspam/shapesmith/pkg/differ"
	"github.com/wonderfulspam/shapesmith/pkg/loader"
	"github.com/wonderfulspam/shapesmith/pkg/renderer"
	"github.com/wonderfulspam/shapesmith/pkg/scorer"
)

var compareCmd = &cobra.Command{
	Use:   "compare --old <old-file> --new <new-file>",
	Short: "Compare the shapes of two JSON documents and score the risk",
	Long: `Walks the old and new documents side by side and reports every removed
field, added field and type change by path, followed by a 0-100 risk score.
Array elements are compared by position. Use "-" to read one side from stdin.`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

var (
	oldFile     string
	newFile     string
	outputFile  string
	format      string
	inputFormat string
	colorMode   string
	repairInput bool
	verbose     bool
	failAbove   int
)

func init() {
	compareCmd.Flags().StringVar(&oldFile, "old", "", "Path to the old JSON document")
	compareCmd.Flags().StringVar(&newFile, "new", "", "Path to the new JSON document")
	compareCmd.Flags().StringVar(&outputFile, "output", "", "Output file for results (default: stdout)")
	compareCmd.Flags().StringVar(&format, "format", "", "Output format (table, json, yaml, msgpack); defaults to the configured format")
	compareCmd.Flags().StringVar(&inputFormat, "input-format", "auto", "Input format (auto, json, yaml)")
	compareCmd.Flags().StringVar(&colorMode, "color", "", "Colour mode for table output (auto, always, never)")
	compareCmd.Flags().BoolVar(&repairInput, "repair", false, "Attempt to repair malformed JSON input before comparing")
	compareCmd.Flags().BoolVar(&verbose, "verbose", false, "Show the points each change contributes")
	compareCmd.Flags().IntVar(&failAbove, "fail-above", -1, "Exit with an error when the risk score is above this value (-1 disables)")

	compareCmd.MarkFlagRequired("old")
	compareCmd.MarkFlagRequired("new")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	opts := cfg.LoaderOptions()
	opts.Repair = repairInput
	inFormat, err := loader.ParseFormat(inputFormat)
	if err != nil {
		return err
	}
	opts.Format = inFormat

	oldDoc, newDoc, err := loader.LoadPair(cmd.Context(), oldFile, newFile, opts)
	if err != nil {
		return err
	}
	for _, doc := range []*loader.Document{oldDoc, newDoc} {
		if doc.Repaired {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠  %s was not valid JSON and has been repaired\n", doc.Name)
		}
	}

	// Perform comparison
	report := differ.Compare(oldDoc.Value, newDoc.Value)
	result := renderer.NewResult(renderer.FileInfo{Old: oldFile, New: newFile}, report, scorer.New(cfg.Scoring))

	log.Debug().
		Int("changes", len(report.Changes)).
		Int("points", result.TotalPoints).
		Int("score", result.Score).
		Msg("Comparison complete")

	outFormat := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		outFormat = format
	}
	mode := cfg.Output.Color
	if cmd.Flags().Changed("color") {
		mode = colorMode
	}
	if outputFile != "" && mode == "auto" {
		mode = "never"
	}

	r, err := newRenderer(mode, verbose)
	if err != nil {
		return err
	}
	output, err := r.Format(result, outFormat)
	if err != nil {
		return err
	}

	// Write output
	if outputFile != "" {
		if err := os.WriteFile(outputFile, output, 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Results written to %s\n", outputFile)
	} else {
		cmd.OutOrStdout().Write(output)
		if outFormat != "msgpack" && len(output) > 0 && output[len(output)-1] != '\n' {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	// Print summary to stderr for visibility
	if report.HasChanges {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n✓ Comparison complete: %s, risk %d/100 (%s)\n", report.Text(), result.Score, result.Level)
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "\n✓ No shape differences found")
	}

	threshold := cfg.Output.FailAbove
	if cmd.Flags().Changed("fail-above") {
		threshold = failAbove
	}
	if threshold >= 0 && result.Score > threshold {
		return fmt.Errorf("risk score %d exceeds threshold %d", result.Score, threshold)
	}

	return nil
}

func newRenderer(mode string, verbose bool) (*renderer.Renderer, error) {
	switch mode {
	case "", "auto":
		return renderer.New(&renderer.Options{Verbose: verbose}), nil
	case "never":
		return renderer.New(&renderer.Options{NoColor: true, Verbose: verbose}), nil
	case "always":
		r := renderer.New(&renderer.Options{Verbose: verbose})
		r.ForceColor()
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported color mode: %s (supported: auto, always, never)", mode)
	}
}
