package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
	"github.com/wonderfulspam/shapesmith/pkg/loader"
	"github.com/wonderfulspam/shapesmith/pkg/renderer"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Show the type of every path in a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := appConfig.LoaderOptions()
		opts.Repair = classifyRepair
		inFormat, err := loader.ParseFormat(classifyInputFormat)
		if err != nil {
			return err
		}
		opts.Format = inFormat

		doc, err := loader.LoadFile(args[0], opts)
		if err != nil {
			return fmt.Errorf("loading document '%s': %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Root type: %s\n", jsonvalue.Classify(doc.Value))
		fmt.Fprintf(out, "Nodes: %d, depth: %d\n\n", jsonvalue.Count(doc.Value), jsonvalue.Depth(doc.Value))
		fmt.Fprint(out, renderer.New(&renderer.Options{NoColor: true}).FormatOutline(doc.Value))
		return nil
	},
}

var (
	classifyInputFormat string
	classifyRepair      bool
)

func init() {
	classifyCmd.Flags().StringVar(&classifyInputFormat, "input-format", "auto", "Input format (auto, json, yaml)")
	classifyCmd.Flags().BoolVar(&classifyRepair, "repair", false, "Attempt to repair malformed JSON input")

	rootCmd.AddCommand(classifyCmd)
}
