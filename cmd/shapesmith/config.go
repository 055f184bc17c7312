package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonderfulspam/shapesmith/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Shapesmith configuration",
	Long:  `Manage Shapesmith configuration files, including initialization and validation.`,
	// Only logging is set up here so a broken configuration can still be inspected
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd.ErrOrStderr(), logLevel)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Generate a default configuration file",
	Long: `Generate a default Shapesmith configuration file with the standard
severity weights, input limits and output settings. If no file is specified,
creates shapesmith.toml in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration file",
	Long:  `Validate a Shapesmith configuration file for correctness.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and SHAPESMITH_* environment overrides are applied.
With --defaults, print the built-in configuration only.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var showDefaults bool

func init() {
	configShowCmd.Flags().BoolVar(&showDefaults, "defaults", false, "Print the built-in defaults, ignoring config files and the environment")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	outputFile := "shapesmith.toml"
	if len(args) > 0 {
		outputFile = args[0]
	}

	if err := config.InitConfig(outputFile); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration file created: %s\n", outputFile)
	fmt.Fprintf(cmd.OutOrStdout(), "\nYou can now:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "1. Edit the file to adjust weights and limits\n")
	fmt.Fprintf(cmd.OutOrStdout(), "2. Use it with: shapesmith compare --config=%s --old <old.json> --new <new.json>\n", outputFile)
	fmt.Fprintf(cmd.OutOrStdout(), "3. Validate it with: shapesmith config validate %s\n", outputFile)

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	w := cfg.Scoring
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration is valid!\n\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Summary:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Weights: removed=%d structural=%d incompatible=%d compatible=%d added=%d\n",
		w.Removed, w.Structural, w.Incompatible, w.Compatible, w.Added)
	fmt.Fprintf(cmd.OutOrStdout(), "  Decay: %g\n", w.Decay)
	fmt.Fprintf(cmd.OutOrStdout(), "  Limits: max_bytes=%d max_depth=%d\n", cfg.Limits.MaxBytes, cfg.Limits.MaxDepth)
	fmt.Fprintf(cmd.OutOrStdout(), "  Output: format=%s color=%s\n", cfg.Output.Format, cfg.Output.Color)
	if cfg.Output.FailAbove >= 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Fail above: %d\n", cfg.Output.FailAbove)
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	load := func() (*config.Config, error) { return config.Load(configPath) }
	if showDefaults {
		load = config.Default
	}

	cfg, err := load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
