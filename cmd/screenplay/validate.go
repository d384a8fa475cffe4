package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/entrhq/screenplay/pkg/polling"
	"github.com/entrhq/screenplay/pkg/scenario"
)

// validateCmd validates a scenario without starting a browser.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file",
	Long: `Validate a scenario without starting a browser.

This command parses the YAML, expands environment variables, and validates
every step and check. It's useful for CI pipelines before a real run.

Exit codes:
  0 - Scenario is valid
  1 - Scenario is invalid (error details printed to stderr)

Example:
  screenplay validate -s login.yaml
  screenplay validate -s login.yaml -c screenplay.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addScenarioFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("scenario")
	sc, err := scenario.Load(path, cfg)
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	opts := sc.Polling.Options()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scenario is valid!\n")
	fmt.Fprintf(out, "  Name:     %s\n", sc.Name)
	fmt.Fprintf(out, "  Steps:    %d\n", len(sc.Steps))
	fmt.Fprintf(out, "  Checks:   %d\n", len(sc.Checks))
	fmt.Fprintf(out, "  Polling:  %s mode, interval %s, %s\n", opts.Mode, opts.Interval, describeBudget(opts))
	return nil
}

func describeBudget(opts polling.Options) string {
	budget := polling.AttemptBudget(opts)
	if budget == math.MaxInt {
		return "unbounded re-attempts"
	}
	return fmt.Sprintf("%d re-attempts", budget)
}
