// Package main is the entry point for the screenplay CLI.
//
// Usage:
//
//	screenplay run -s login.yaml               # Run a scenario in a browser
//	screenplay run -s login.yaml -c sp.yaml    # Run with a config file
//	screenplay validate -s login.yaml          # Validate a scenario
//	screenplay version                         # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/screenplay/pkg/config"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd only displays help; the work happens in subcommands.
var rootCmd = &cobra.Command{
	Use:   "screenplay",
	Short: "Run browser scenarios with actors, tasks and polled checks",
	Long: `screenplay runs browser scenarios described in YAML.

Each scenario is performed by an actor who can browse the web. Steps run
in order; checks are polled until they hold or the polling options give up.

Quick start:
  1. Write a scenario (login.yaml)
  2. Run: screenplay validate -s login.yaml
  3. Run: screenplay run -s login.yaml

Example scenario:
  name: login
  steps:
    - visit: https://example.com/login
    - fill: {selector: '#user', value: alice}
    - click: '#submit'
  checks:
    - url_matches: "**/home"`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "screenplay %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// addScenarioFlags registers the flags run and validate share.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("scenario", "s", "", "path to scenario file (required)")
	cmd.Flags().StringP("config", "c", "", "path to config file")
	_ = cmd.MarkFlagRequired("scenario")
}

// loadConfig reads the --config file, or returns the defaults when unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
