package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/entrhq/screenplay/pkg/browser"
	"github.com/entrhq/screenplay/pkg/logging"
	"github.com/entrhq/screenplay/pkg/polling"
	"github.com/entrhq/screenplay/pkg/queue"
	"github.com/entrhq/screenplay/pkg/scenario"
	"github.com/entrhq/screenplay/pkg/screenplay"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario in a browser",
	Long: `Run a scenario in a browser.

The scenario's steps are performed in order by a single actor. Checks are
then polled with the scenario's polling options. A report is printed and
the command exits non-zero when any step or check fails.

Logs are written as JSON lines to <logging.dir>/<run-id>-screenplay.log.

Example:
  screenplay run -s login.yaml
  screenplay run -s login.yaml -c screenplay.yaml --headed`,
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addScenarioFlags(runCmd)
	runCmd.Flags().Bool("headed", false, "show the browser window")
	runCmd.Flags().String("actor", "tester", "name of the actor performing the scenario")
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("scenario")
	sc, err := scenario.Load(path, cfg)
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if headed, _ := cmd.Flags().GetBool("headed"); headed {
		sc.Session.Headless = false
	}

	logger, err := logging.New("cli", logging.Options{
		Dir:   cfg.Logging.Dir,
		Level: cfg.Logging.Level,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: file logging disabled: %v\n", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q := queue.New(logger.Logger)
	defer q.Close()

	manager := browser.NewSessionManager(logger.Logger)
	manager.SetMaxSessions(sc.Session.MaxSessions)
	manager.SetIdleTimeout(sc.Session.IdleTimeout.Duration())
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logger.Warn("browser shutdown failed", zap.Error(err))
		}
	}()

	session, err := manager.StartSession(sc.Name, sc.Session.SessionOptions())
	if err != nil {
		return err
	}

	actorName, _ := cmd.Flags().GetString("actor")
	actor := screenplay.New(screenplay.Config{
		Name:   actorName,
		Logger: logger.Logger,
		Queue:  q,
	}, browser.BrowseTheWeb(session))

	runner := scenario.NewRunner(scenario.RunnerConfig{
		Logger: logger.Logger,
		Poller: polling.NewPoller(polling.Config{
			Logger:    polling.ZapLogger(logger.With(zap.String("component", "polling"))),
			Scheduler: q,
			Queue:     q,
		}),
	})

	report, runErr := runner.Run(ctx, sc, actor)
	if report != nil {
		printReport(cmd.OutOrStdout(), report, logger.LogPath())
	}
	if runErr != nil && ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return runErr
}

// printReport writes a human-readable summary of a run.
func printReport(w io.Writer, report *scenario.Report, logPath string) {
	status := "PASSED"
	if !report.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Scenario %s %s in %s\n", report.Scenario, status, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Run:   %s\n", report.RunID)
	if report.StepErr != nil {
		fmt.Fprintf(w, "  Steps: %v\n", report.StepErr)
	}
	for _, c := range report.Checks {
		if c.Passed {
			fmt.Fprintf(w, "  ok    %s\n", c.Name)
			continue
		}
		fmt.Fprintf(w, "  FAIL  %s: %s\n", c.Name, c.Message)
	}
	if logPath != "" {
		fmt.Fprintf(w, "  Logs:  %s\n", logPath)
	}
}
