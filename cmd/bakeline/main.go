// Command bakeline is the headless CLI runner for the production core
// (spec §6 headless.run), built with cobra: a root command with
// flag-bound subcommands, the way the HelixML CLI pack wires its
// resource commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bakeline/production-core/pkg/application/services/simulation"
	"github.com/bakeline/production-core/pkg/domain/entities"
	cclock "github.com/bakeline/production-core/pkg/infrastructure/clock"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
	"github.com/bakeline/production-core/pkg/infrastructure/log"
	csvloader "github.com/bakeline/production-core/pkg/infrastructure/repositories/csv"
	"github.com/bakeline/production-core/pkg/infrastructure/repositories/memory"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
	"github.com/bakeline/production-core/pkg/interfaces/commands"
)

func main() {
	var (
		scenarioDir     string
		configPath      string
		date            string
		mode            string
		algorithm       string
		intervalMinutes int
		autoAdd         bool
		maxPerInterval  int
		minConfidence   int
		full            bool
		verbose         bool
	)

	root := &cobra.Command{
		Use:   "bakeline",
		Short: "Production core headless runner",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless simulation for one day and report suggested batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer logger.Sync()

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = loaded
			}

			simMode, err := parseSimMode(mode)
			if err != nil {
				return err
			}

			specStore, forecastSvc, err := loadScenario(scenarioDir)
			if err != nil {
				return fmt.Errorf("loading scenario: %w", err)
			}

			scheduleStore := memory.NewScheduleRepository()
			orderStore := memory.NewOrderRepository()
			eventStore := events.NewStore()
			tp := transport.NewChannelTransport()
			clk := cclock.New()

			engine := simulation.NewEngine(cfg, specStore, scheduleStore, orderStore, eventStore, tp, clk, logger)
			engine.Start(cmd.Context())
			defer engine.Stop()

			cmds := commands.New(cfg, engine, specStore, forecastSvc, scheduleStore)

			if _, err := cmds.GenerateSchedule(cmd.Context(), date); err != nil {
				return fmt.Errorf("generating schedule for %s: %w", date, err)
			}

			report, cmdErr := cmds.RunHeadless(
				cmd.Context(),
				date,
				simMode,
				algorithm,
				entities.Minutes(intervalMinutes),
				autoAdd,
				maxPerInterval,
				minConfidence,
				full,
			)
			if cmdErr != nil {
				return fmt.Errorf("headless run: %w", cmdErr)
			}

			printReport(report)
			return nil
		},
	}

	runCmd.Flags().StringVar(&scenarioDir, "scenario", "", "directory containing bake_specs.csv, daily_forecast.csv, intraday_forecast.csv")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config override (optional)")
	runCmd.Flags().StringVar(&date, "date", "", "date to run, e.g. 2026-07-30")
	runCmd.Flags().StringVar(&mode, "mode", "manual", "simulation mode: manual or preset")
	runCmd.Flags().StringVar(&algorithm, "algorithm", "predictive", "suggestion algorithm: predictive or reactive")
	runCmd.Flags().IntVar(&intervalMinutes, "interval", 20, "walk interval in minutes")
	runCmd.Flags().BoolVar(&autoAdd, "auto-add", false, "automatically add accepted suggestions as batches")
	runCmd.Flags().IntVar(&maxPerInterval, "max-per-interval", 0, "cap on batches added per interval (0 = unbounded)")
	runCmd.Flags().IntVar(&minConfidence, "min-confidence", 0, "minimum confidence percent to accept a suggestion")
	runCmd.Flags().BoolVar(&full, "full", false, "emit a full per-interval report instead of a condensed summary")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	_ = runCmd.MarkFlagRequired("scenario")
	_ = runCmd.MarkFlagRequired("date")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return log.Noop(), nil
}

func parseSimMode(mode string) (entities.SimMode, error) {
	switch mode {
	case "manual":
		return entities.ModeManual, nil
	case "preset":
		return entities.ModePreset, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (expected manual or preset)", mode)
	}
}

func loadScenario(dir string) (*memory.SpecRepository, *memory.ForecastService, error) {
	loader := csvloader.NewLoader()

	specs, err := loader.LoadBakeSpecs(filepath.Join(dir, "bake_specs.csv"))
	if err != nil {
		return nil, nil, err
	}
	specStore := memory.NewSpecRepository()
	for _, spec := range specs {
		specStore.AddSpec(spec)
	}

	daily, err := loader.LoadDailyForecast(filepath.Join(dir, "daily_forecast.csv"))
	if err != nil {
		return nil, nil, err
	}
	intraday, err := loader.LoadIntradayForecast(filepath.Join(dir, "intraday_forecast.csv"))
	if err != nil {
		return nil, nil, err
	}

	return specStore, memory.NewForecastService(daily, intraday), nil
}

func printReport(report *commands.HeadlessReport) {
	fmt.Printf("simulation %s\n", report.SimulationID)
	fmt.Printf("proposals accepted: %d\n", report.Condensed.TotalProposals)
	fmt.Printf("batches added:      %d\n", report.Condensed.TotalAdded)
	for _, interval := range report.Intervals {
		fmt.Printf("  t=%d proposals=%d added=%d\n", interval.Time, len(interval.Proposals), len(interval.Added))
	}
	fmt.Printf("final status: %s\n", report.Final.Status)
}
