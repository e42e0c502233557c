package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"switchback/adapters/api"
	"switchback/adapters/excel"
	"switchback/adapters/report"
	"switchback/app"
	"switchback/domain/core"
	"switchback/internal"
	"switchback/internal/config"
	"switchback/internal/testkit"
	"switchback/ports"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// runFlags override the environment configuration
type runFlags struct {
	dataFile    string
	outputDir   string
	poolFare    float64
	expressFare float64
	noCharts    bool
	quiet       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "switchback",
		Short: "Cohort comparison for ridesharing switchback experiments",
		Long: `Analyse a switchback export of 2-minute vs 5-minute wait-time windows.

Without a subcommand every analysis runs: commuting vs non-commuting hours in the
control group, then the wait-time policy comparison for both hour types.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyses(cmd.Context(), flags, app.AllAnalyses)
		},
	}
	addRunFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newAnalysisCmd("run", "Run every analysis", app.AllAnalyses),
		newAnalysisCmd("commute", "Compare commuting and non-commuting hours (control group)", []core.AnalysisKey{app.AnalysisCommute}),
		newAnalysisCmd("wait-time", "Compare 5-minute and 2-minute wait times", app.WaitTimeAnalyses),
		newGenerateCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVar(&flags.dataFile, "data", "", "Switchback export (.csv or .xlsx); overrides SWITCHBACK_DATA_FILE")
	cmd.Flags().StringVar(&flags.outputDir, "out", "", "Output directory; overrides SWITCHBACK_OUTPUT_DIR")
	cmd.Flags().Float64Var(&flags.poolFare, "pool-fare", 0, "Average POOL fare in dollars; overrides POOL_FARE")
	cmd.Flags().Float64Var(&flags.expressFare, "express-fare", 0, "Average Express fare in dollars; overrides EXPRESS_FARE")
	cmd.Flags().BoolVar(&flags.noCharts, "no-charts", false, "Skip PNG and HTML charts")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Do not print the console report")
}

func newAnalysisCmd(use, short string, analyses []core.AnalysisKey) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyses(cmd.Context(), flags, analyses)
		},
	}
	addRunFlags(cmd, flags)
	return cmd
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(flags *runFlags) (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flags.dataFile != "" {
		cfg.Data.File = flags.dataFile
	}
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.poolFare != 0 {
		cfg.Fares.Pool = flags.poolFare
	}
	if flags.expressFare != 0 {
		cfg.Fares.Express = flags.expressFare
	}
	if flags.noCharts {
		cfg.Output.ChartsEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := internal.DefaultLogger
	logger.SetLevel(internal.ParseLogLevel(cfg.Log.Level))
	return cfg, logger, nil
}

func newService(cfg *config.Config, logger *internal.Logger, console bool) *app.AnalysisService {
	dir := cfg.Output.Dir
	var renderers []ports.ReportRenderer
	if console {
		renderers = append(renderers, report.NewConsoleRenderer(os.Stdout, !color.NoColor))
	}
	renderers = append(renderers,
		report.NewSummaryCSVRenderer(dir),
		excel.NewWorkbookRenderer(dir),
		report.NewMarkdownRenderer(dir),
	)
	if cfg.Output.ChartsEnabled {
		renderers = append(renderers, report.NewPNGRenderer(dir), report.NewChartsRenderer(dir))
	}

	loader := excel.NewDataReader(excel.DefaultReaderConfig()).WithLogger(logger)
	return app.NewAnalysisService(loader, renderers, logger)
}

func runAnalyses(ctx context.Context, flags *runFlags, analyses []core.AnalysisKey) error {
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	result, err := newService(cfg, logger, !flags.quiet).Run(ctx, app.RunRequest{
		DataFile:  cfg.Data.File,
		OutputDir: cfg.Output.Dir,
		Fares:     cfg.Fares,
		Analyses:  analyses,
	})
	if err != nil {
		return err
	}

	for _, a := range result.Manifest.Artifacts {
		logger.Info("wrote %s %s", a.Kind, a.Path)
	}
	return nil
}

func newGenerateCmd() *cobra.Command {
	var seed int64
	var days int
	var city string

	cmd := &cobra.Command{
		Use:   "generate [output.csv]",
		Short: "Write a synthetic switchback export",
		Long: `Write a seeded, semicolon-delimited switchback export with the same columns as
the real one. Useful for trying the analyses without the original dataset.

Example: switchback generate data/switchbacks.csv --seed 7 --days 28`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "data/switchbacks.csv"
			if len(args) == 1 {
				path = args[0]
			}

			cfg := testkit.DefaultSwitchbackConfig()
			cfg.Seed = seed
			cfg.Days = days
			if city != "" {
				cfg.City = city
			}
			return generate(path, cfg)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	cmd.Flags().IntVar(&days, "days", 14, "Number of days to simulate")
	cmd.Flags().StringVar(&city, "city", "", "City id written to every row")
	return cmd
}

func generate(path string, cfg testkit.SwitchbackGeneratorConfig) error {
	if cfg.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", cfg.Days)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	windows := testkit.NewSwitchbackGenerator(cfg).Generate()
	if err := testkit.WriteCSV(f, windows); err != nil {
		return err
	}
	fmt.Printf("Wrote %d switchback windows to %s\n", len(windows), path)
	return f.Close()
}

func newServeCmd() *cobra.Command {
	flags := &runFlags{}
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run every analysis and serve the reports as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.quiet = true
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			result, err := newService(cfg, logger, false).Run(cmd.Context(), app.RunRequest{
				DataFile:  cfg.Data.File,
				OutputDir: cfg.Output.Dir,
				Fares:     cfg.Fares,
			})
			if err != nil {
				return err
			}

			store := app.NewReportStore()
			store.Publish(result)

			server := api.NewServer(store, cfg.Server.GinMode, logger)
			return server.Run(cmd.Context(), ":"+cfg.Server.Port)
		},
	}

	addRunFlags(cmd, flags)
	cmd.Flags().StringVar(&port, "port", "", "Listen port; overrides PORT")
	return cmd
}
