package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"swinglab/internal/config"
	"swinglab/internal/logging"
	"swinglab/internal/metrics"
	"swinglab/internal/provider"
	"swinglab/internal/report"
	"swinglab/internal/scanner"
	"swinglab/internal/store"
	"swinglab/internal/strategy"
	"swinglab/internal/tier"
	"swinglab/pkg/model"
)

type scanFlags struct {
	data         string
	minVolume    int64
	view         string
	format       string
	since        string
	latest       bool
	strictWeekly bool
	storePath    string
	eliteToken   string
	workers      int
	metricsAddr  string
}

func newScanCmd() *cobra.Command {
	f := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Evaluate the bar table and print detected signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.data, "data", "", "bar table CSV (default from config)")
	cmd.Flags().Int64Var(&f.minVolume, "min-volume", 500000, "show only signals with volume above this")
	cmd.Flags().StringVar(&f.view, "view", "all", "view: all, bullish, bearish, elite")
	cmd.Flags().StringVar(&f.format, "format", "table", "output format: table, json")
	cmd.Flags().StringVar(&f.since, "since", "", "drop signals dated before YYYY-MM-DD")
	cmd.Flags().BoolVar(&f.latest, "latest", false, "show only the most recent session's signals")
	cmd.Flags().BoolVar(&f.strictWeekly, "strict-weekly", false, "require downtrend confirmation for weekly rules")
	cmd.Flags().StringVar(&f.storePath, "store", "", "SQLite file to record the run in")
	cmd.Flags().StringVar(&f.eliteToken, "elite-token", os.Getenv("SWINGLAB_ELITE_TOKEN"), "elite tier token")
	cmd.Flags().IntVar(&f.workers, "workers", 10, "number of parallel workers")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.MarkFlagsMutuallyExclusive("since", "latest")

	return cmd
}

// applyScanFlags overrides config values with flags the user set explicitly
func applyScanFlags(cmd *cobra.Command, cfg *config.Config, f *scanFlags) {
	changed := cmd.Flags().Changed
	if changed("data") {
		cfg.Data.Path = f.data
	}
	if changed("min-volume") {
		cfg.Output.MinVolume = f.minVolume
	}
	if changed("view") {
		cfg.Output.View = f.view
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("strict-weekly") {
		cfg.Rules.StrictWeekly = f.strictWeekly
	}
	if changed("store") {
		cfg.Store.Path = f.storePath
	}
	if changed("workers") {
		cfg.Scanner.Workers = f.workers
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func runScan(cmd *cobra.Command, f *scanFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	view, err := report.ParseView(cfg.Output.View)
	if err != nil {
		return err
	}

	var since time.Time
	if f.since != "" {
		if since, err = time.Parse("2006-01-02", f.since); err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}
	}

	logger := logging.Console(cfg.Log.Level)

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		defer srv.Close()
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics listening")
	}

	ctx, cancel := signalContext()
	defer cancel()

	raw, err := provider.ReadFile(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("loading bar table: %w", err)
	}

	opts := strategy.Options{
		StrictWeekly:       cfg.Rules.StrictWeekly,
		WeeklyPriceCeiling: cfg.Rules.WeeklyPriceCeiling,
	}
	s := scanner.NewScanner(opts, cfg.Scanner.Workers, cfg.Scanner.Timeout, logger)
	s.SetSince(since)

	result, err := s.ScanTable(ctx, raw)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	if cfg.Store.Path != "" {
		if err := saveRun(ctx, cfg.Store.Path, result.RunID, result.AsOf, result.Signals); err != nil {
			return err
		}
		logger.Info().Str("run_id", result.RunID).Str("store", cfg.Store.Path).Msg("run recorded")
	}

	signals := result.Signals
	if f.latest {
		signals = report.Latest(signals, result.AsOf)
	}
	signals = report.MinVolume(signals, cfg.Output.MinVolume)

	elite := tier.IsElite(cfg.Tier.Secret, f.eliteToken)
	if f.eliteToken != "" && !elite {
		logger.Warn().Msg("elite token rejected")
	}
	summary := report.Summarize(result.TotalScanned, signals, elite)

	selected, err := report.Select(signals, view, elite)
	if errors.Is(err, report.ErrLocked) {
		// Other views stay usable; the locked view prints a notice only
		report.WriteSummary(os.Stdout, summary)
		fmt.Println("Upgrade to ELITE to view weekly reversal setups (Weekly Reversal + 3-Week Reversal).")
		return nil
	}
	if err != nil {
		return err
	}

	if cfg.Output.Format == "json" {
		return report.WriteJSON(os.Stdout, result.RunID, result.AsOf, view, summary, selected)
	}

	report.WriteSummary(os.Stdout, summary)
	for _, note := range report.SessionNotes(time.Now()) {
		fmt.Println(note)
	}
	fmt.Println()
	if err := report.WriteTable(os.Stdout, view, selected); err != nil {
		return err
	}
	fmt.Printf("\nAs of %s | scanned %d stocks in %s\n",
		result.AsOf.Format("2006-01-02"), result.TotalScanned, result.ScanTime.Round(time.Millisecond))
	return nil
}

func saveRun(ctx context.Context, path, runID string, asOf time.Time, signals []model.Signal) error {
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.Save(ctx, runID, asOf, signals)
}
