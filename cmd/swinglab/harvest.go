package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"swinglab/internal/logging"
	"swinglab/internal/provider"
	"swinglab/internal/symbols"
)

func newHarvestCmd() *cobra.Command {
	var (
		symbolList  string
		symbolsFile string
		universe    string
		days        int
		out         string
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Download daily history and write the bar table CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("universe") {
				cfg.Harvest.Universe = universe
			}
			if cmd.Flags().Changed("days") {
				cfg.Harvest.Days = days
			}
			if cmd.Flags().Changed("out") {
				cfg.Data.Path = out
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger := logging.Console(cfg.Log.Level)
			loader := symbols.NewLoader(cfg.Harvest.Suffix)

			explicit := cfg.Harvest.Symbols
			if symbolList != "" {
				explicit = symbols.ParseList(symbolList)
			}
			if symbolsFile != "" {
				if explicit, err = loader.LoadFile(symbolsFile); err != nil {
					return err
				}
			}
			syms, err := loader.Resolve(explicit, cfg.Harvest.Universe)
			if err != nil {
				return fmt.Errorf("loading symbols: %w", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			yahoo := provider.NewYahooProvider(cfg.Harvest.RateLimit)
			h := provider.NewHarvester(yahoo, cfg.Harvest.Suffix, cfg.Harvest.Days, logger)

			fmt.Printf("Harvesting %d symbols (%d days)...\n\n", len(syms), cfg.Harvest.Days)
			bar := progressbar.NewOptions(len(syms),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Harvesting"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]█[reset]",
					SaucerHead:    "[green]█[reset]",
					SaucerPadding: "░",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
			h.OnSymbolDone(func(string, error) { bar.Add(1) })

			bars, harvestReport, err := h.Harvest(ctx, syms)
			bar.Finish()
			fmt.Println()
			if err != nil {
				return fmt.Errorf("harvesting: %w", err)
			}

			if err := provider.WriteFile(cfg.Data.Path, bars); err != nil {
				return fmt.Errorf("writing %s: %w", cfg.Data.Path, err)
			}

			fmt.Printf("Wrote %d bars for %d/%d symbols to %s\n",
				len(bars), len(harvestReport.Succeeded), harvestReport.Requested, cfg.Data.Path)
			for sym, ferr := range harvestReport.Failed {
				fmt.Printf("  skipped %s: %v\n", sym, ferr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbolList, "symbols", "", "comma-separated symbols (overrides universe)")
	cmd.Flags().StringVar(&symbolsFile, "symbols-file", "", "file with one symbol per line")
	cmd.Flags().StringVar(&universe, "universe", "nse-top20", "predefined universe: nse-top20, nse-bank, test")
	cmd.Flags().IntVar(&days, "days", 365, "calendar days of history")
	cmd.Flags().StringVar(&out, "out", "", "output CSV (default from config)")
	cmd.MarkFlagsMutuallyExclusive("symbols", "symbols-file")

	return cmd
}
