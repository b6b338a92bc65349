package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"swinglab/internal/report"
	"swinglab/internal/store"
	"swinglab/internal/strategy"
	"swinglab/internal/tier"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the signal catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return report.WriteCatalog(os.Stdout, strategy.Catalog())
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an elite tier token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := tier.Mint(cfg.Tier.Secret, subject, ttl)
			if err != nil {
				return fmt.Errorf("minting token: %w", err)
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject (user name)")
	cmd.Flags().DurationVar(&ttl, "ttl", 720*time.Hour, "token lifetime")
	cmd.MarkFlagRequired("subject")

	return cmd
}

func newRunsCmd() *cobra.Command {
	var (
		storePath string
		runID     string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded scan runs, or the signals of one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Path = storePath
			}
			if cfg.Store.Path == "" {
				return fmt.Errorf("no signal store configured (use --store)")
			}

			ctx := context.Background()
			st, err := store.Open(ctx, cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if runID != "" {
				signals, err := st.ListRun(ctx, runID)
				if err != nil {
					return err
				}
				return report.WriteTable(os.Stdout, report.ViewAll, signals)
			}

			runs, err := st.Runs(ctx)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Run", "As Of", "Signals"}),
			)
			for _, r := range runs {
				table.Append([]string{r.RunID, r.AsOf.Format("2006-01-02"), fmt.Sprintf("%d", r.Signals)})
			}
			return table.Render()
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "SQLite signal store (default from config)")
	cmd.Flags().StringVar(&runID, "run", "", "show the signals of this run")

	return cmd
}
