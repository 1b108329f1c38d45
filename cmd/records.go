package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/app/service"
	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/spf13/cobra"
)

var clearConfirmed bool

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect and maintain stored contact records",
}

var recordsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print submission statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		recordService, st, err := newRecordServiceForCommands(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := recordService.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("total_attempts: %d\n", stats.TotalAttempts)
		fmt.Printf("unique_entries: %d\n", stats.UniqueEntries)
		fmt.Printf("duplicates_prevented: %d\n", stats.DuplicatesPrevented)
		fmt.Printf("efficiency: %s\n", stats.Efficiency)
		return nil
	},
}

var recordsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every record and attempt (non-production only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !clearConfirmed {
			return errors.New("refusing to clear without --yes")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return errors.New("refusing to clear records when APP_ENV=production")
		}

		recordService, st, err := newRecordServiceForCommands(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := recordService.Clear(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("records removed: %d\n", result.RecordsRemoved)
		fmt.Printf("attempts removed: %d\n", result.AttemptsRemoved)
		return nil
	},
}

func init() {
	recordsClearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "confirm the destructive clear")
	recordsCmd.AddCommand(recordsStatsCmd)
	recordsCmd.AddCommand(recordsClearCmd)
	rootCmd.AddCommand(recordsCmd)
}

func newRecordServiceForCommands(ctx context.Context, cfg *config.Config) (service.RecordService, *stores, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	recordService := service.NewRecordService(st.records, st.attempts,
		service.WithStoreTimeout(cfg.Store.Timeout),
		service.WithAsyncRunner(func(task func()) { task() }),
	)
	return recordService, st, nil
}
