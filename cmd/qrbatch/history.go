package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/prasetyowira/qrbatch/constant"
	appLogger "github.com/prasetyowira/qrbatch/infrastructure/logger"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command listing recorded generations.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated QR images",
		Long: `history lists the most recent entries of the generation history
database. Recording is enabled with --history-db or QRBATCH_HISTORY_DB.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().Int("limit", 20, "maximum number of records to show (0 for all)")
	cmd.Flags().Bool("json", false, "print records as JSON")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogger(cfg.LogLevel, cfg.LogJSON)
	defer appLogger.Close()

	service, closeFn, err := newService(cfg, nil, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	limit, _ := cmd.Flags().GetInt("limit")
	appLogger.Debug("Listing generation history", appLogger.LoggerInfo{
		ContextFunction: constant.CtxHistoryCmd,
		Data: map[string]interface{}{
			constant.DataLimit: limit,
		},
	})

	records, err := service.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tRUN\tPAGE\tURL\tFILE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), shortRunID(rec.RunID), rec.Page, rec.URL, rec.Path)
	}
	return tw.Flush()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
