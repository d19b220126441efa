package main

import (
	"fmt"
	"path/filepath"

	"github.com/prasetyowira/qrbatch/domain/qrbatch"
	"github.com/spf13/cobra"
)

// NewPagesCmd creates the pages command, a dry run printing what would be
// generated.
func NewPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages [base_url]",
		Short: "Print the page URLs and file names without writing images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			baseURL := cfg.BaseURL
			if len(args) > 0 {
				baseURL = args[0]
			}

			for _, page := range qrbatch.Pages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n",
					filepath.Join(cfg.OutputDir, page.ImageName()), page.URL(baseURL))
			}
			return nil
		},
	}
}
