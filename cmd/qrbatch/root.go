package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prasetyowira/qrbatch/config"
	"github.com/prasetyowira/qrbatch/constant"
	"github.com/prasetyowira/qrbatch/domain/qrbatch"
	"github.com/prasetyowira/qrbatch/infrastructure/cache"
	"github.com/prasetyowira/qrbatch/infrastructure/db"
	appLogger "github.com/prasetyowira/qrbatch/infrastructure/logger"
	"github.com/prasetyowira/qrbatch/infrastructure/qrcode"
	"github.com/spf13/cobra"
)

// initLogger installs the process logger once the configuration is known.
var initLogger = appLogger.Initialize

// NewRootCmd creates the root command. Run without a subcommand it generates
// the page QR codes for the optional base URL argument.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrbatch [base_url]",
		Short: "Generate QR codes for the site's detail pages",
		Long: `qrbatch writes one PNG QR code per detail page (background, methods,
results, future) into the output directory. Each code encodes
<base_url>/<page>.html. The base URL defaults to http://localhost:8000.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	cmd.PersistentFlags().String("config", "", "path to a YAML config file (default ./"+config.DefaultConfigFile+" if present)")
	cmd.PersistentFlags().String("output-dir", "", "directory the images are written to")
	cmd.PersistentFlags().String("history-db", "", "SQLite file recording every generated image")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	cmd.Flags().Bool("index", false, "also write index.md listing the generated images")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewPagesCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogger(cfg.LogLevel, cfg.LogJSON)
	defer appLogger.Close()

	if cmd.Flags().Changed("index") {
		cfg.WriteIndex, _ = cmd.Flags().GetBool("index")
	}

	baseURL := cfg.BaseURL
	if len(args) > 0 {
		baseURL = args[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, constant.MsgGeneratingFor, baseURL)
	fmt.Fprintln(out, strings.Repeat("=", constant.SeparatorWidth))

	service, closeFn, err := newService(cfg, nil, out)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := appLogger.NewRunContext(cmd.Context())
	artifacts, err := service.Generate(ctx, baseURL)
	if err != nil {
		appLogger.CtxError(ctx, constant.MsgGenerationFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppGenerate,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataBaseURL: baseURL,
			},
		})
		return err
	}

	if cfg.WriteIndex {
		if _, err := service.WriteIndex(ctx, baseURL, artifacts); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads the layered configuration and applies persistent flags.
// Failures are logged through a bootstrap logger at the default level, since
// the configured one cannot exist yet.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if !appLogger.Ready() {
		initLogger(config.Default().LogLevel, false)
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		appLogger.Error(constant.MsgFailedToLoadConfig, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppConfig,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataConfigSrc: path,
			},
		})
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("history-db") {
		cfg.HistoryDB, _ = flags.GetString("history-db")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	return cfg, nil
}

// newService wires the encoder, the optional history database and lru into a
// generator service. The returned func releases the database.
func newService(cfg config.Config, lru *cache.ImageLRU, out io.Writer) (*qrbatch.Service, func(), error) {
	opts := qrcode.DefaultOptions()
	opts.BoxSize = cfg.BoxSize
	opts.Border = cfg.Border
	encoder, err := qrcode.NewEncoder(opts)
	if err != nil {
		appLogger.Error(constant.MsgInvalidRenderOptions, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeRenderOptions,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataBoxSize: cfg.BoxSize,
				constant.DataBorder:  cfg.Border,
			},
		})
		return nil, nil, fmt.Errorf("configuring encoder: %w", err)
	}

	if cfg.HistoryDB == "" {
		return qrbatch.NewService(encoder, nil, lru, cfg.OutputDir, out), func() {}, nil
	}

	history, err := db.NewSQLiteHistory(cfg.HistoryDB)
	if err != nil {
		appLogger.Error(constant.MsgFailedToInitDB, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppDBInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataPath: cfg.HistoryDB,
			},
		})
		return nil, nil, fmt.Errorf("opening history database %s: %w", cfg.HistoryDB, err)
	}
	closeFn := func() { _ = history.Close() }
	return qrbatch.NewService(encoder, history, lru, cfg.OutputDir, out), closeFn, nil
}
