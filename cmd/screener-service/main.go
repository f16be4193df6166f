package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/internal/screener/repository"
	"golang-canslim-screener/internal/screener/service"
	"golang-canslim-screener/pkg/logger"
	"golang-canslim-screener/pkg/telegram"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Runs a single screening pass over the configured universe",
	Run:   runScan,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs the screener on the configured cron schedule",
	Run:   runSchedule,
}

func runScan(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize screener: %v", err)
	}
	defer func() { _ = app.log.Sync() }()

	if err := app.runOnce(ctx); err != nil {
		app.log.ErrorContext(ctx, "Scan failed", logger.ErrorField(err))
		os.Exit(1)
	}
}

func runSchedule(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize screener: %v", err)
	}
	defer func() { _ = app.log.Sync() }()

	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(app.cfg.Schedule.Cron, func() {
		if err := app.runOnce(ctx); err != nil {
			app.log.ErrorContext(ctx, "Scheduled scan failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		app.log.ErrorContext(ctx, "Invalid cron expression", logger.ErrorField(err))
		os.Exit(1)
	}

	app.log.InfoContext(ctx, "Scheduler started",
		logger.StringField("cron", app.cfg.Schedule.Cron))
	scheduler.Start()

	<-ctx.Done()
	app.log.InfoContext(ctx, "Shutting down scheduler...")
	<-scheduler.Stop().Done()
	app.log.InfoContext(ctx, "Scheduler exiting")
}

// app bundles the wired dependencies shared by the scan and schedule commands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	screener service.ScreenerService
	reports  repository.ReportRepository
	notifier telegram.Notifier
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting Screener Service", logger.Field("name", cfg.App.Name))

	universeRepo := repository.NewUniverseRepository(cfg, appLogger)
	priceRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	fundamentalsRepo := repository.NewFundamentalsRepository(cfg, appLogger)
	reportRepo := repository.NewReportRepository(cfg, appLogger)

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram client: %w", err)
		}
	}

	return &app{
		cfg:      cfg,
		log:      appLogger,
		screener: service.NewScreenerService(cfg, appLogger, universeRepo, priceRepo, fundamentalsRepo),
		reports:  reportRepo,
		notifier: notifier,
	}, nil
}

// runOnce executes a full scan, exports the report and notifies Telegram
// when enabled.
func (a *app) runOnce(ctx context.Context) error {
	report, err := a.screener.Scan(ctx)
	if err != nil {
		return err
	}

	path, err := a.reports.ExportCSV(report)
	if err != nil {
		return err
	}
	a.log.InfoContext(ctx, "Report exported", logger.StringField("path", path))

	if a.notifier != nil {
		for _, message := range telegram.FormatScanReport(report) {
			if err := a.notifier.SendMessage(message); err != nil {
				a.log.ErrorContext(ctx, "Failed to send Telegram notification", logger.ErrorField(err))
			}
		}
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{Use: "screener-service"}

	for _, cmd := range []*cobra.Command{scanCmd, scheduleCmd} {
		cmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-screener.yaml", "Path to the configuration file")
		rootCmd.AddCommand(cmd)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing screener-service CLI: %s\n", err)
		os.Exit(1)
	}
}
