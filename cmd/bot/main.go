package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ngthanhdat199/cashpilot/internal/analyze"
	"github.com/ngthanhdat199/cashpilot/internal/asset"
	"github.com/ngthanhdat199/cashpilot/internal/bot"
	"github.com/ngthanhdat199/cashpilot/internal/cache"
	"github.com/ngthanhdat199/cashpilot/internal/config"
	"github.com/ngthanhdat199/cashpilot/internal/logger"
	"github.com/ngthanhdat199/cashpilot/internal/parser"
	"github.com/ngthanhdat199/cashpilot/internal/queue"
	"github.com/ngthanhdat199/cashpilot/internal/scheduler"
	"github.com/ngthanhdat199/cashpilot/internal/sheetstore"
	"github.com/ngthanhdat199/cashpilot/internal/summary"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	flag.Parse()

	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := sheetstore.NewSheetsStore(ctx,
		cfg.GoogleSheets.CredentialsFile,
		cfg.GoogleSheets.SpreadsheetID,
		cfg.Settings.TemplateSheetName,
		cfg.GoogleSheets.Scopes,
		sheetstore.Seed{
			Salary:    cfg.Income.Salary,
			Freelance: cfg.Income.Freelance,
			Budgets:   cfg.Budgets,
		},
		logger.WithComponent(log, "sheets"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Google Sheets")
	}

	dataCache := cache.New(store, logger.WithComponent(log, "cache"))

	writeQueue := queue.New(store, dataCache, queue.Policy{}, logger.WithComponent(log, "queue"))
	if err := writeQueue.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start write queue")
	}

	summaries := summary.New(dataCache, store, cfg.Income, cfg.Budgets, now, logger.WithComponent(log, "summary"))

	feeds := asset.NewFeedClient(cfg.Worker.DataURL, cfg.Worker.Token, logger.WithComponent(log, "prices"))
	assets := asset.New(dataCache, store, feeds, cfg.Settings.AssetsSheetName, now, logger.WithComponent(log, "asset"))

	insights := analyze.New(cfg.AI.Model, logger.WithComponent(log, "analyze"))

	router := bot.New(parser.New(now), summaries, assets, insights, writeQueue, dataCache, store,
		logger.WithComponent(log, "router"))

	telegram := bot.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger.WithComponent(log, "telegram"))

	monthly := scheduler.New(store, telegram, loc, cfg.Scheduler.TriggerDay, now, logger.WithComponent(log, "scheduler"))
	monthly.Start()

	log.Info().Str("spreadsheet", cfg.GoogleSheets.SpreadsheetID).Msg("Bot service started")

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		telegram.Poll(ctx, router.Handle)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down bot service...")
	cancel()
	<-pollDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := monthly.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Scheduler shutdown failed")
	}
	if err := writeQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Write queue shutdown failed")
	}

	log.Info().Msg("Bot service exited")
}
