package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
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
	"github.com/ngthanhdat199/cashpilot/internal/sheetstore"
	"github.com/ngthanhdat199/cashpilot/internal/summary"
)

// The CLI drives the same engine as the bot, without the chat
// transport: one command per line, reply printed to stdout.
func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	flag.Parse()

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

	fmt.Println("CashPilot CLI — type a command (today, week, month, assets, ...) or an expense entry. Ctrl+D to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		// Bare command words work here without the slash.
		if isCommandWord(line) && !strings.HasPrefix(strings.ToLower(line), "del ") {
			fmt.Println(router.Command(ctx, line))
			continue
		}
		fmt.Println(router.Handle(ctx, line))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := writeQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Write queue shutdown failed")
	}
}

var commandWords = map[string]bool{
	"start": true, "help": true, "today": true, "week": true, "month": true,
	"gas": true, "food": true, "dating": true, "other": true, "investment": true,
	"freelance": true, "salary": true, "income": true, "sort": true, "ai": true,
	"categories": true, "keywords": true, "sync_config": true,
	"assets": true, "migrate_assets": true, "price": true, "profit": true,
}

func isCommandWord(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && commandWords[strings.ToLower(fields[0])]
}
