// Package config loads the bot configuration from a JSON file, with
// secrets overridable from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config mirrors config.json.
type Config struct {
	GoogleSheets GoogleSheets       `json:"google_sheets"`
	Telegram     Telegram           `json:"telegram"`
	Settings     Settings           `json:"settings"`
	Income       Income             `json:"income"`
	Budgets      map[string]float64 `json:"budgets"`
	Scheduler    Scheduler          `json:"scheduler"`
	AI           AI                 `json:"ai"`
	Worker       Worker             `json:"worker"`
}

// GoogleSheets configures the spreadsheet backend.
type GoogleSheets struct {
	CredentialsFile string   `json:"credentials_file"`
	SpreadsheetID   string   `json:"spreadsheet_id"`
	Scopes          []string `json:"scopes"`
}

// Telegram configures the chat transport boundary.
type Telegram struct {
	BotToken string `json:"bot_token"`
	ChatID   int64  `json:"chat_id"`
}

// Settings holds sheet naming and locale settings.
type Settings struct {
	Timezone          string `json:"timezone"`
	TemplateSheetName string `json:"template_sheet_name"`
	AssetsSheetName   string `json:"assets_sheet_name"`
	LoggingLevel      string `json:"logging_level"`
}

// Income holds the configured monthly income, used as the budget base
// when a month's sheet has no income cells filled yet.
type Income struct {
	Salary    int64 `json:"salary"`
	Freelance int64 `json:"freelance"`
}

// Scheduler configures the monthly sheet provisioning job.
type Scheduler struct {
	TriggerDay int `json:"trigger_day"`
}

// AI configures the monthly analysis model. The API key is taken from
// the environment by the genai client, not from the file.
type AI struct {
	Model string `json:"model"`
}

// Worker configures the asset price feed repository.
type Worker struct {
	Token   string `json:"token"`
	DataURL string `json:"data_url"`
}

// Load reads and validates the configuration at path. Environment
// variables TELEGRAM_BOT_TOKEN, WORKER_TOKEN and SPREADSHEET_ID
// override the file values when set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("WORKER_TOKEN"); v != "" {
		cfg.Worker.Token = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		cfg.GoogleSheets.SpreadsheetID = v
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.Timezone == "" {
		c.Settings.Timezone = "Asia/Ho_Chi_Minh"
	}
	if c.Settings.TemplateSheetName == "" {
		c.Settings.TemplateSheetName = "template"
	}
	if c.Settings.AssetsSheetName == "" {
		c.Settings.AssetsSheetName = "assets"
	}
	if c.Scheduler.TriggerDay == 0 {
		c.Scheduler.TriggerDay = 25
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.0-flash"
	}
	if c.Budgets == nil {
		c.Budgets = map[string]float64{}
	}
}

func (c *Config) validate() error {
	if c.GoogleSheets.SpreadsheetID == "" {
		return fmt.Errorf("config: google_sheets.spreadsheet_id is required")
	}
	if _, err := time.LoadLocation(c.Settings.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Settings.Timezone, err)
	}
	if c.Scheduler.TriggerDay < 1 || c.Scheduler.TriggerDay > 28 {
		return fmt.Errorf("config: scheduler.trigger_day %d out of range 1..28", c.Scheduler.TriggerDay)
	}
	return nil
}

// Location resolves the configured timezone. Load has already
// validated it, so failures here only happen on a zero Config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Settings.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
