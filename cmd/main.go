package main

import (
	"context"
	"os"

	"github.com/desertthunder/playlister/internal/augment"
	"github.com/desertthunder/playlister/internal/automation"
	"github.com/desertthunder/playlister/internal/repositories"
	"github.com/desertthunder/playlister/internal/services"
	"github.com/desertthunder/playlister/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	genius := services.NewGeniusService(config.Genius.APIKey, config.Genius.BaseURL)
	searx := services.NewSearxService(config.SearxNG.BaseURL, nil)
	ollama := services.NewOllamaService(
		config.Ollama.BaseURL,
		config.Ollama.ChatModel,
		config.Ollama.EmbedModel,
		config.Ollama.Temperature,
		nil,
	)
	chroma := services.NewChromaIndex(config.Chroma.BaseURL, config.Chroma.Collection, ollama, nil)

	opts := RunnerOpts{
		Config:     config,
		Logger:     logger,
		Augmenter:  augment.NewAugmenter(nil, genius, searx, ollama),
		Index:      chroma,
		Model:      ollama,
		Automation: automation.NewAppleMusicAutomation(),
	}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		opts.Store = repositories.NewTrackRepository(db)
	} else {
		logger.Debug("database unavailable", "path", config.Database.Path, "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "playlister",
		Usage:    "Import, enrich and curate your music library with AI",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
