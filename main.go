package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/cardbot/internal/bot"
	"github.com/example/cardbot/internal/config"
	"github.com/example/cardbot/internal/controller"
	"github.com/example/cardbot/internal/database"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Bot stopped with error", "error", err)
	}
	log.Info("Bot stopped successfully")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	defaultCards, err := controller.LoadDefaultCards(cfg.DefaultCardsFile, cfg.TestWords, log)
	if err != nil {
		return err
	}
	ctrl := controller.New(db, defaultCards, log)

	if cfg.Scheduler.Enabled {
		s := scheduler.New(ctrl, cfg.Scheduler, log)
		if err := s.Start(ctx); err != nil {
			return err
		}
		defer s.Stop()
	}

	b, err := bot.New(cfg.BotToken, bot.DefaultConfig(), ctrl, log)
	if err != nil {
		return err
	}

	log.Info("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
