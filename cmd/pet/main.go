// Package main is the entry point for the Parapet desktop pet.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/config"
	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/internal/pet"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Parapet ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Create and run the pet
	app, err := pet.New(cfg)
	if err != nil {
		logger.Error("failed to start pet", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("pet error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("pet closed normally")
}
