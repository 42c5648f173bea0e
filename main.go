package main

import (
	"fmt"
	"os"

	"element_grab/infrastructure/config"
	"element_grab/presentation/terminal"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithField("level", cfg.Log.Level).Warn("Unknown log level, using info")
	}
	logger.SetLevel(level)
	if !envLoaded {
		logger.Debug(".env file not found, using environment variables")
	}

	termInterface, err := terminal.NewTerminalInterface(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer termInterface.Close()

	if err := termInterface.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		termInterface.Close()
		os.Exit(1)
	}
}
