// Command server runs the Summaize backend: the flashcard REST API plus
// static serving of the built frontend. Configuration comes from the
// environment (and a .env file in development) — see internal/config.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/summaize/summaize/internal/config"
	"github.com/summaize/summaize/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelDebug
	if cfg.Production {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if cfg.GeneratedKey {
		logger.Warn("JWT_SECRET not set — using a random per-process key; " +
			"all sessions are invalidated on restart and multi-instance deployments will not work")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
