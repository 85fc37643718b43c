// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManuGH/relayd/internal/api"
	"github.com/ManuGH/relayd/internal/config"
	rdlog "github.com/ManuGH/relayd/internal/log"
	"github.com/ManuGH/relayd/internal/playlist"
	"github.com/ManuGH/relayd/internal/supervisor"
	"github.com/ManuGH/relayd/internal/version"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	retryDelay := flag.Duration("retry-delay", 0, "override retry delay between relay attempts")
	flag.Parse()

	if *showVersion {
		fmt.Printf("relayd %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		return 0
	}

	// Safe defaults until config is loaded.
	rdlog.Configure(rdlog.Config{
		Level:   "info",
		Service: "relayd",
		Version: version.Version,
	})
	logger := rdlog.WithComponent("main")

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
		return 1
	}

	entries, err := playlist.Load(cfg.PlaylistPath)
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "playlist.load_failed").
			Str("path", cfg.PlaylistPath).
			Msg("failed to load playlist")
		return 1
	}

	sup := supervisor.New(supervisor.Options{
		Stream:     cfg.Stream(),
		Entries:    entries,
		FFmpegPath: cfg.FFmpegPath,
		StopGrace:  cfg.StopGrace,
		StatusFile: cfg.StatusFile,
	})

	// Interrupt and termination requests both map to the same shutdown
	// behavior: stop the loop and terminate any active relay process.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().
			Str("event", "signal.received").
			Str("signal", sig.String()).
			Msg("shutdown signal received")
		sup.Shutdown()
	}()

	delay := cfg.RetryDelay
	if *retryDelay > 0 {
		delay = *retryDelay
	}

	var g errgroup.Group
	g.Go(func() error {
		sup.Run(delay)
		return nil
	})

	if cfg.ListenAddr != "" {
		srv := api.NewServer(cfg.ListenAddr, sup)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-sup.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("shutdown with error")
		return 1
	}
	logger.Info().Str("event", "exit").Msg("relayd stopped")
	return 0
}
