// Package main provides the relidx binary entry point.
// Relidx scans a directory of release-note files, groups them by minor
// version, and renders index pages from templates.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/relidx/config"
	"github.com/c360studio/relidx/render"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "relidx"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath   string
		docsDir      string
		templatesDir string
		logLevel     string
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Release-notes index generator",
		Long: `Relidx renders index pages for a directory of release-note files.

It groups release notes by minor version, resolves a display title per
series from the front-matter of the ".0" release, and expands every
template in the templates directory against that data.

Runs with no arguments: by default the templates directory sits next to
the binary and the docs directory two levels up.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, docsDir, templatesDir, logLevel, watch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&docsDir, "docs", "", "Output root containing release-note files")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "Templates directory")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render on filesystem changes")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, docsDir, templatesDir, logLevel string, watch bool) error {
	cfg, err := config.NewLoader(nil).Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags beat the config file.
	cfg.Merge(&config.Config{
		DocsDir:      docsDir,
		TemplatesDir: templatesDir,
		LogLevel:     logLevel,
		Watch:        config.WatchConfig{Enabled: watch},
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Fail fast before touching anything else.
	info, err := os.Stat(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("templates directory %s: %w", cfg.TemplatesDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("templates directory %s: not a directory", cfg.TemplatesDir)
	}

	logger.Info("starting render pass",
		"version", Version,
		"docs", cfg.DocsDir,
		"templates", cfg.TemplatesDir)

	renderer := render.New(logger, cfg.TemplatesDir, cfg.DocsDir, cfg.Ignore)
	if err := renderer.Render(); err != nil {
		return err
	}

	if !cfg.Watch.Enabled {
		return nil
	}

	watcher, err := render.NewWatcher(logger, renderer, cfg.Watch.GetDebounceDelay())
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", "debounce", cfg.Watch.GetDebounceDelay())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
