package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/verdict/ai"
	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/config"
	"github.com/teranos/verdict/critic"
	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/logger"
	"github.com/teranos/verdict/server"
	"github.com/teranos/verdict/template"
)

// ServeCmd starts the HTTP API server
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verdict HTTP API server",
	Long:  `Launch the HTTP API serving render, validate, and evaluate endpoints over the configured critic directory.`,
	RunE:  runServe,
}

var (
	servePort       int
	serveCriticsDir string
	serveNoWatch    bool
)

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	ServeCmd.Flags().StringVar(&serveCriticsDir, "critics", "", "Critic directory (overrides config)")
	ServeCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Disable critic directory watching")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveCriticsDir != "" {
		cfg.Critics.Dir = serveCriticsDir
	}

	log := logger.Logger

	engine, err := template.NewEngine(template.Config{
		CacheSize:       cfg.Engine.CacheSize,
		MaxPartialDepth: cfg.Engine.MaxPartialDepth,
		Logger:          log,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create template engine")
	}

	store, err := critic.NewStore(cfg.Critics.Dir, engine, log)
	if err != nil {
		return errors.Wrapf(err, "failed to load critics from %s", cfg.Critics.Dir)
	}

	if cfg.Critics.Watch && !serveNoWatch {
		watcher, err := critic.NewWatcher(store, log)
		if err != nil {
			return errors.Wrap(err, "failed to start critic watcher")
		}
		watcher.Start()
		defer watcher.Stop()
	}

	// A missing provider keeps render and validate working; evaluate
	// answers 503
	var client provider.Client
	if c, err := ai.NewClient(cfg, log); err != nil {
		log.Warnw("No AI provider available, evaluate endpoint disabled", "error", err)
	} else {
		client = c
	}

	srv := server.NewVerdictServer(cfg, engine, store, client, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Infow("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
