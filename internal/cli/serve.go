package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayuni-ai/ayuni/internal/avatar"
	"github.com/ayuni-ai/ayuni/internal/config"
	"github.com/ayuni-ai/ayuni/internal/server"
	"github.com/ayuni-ai/ayuni/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server with the background decay timer",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := openDBFromConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	eng := newEngineFromConfig(db, cfg)
	if eng.LLM != nil {
		fmt.Fprintf(os.Stderr, "  llm: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	eng.StartDecayTimer(time.Duration(cfg.Decay.IntervalHours) * time.Hour)
	defer eng.Stop()

	var avatars *avatar.Client
	if cfg.Avatar.BaseURL != "" {
		avatars = avatar.New(cfg.Avatar.BaseURL, cfg.Avatar.APIKey, cfg.Avatar.Dir)
		fmt.Fprintf(os.Stderr, "  avatars: %s\n", cfg.Avatar.BaseURL)
	}

	srv := server.New(db, eng, avatars, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "ayuni serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", db.Path)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

func openDBFromConfig(cfg config.Config) (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
