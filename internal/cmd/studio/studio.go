// Package studio parses studio command flags and starts the project runtime.
package studio

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/app"
	entrypoint "github.com/john-paul-ruf/nft-studio-sub010/internal/platform/cmd"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

// Config holds studio command configuration.
type Config struct {
	Port    int    `env:"NFT_STUDIO_PORT" envDefault:"8080"`
	Addr    string `env:"NFT_STUDIO_ADDR"`
	DBPath  string `env:"NFT_STUDIO_DB_PATH" envDefault:"studio.db"`
	Project string `env:"NFT_STUDIO_PROJECT" envDefault:"default"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The studio server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The studio server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database (empty for in-memory only)")
	fs.StringVar(&cfg.Project, "project", cfg.Project, "Name of the project to open")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the studio HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStudio, func(ctx context.Context) error {
		var store app.Store
		if cfg.DBPath != "" {
			sqliteStore, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer sqliteStore.Close()
			store = sqliteStore
		}

		studio, err := app.New(ctx, app.Options{
			ProjectName: cfg.Project,
			Store:       store,
		})
		if err != nil {
			return err
		}

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		server := &http.Server{Addr: addr, Handler: studio.Handler()}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})
}
