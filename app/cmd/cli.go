package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/db/seeders"
	"github.com/Rakhulsr/go-storefront/app/models/migrations"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/routes"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewCommand builds the storefront CLI. Without a subcommand it serves HTTP.
func NewCommand(env configs.ENV, log *zap.Logger) *cli.Command {
	serveFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "run migrations before serving"},
		}
	}
	serve := func(ctx context.Context, c *cli.Command) error {
		return runServe(ctx, env, log, c.Bool("migrate"))
	}

	return &cli.Command{
		Name:   "storefront",
		Usage:  "Pricing and cart service",
		Action: serve,
		Flags:  serveFlags(),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API",
				Flags:  serveFlags(),
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill an empty catalog with fake products and reviews",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Value: env.SeedProducts, Usage: "number of products"},
					&cli.Int64Flag{Name: "seed", Value: time.Now().UnixNano(), Usage: "random seed"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					_, err = seeders.DBSeed(db, c.Int("count"), c.Int64("seed"), log)
					return err
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: ".", Usage: "directory for .env.new_keys"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if _, err := configs.GenerateAndPrintSessionKeys(os.Stdout, c.String("dir")); err != nil {
						return err
					}
					log.Info("key generation complete, copy the keys to your .env file")
					return nil
				},
			},
		},
	}
}

func sessionKeys(env configs.ENV, log *zap.Logger) (*configs.SessionKeys, error) {
	keys, err := configs.LoadSessionKeysFromEnv(env)
	if err == nil {
		return keys, nil
	}
	if env.IsProduction() {
		return nil, err
	}
	log.Warn("session keys not configured, using throwaway keys", zap.Error(err))
	return &configs.SessionKeys{
		AuthKey: securecookie.GenerateRandomKey(64),
		EncKey:  securecookie.GenerateRandomKey(32),
	}, nil
}

func runServe(ctx context.Context, env configs.ENV, log *zap.Logger, migrate bool) error {
	db, err := configs.OpenConnection(env, log)
	if err != nil {
		return err
	}
	if migrate {
		if err := migrations.AutoMigrate(db); err != nil {
			return err
		}
	}

	keys, err := sessionKeys(env, log)
	if err != nil {
		return err
	}
	if env.CSRFEnabled && len(keys.AuthKey) < 32 {
		return fmt.Errorf("APP_AUTH_KEY must decode to at least 32 bytes when CSRF_ENABLED is set")
	}

	cartSessions := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)
	router := routes.NewRouter(db, cartSessions, routes.Config{
		Production:  env.IsProduction(),
		CSRFEnabled: env.CSRFEnabled,
		CSRFKey:     keys.AuthKey[:min(32, len(keys.AuthKey))],
		Store: repositories.Options{
			Timeout:          env.PersistenceTimeout,
			ReadRetryBackoff: env.ReadRetryBackoff,
		},
	}, log)

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
