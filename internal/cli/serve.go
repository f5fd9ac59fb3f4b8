package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/config"
	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/server"
	"github.com/idilsaglam/todo-inline/internal/service"
	"github.com/idilsaglam/todo-inline/internal/store"
	"github.com/idilsaglam/todo-inline/internal/store/jsonstore"
	"github.com/idilsaglam/todo-inline/internal/store/sqlitestore"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, backend, db, token string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("addr") {
				a.cfg.Serve.Addr = addr
			}
			if flags.Changed("store") {
				a.cfg.Serve.Store = backend
			}
			if flags.Changed("db") {
				a.cfg.Serve.DB = db
			}
			if flags.Changed("require-token") {
				a.cfg.Serve.Token = token
			}
			if err := a.cfg.Finalize(); err != nil {
				return clierr.New(clierr.InvalidInput, err.Error())
			}

			logger, err := logging.New(a.stderr, a.cfg.LogLevel)
			if err != nil {
				return clierr.New(clierr.InvalidInput, err.Error())
			}
			repo, err := openStore(cmd.Context(), a.cfg.Serve)
			if err != nil {
				return err
			}
			defer repo.Close()

			logger.Info("store opened", "store", a.cfg.Serve.Store, "path", a.cfg.Serve.DB)
			srv := server.New(server.Config{
				Addr:   a.cfg.Serve.Addr,
				Token:  a.cfg.Serve.Token,
				Logger: logger,
			}, service.New(repo, logger))
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&backend, "store", config.DefaultStore, "storage backend: sqlite or json")
	cmd.Flags().StringVar(&db, "db", config.DefaultDBFile, "database file")
	cmd.Flags().StringVar(&token, "require-token", "", "bearer token clients must send")
	return cmd
}

func openStore(ctx context.Context, cfg config.ServeConfig) (store.Repository, error) {
	switch cfg.Store {
	case config.StoreJSON:
		s, err := jsonstore.Open(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		return s, nil
	default:
		s, err := sqlitestore.Open(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	}
}
