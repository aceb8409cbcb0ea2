package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexdesk/casework/pkg/cli/config"
	httpctrl "github.com/lexdesk/casework/pkg/controller/http"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/repository/cache"
	"github.com/lexdesk/casework/pkg/service/audit"
	"github.com/lexdesk/casework/pkg/service/worker"
	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var shutdownTimeout time.Duration
	var repoCfg config.Repository
	var authCfg config.Auth
	var cacheCfg config.Cache

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CASEWORK_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Usage:       "Grace period for in-flight requests on shutdown",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("CASEWORK_SHUTDOWN_TIMEOUT"),
			Destination: &shutdownTimeout,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			store, closeStore, err := cacheCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure user cache")
			}
			defer closeStore()

			var serving interfaces.Repository = repo
			var refreshWorker *worker.UserCacheRefreshWorker
			if store != nil {
				cached := cache.Wrap(repo, store, cacheCfg.TTL())
				serving = cached

				if interval := cacheCfg.RefreshInterval(); interval > 0 {
					refreshWorker = worker.NewUserCacheRefreshWorker(cached.Users(), interval)
					if err := refreshWorker.Start(ctx); err != nil {
						return goerr.Wrap(err, "failed to start user cache refresh worker")
					}
				}
			}

			emitter := audit.NewMulti(
				audit.NewLogEmitter(),
				audit.NewRepositoryEmitter(repo.AuditLog()),
			)

			uc := usecase.New(serving,
				usecase.WithAuditEmitter(emitter),
				usecase.WithAuth(authUC),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if refreshWorker != nil {
					refreshWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			if refreshWorker != nil {
				refreshWorker.Stop()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
