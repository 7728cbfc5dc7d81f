package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"stock-marketplace/cache"
	"stock-marketplace/database"
	"stock-marketplace/handlers"
	"stock-marketplace/middleware"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := setup()
	if err != nil {
		return err
	}
	defer closeDB(e.db, e.log)
	gin.SetMode(e.cfg.GinMode)

	store := database.NewStore(e.db)

	var identities cache.IdentityCache
	rdb, err := e.cfg.OpenRedis(ctx)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		identities = cache.NewRedisIdentityCache(rdb, e.cfg.TokenCacheTTL)
		e.log.WithField("addr", e.cfg.RedisAddr).Info("token cache enabled")
	}

	h := handlers.New(store, e.log, handlers.Options{AllowAdminSignup: e.cfg.AllowAdminSignup})
	router := handlers.NewRouter(h, handlers.RouterConfig{
		Auth:        middleware.TokenAuth(store, identities, e.log),
		Metrics:     middleware.NewMetrics("stockmarket"),
		Logger:      e.log,
		CORSOrigins: e.cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + e.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.log.WithField("port", e.cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on :%s: %w", e.cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
