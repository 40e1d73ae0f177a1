package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appointly/config"
	"appointly/cron"
	"appointly/database"
	"appointly/handlers"
	"appointly/routes"
	"appointly/services/booking"
	"appointly/services/tasks"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var runWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), runWorker)
		},
	}
	cmd.Flags().BoolVar(&runWorker, "worker", true, "consume queued booking tasks in this process (QUEUE_DRIVER=asynq)")
	return cmd
}

func serve(parent context.Context, runWorker bool) error {
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, store, err := newResolver(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(context.Background())

	processor, err := newProcessor(ctx, cfg, resolver.Slots.Rules)
	if err != nil {
		return err
	}

	checks := map[string]utils.HealthCheck{
		"store": func(ctx context.Context) error {
			_, err := store.List(ctx)
			return err
		},
		"database": database.Ping,
	}

	var dispatcher interface {
		booking.Dispatcher
		Close() error
	}
	switch cfg.QueueDriver {
	case "asynq":
		if err := utils.InitRedis(ctx); err != nil {
			return err
		}
		defer utils.CloseRedis()
		checks["redis"] = func(ctx context.Context) error { return utils.RedisClient.Ping(ctx).Err() }

		dispatcher = tasks.NewAsynqDispatcher(cron.RedisOpt())
		if runWorker {
			worker := cron.InitBookingWorker(ctx, processor)
			defer worker.Shutdown()
		}
	default:
		dispatcher = tasks.NewInlineDispatcher(processor, cfg.QueueConcurrency, 64)
	}

	svc := booking.NewBookingService(resolver, dispatcher, cfg.EnforceSlotAlignment)
	utils.StartHealthMonitor(ctx, checks, 60*time.Second)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	bundle := handlers.NewHandlerBundle(handlers.NewBookingHandler(svc, logger))
	routes.RegisterRoutes(router, bundle, logger, cfg.MaxRequestsPerMin)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("store", cfg.StoreDriver),
		zap.String("queue", cfg.QueueDriver))
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	logger.Info("Server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// let in-flight dispatches reach the queue before it closes
	svc.Wait()
	if err := dispatcher.Close(); err != nil {
		logger.Error("Error closing dispatcher", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
	return nil
}
