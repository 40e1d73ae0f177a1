package cron

import (
	"context"
	"time"

	"appointly/config"
	"appointly/models"
	"appointly/services/tasks"
	"appointly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection built from the Redis settings.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes booking tasks to the processor.
func NewMux(p *tasks.Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingNotify, handleBookingTask(p.Notify))
	mux.HandleFunc(tasks.TypeBookingPublish, handleBookingTask(p.Publish))
	return mux
}

func handleBookingTask(fn func(context.Context, models.Booking) error) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		b, err := tasks.ParseBooking(task)
		if err != nil {
			logger.Error("Invalid booking task payload", zap.String("type", task.Type()), zap.Error(err))
			return asynq.SkipRetry
		}
		logger.Info("Processing booking task", zap.String("type", task.Type()), zap.String("bookingID", b.ID))
		return fn(ctx, b)
	}
}

// InitBookingWorker runs the asynq worker in the background and returns it for shutdown.
func InitBookingWorker(ctx context.Context, p *tasks.Processor) *asynq.Server {
	logger := utils.GetLogger()
	concurrency := config.AppConfig.QueueConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := NewMux(p)

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("Starting booking worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Booking worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Max retry attempts reached for booking worker")
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("Redis connection lost", zap.Error(err))
			}
		}
	}
}
