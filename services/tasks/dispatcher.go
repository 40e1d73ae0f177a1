package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"appointly/models"
	"appointly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ErrQueueFull is returned when the in-process queue cannot accept more work.
var ErrQueueFull = errors.New("dispatch queue full")

// AsynqDispatcher enqueues booking side effects on Redis for the worker to consume.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(opt asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(opt)}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, b models.Booking) error {
	var errs []error
	for _, build := range []func(models.Booking) (*asynq.Task, []asynq.Option, error){
		NewBookingNotifyTask,
		NewBookingPublishTask,
	} {
		task, opts, err := build(b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		info, err := d.client.EnqueueContext(ctx, task, opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("enqueue %s: %w", task.Type(), err))
			continue
		}
		utils.GetLogger().Debug("Task enqueued",
			zap.String("type", task.Type()), zap.String("taskID", info.ID), zap.String("bookingID", b.ID))
	}
	return errors.Join(errs...)
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}

// InlineDispatcher runs booking side effects on a fixed pool of in-process workers.
type InlineDispatcher struct {
	processor *Processor
	jobs      chan job
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type job struct {
	ctx     context.Context
	booking models.Booking
}

func NewInlineDispatcher(processor *Processor, workers, queueSize int) *InlineDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &InlineDispatcher{
		processor: processor,
		jobs:      make(chan job, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *InlineDispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		if err := d.processor.Run(j.ctx, j.booking); err != nil {
			utils.GetLogger().Warn("Booking side effects failed", zap.String("bookingID", j.booking.ID), zap.Error(err))
		}
	}
}

// Dispatch queues b without waiting for delivery.
func (d *InlineDispatcher) Dispatch(ctx context.Context, b models.Booking) error {
	select {
	case d.jobs <- job{ctx: context.WithoutCancel(ctx), booking: b}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for queued jobs to finish.
func (d *InlineDispatcher) Close() error {
	d.closeOnce.Do(func() { close(d.jobs) })
	d.wg.Wait()
	return nil
}
