package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"appointly/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingNotify  = "booking:notify"
	TypeBookingPublish = "booking:publish"
)

const taskTimeout = 30 * time.Second

// NewBookingNotifyTask queues the confirmation emails for b.
func NewBookingNotifyTask(b models.Booking) (*asynq.Task, []asynq.Option, error) {
	return newBookingTask(TypeBookingNotify, b)
}

// NewBookingPublishTask queues the calendar event for b.
func NewBookingPublishTask(b models.Booking) (*asynq.Task, []asynq.Option, error) {
	return newBookingTask(TypeBookingPublish, b)
}

func newBookingTask(typename string, b models.Booking) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(typename, payload)
	// at most once: neither email nor calendar insert is idempotent
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(taskTimeout),
	}
	return task, opts, nil
}

// ParseBooking decodes the booking carried by a task.
func ParseBooking(task *asynq.Task) (models.Booking, error) {
	var b models.Booking
	if err := json.Unmarshal(task.Payload(), &b); err != nil {
		return models.Booking{}, fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}
	return b, nil
}
