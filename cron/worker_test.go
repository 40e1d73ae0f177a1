package cron

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"appointly/models"
	"appointly/services/tasks"
	"appointly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	utils.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

type recordingPublisher struct{ ids []string }

func (r *recordingPublisher) Publish(ctx context.Context, b models.Booking) (string, error) {
	r.ids = append(r.ids, b.ID)
	return "evt", nil
}

func TestMuxRoutesBookingTasks(t *testing.T) {
	pub := &recordingPublisher{}
	mux := NewMux(&tasks.Processor{Publisher: pub})

	task, _, err := tasks.NewBookingPublishTask(models.Booking{ID: "a", Start: "2024-06-10T14:00:00.000Z"})
	if err != nil {
		t.Fatalf("NewBookingPublishTask: %v", err)
	}
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(pub.ids) != 1 || pub.ids[0] != "a" {
		t.Fatalf("publisher not invoked: %v", pub.ids)
	}
}

func TestMalformedPayloadIsNotRetried(t *testing.T) {
	mux := NewMux(&tasks.Processor{})
	raw, _ := json.Marshal("not a booking")
	err := mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBookingNotify, raw))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
