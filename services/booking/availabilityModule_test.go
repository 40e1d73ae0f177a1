package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	bookingRepo "appointly/database/repository/booking"
	"appointly/models"
)

type failingStore struct {
	listErr, appendErr, removeErr error
}

func (f failingStore) List(ctx context.Context) ([]models.Booking, error) {
	return nil, f.listErr
}

func (f failingStore) Append(ctx context.Context, b models.Booking) error { return f.appendErr }

func (f failingStore) Remove(ctx context.Context, id string) error { return f.removeErr }

func newResolver(t *testing.T, store bookingRepo.BookingStore) *AvailabilityResolver {
	t.Helper()
	return NewAvailabilityResolver(defaultBuilder(t), store)
}

func TestAvailableSlotsExcludesBookedInstants(t *testing.T) {
	// stored in a different but equivalent textual form
	store := bookingRepo.NewMemoryStore(models.Booking{ID: "x", Start: "2024-06-10T10:20:00-04:00"})
	r := newResolver(t, store)

	slots, err := r.AvailableSlots(context.Background(), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 23 {
		t.Fatalf("expected 23 free slots, got %d", len(slots))
	}
	for _, s := range slots {
		if models.FormatInstant(s.Start) == "2024-06-10T14:20:00.000Z" {
			t.Fatalf("booked slot still listed")
		}
	}
}

func TestAvailableSlotsClosedDaySkipsStore(t *testing.T) {
	r := newResolver(t, failingStore{listErr: errors.New("boom")})
	slots, err := r.AvailableSlots(context.Background(), mustDate(t, "2024-06-15"))
	if err != nil || slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty list without error, got %v, %v", slots, err)
	}
}

func TestAvailableSlotsStoreFailure(t *testing.T) {
	r := newResolver(t, failingStore{listErr: errors.New("disk gone")})
	_, err := r.AvailableSlots(context.Background(), mustDate(t, "2024-06-10"))
	if !IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestReserveRejectsTakenSlot(t *testing.T) {
	store := bookingRepo.NewMemoryStore()
	r := newResolver(t, store)
	ctx := context.Background()

	if err := r.Reserve(ctx, models.Booking{ID: "a", Start: "2024-06-10T14:00:00.000Z"}); err != nil {
		t.Fatalf("first Reserve: %v", err)
	}
	err := r.Reserve(ctx, models.Booking{ID: "b", Start: "2024-06-10T14:00:00.000Z"})
	if !IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if list, _ := store.List(ctx); len(list) != 1 {
		t.Fatalf("rejected booking was persisted: %+v", list)
	}
}

func TestReserveMapsStoreLevelDuplicate(t *testing.T) {
	r := newResolver(t, failingStore{appendErr: bookingRepo.ErrDuplicateStart})
	err := r.Reserve(context.Background(), models.Booking{ID: "a", Start: "2024-06-10T14:00:00.000Z"})
	if !IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if !errors.Is(err, bookingRepo.ErrDuplicateStart) {
		t.Fatalf("conflict should wrap the store error")
	}
}

func TestReservePersistenceFailure(t *testing.T) {
	r := newResolver(t, failingStore{appendErr: errors.New("write failed")})
	err := r.Reserve(context.Background(), models.Booking{ID: "a", Start: "2024-06-10T14:00:00.000Z"})
	if !IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	store := bookingRepo.NewMemoryStore()
	r := newResolver(t, store)
	ctx := context.Background()

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := r.Reserve(ctx, models.Booking{ID: string(rune('a' + i%26)), Start: "2024-06-10T15:00:00.000Z"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != n-1 {
		t.Fatalf("wins=%d conflicts=%d", wins, conflicts)
	}
	if list, _ := store.List(ctx); len(list) != 1 {
		t.Fatalf("expected exactly one stored booking, got %d", len(list))
	}
}

func TestRelease(t *testing.T) {
	store := bookingRepo.NewMemoryStore(models.Booking{ID: "a", Start: "2024-06-10T14:00:00.000Z"})
	r := newResolver(t, store)
	ctx := context.Background()

	if err := r.Release(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := r.Release(ctx, "a"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	slots, _ := r.AvailableSlots(ctx, mustDate(t, "2024-06-10"))
	if len(slots) != 24 {
		t.Fatalf("released slot should be available again, got %d slots", len(slots))
	}

	r = newResolver(t, failingStore{removeErr: errors.New("io")})
	if err := r.Release(ctx, "a"); !IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}
