package booking

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"appointly/models"
	"appointly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const defaultDispatchTimeout = 30 * time.Second

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Availability         *AvailabilityResolver
	Dispatcher           Dispatcher
	EnforceSlotAlignment bool
	DispatchTimeout      time.Duration

	// Overridable in tests.
	Now   func() time.Time
	NewID func() string

	inflight sync.WaitGroup
}

func NewBookingService(availability *AvailabilityResolver, dispatcher Dispatcher, enforceSlotAlignment bool) *DefaultBookingService {
	return &DefaultBookingService{
		Availability:         availability,
		Dispatcher:           dispatcher,
		EnforceSlotAlignment: enforceSlotAlignment,
		DispatchTimeout:      defaultDispatchTimeout,
		Now:                  time.Now,
		NewID:                func() string { return uuid.New().String() },
	}
}

func (s *DefaultBookingService) AvailableSlots(ctx context.Context, date string) ([]models.Slot, error) {
	if date == "" {
		return nil, &ValidationError{Code: CodeMissingField, Message: "Date parameter required (YYYY-MM-DD)"}
	}
	d, err := ParseDate(date)
	if err != nil {
		return nil, &ValidationError{Code: CodeInvalidDate, Message: "Invalid date format. Use YYYY-MM-DD", Err: err}
	}
	return s.Availability.AvailableSlots(ctx, d)
}

func (s *DefaultBookingService) Book(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	logger := utils.GetLogger()

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if req.Start == "" || name == "" || email == "" {
		return models.Booking{}, &ValidationError{Code: CodeMissingField, Message: "Missing required fields: start, name, email"}
	}
	if !emailPattern.MatchString(email) {
		return models.Booking{}, &ValidationError{Code: CodeInvalidEmail, Message: "Invalid email format"}
	}
	start, err := models.ParseInstant(req.Start)
	if err != nil {
		return models.Booking{}, &ValidationError{Code: CodeInvalidStart, Message: "Invalid start time", Err: err}
	}
	if s.EnforceSlotAlignment && !s.Availability.Slots.IsSlotStart(start) {
		return models.Booking{}, &ValidationError{Code: CodeNotASlot, Message: "Requested start is not a bookable slot"}
	}

	b := models.Booking{
		ID:        s.NewID(),
		Start:     models.FormatInstant(start),
		Name:      name,
		Email:     email,
		Phone:     req.Phone,
		Location:  req.Location,
		CreatedAt: models.FormatInstant(s.Now()),
	}

	if err := s.Availability.Reserve(ctx, b); err != nil {
		if IsConflict(err) {
			logger.Info("booking.rejected", zap.String("start", b.Start), zap.String("reason", CodeSlotTaken))
		}
		return models.Booking{}, err
	}
	logger.Info("booking.created", zap.String("id", b.ID), zap.String("start", b.Start))

	s.dispatch(ctx, b)
	return b, nil
}

// dispatch runs the side effects on their own goroutine so the caller's response is never
// held up; failures are logged and never reach the client.
func (s *DefaultBookingService) dispatch(ctx context.Context, b models.Booking) {
	if s.Dispatcher == nil {
		return
	}
	timeout := s.DispatchTimeout
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := s.Dispatcher.Dispatch(dctx, b); err != nil {
			utils.GetLogger().Error("booking.dispatch_failed", zap.String("id", b.ID), zap.Error(err))
		}
	}()
}

// Wait blocks until every dispatch started by Book has returned.
func (s *DefaultBookingService) Wait() {
	s.inflight.Wait()
}

func (s *DefaultBookingService) Cancel(ctx context.Context, id string) error {
	if err := s.Availability.Release(ctx, id); err != nil {
		return err
	}
	utils.GetLogger().Info("booking.cancelled", zap.String("id", id))
	return nil
}

func (s *DefaultBookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.Availability.Bookings(ctx)
}
