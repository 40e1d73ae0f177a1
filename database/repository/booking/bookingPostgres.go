package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"appointly/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	start_at   TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	location   TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
)`

// PostgresBookingStore implements BookingStore on a pgx pool.
type PostgresBookingStore struct {
	pool *pgxpool.Pool
}

func NewPostgresBookingStore(pool *pgxpool.Pool) *PostgresBookingStore {
	return &PostgresBookingStore{pool: pool}
}

// Migrate creates the bookings table when missing.
func (s *PostgresBookingStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate bookings table: %w", err)
	}
	return nil
}

func (s *PostgresBookingStore) List(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, start_at, name, email, phone, location, created_at FROM bookings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Start, &b.Name, &b.Email, &b.Phone, &b.Location, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (s *PostgresBookingStore) Append(ctx context.Context, b models.Booking) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bookings (id, start_at, name, email, phone, location, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.Start, b.Name, b.Email, b.Phone, b.Location, b.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateStart(err) {
			return ErrDuplicateStart
		}
		return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
	}
	return nil
}

func (s *PostgresBookingStore) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isPgDuplicateStart(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, "start_at")
}
