package bookingRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"appointly/models"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	seq        BIGINT AUTO_INCREMENT PRIMARY KEY,
	id         VARCHAR(64)  NOT NULL,
	start_at   VARCHAR(32)  NOT NULL,
	name       VARCHAR(255) NOT NULL,
	email      VARCHAR(255) NOT NULL,
	phone      VARCHAR(64)  NOT NULL DEFAULT '',
	location   VARCHAR(255) NOT NULL DEFAULT '',
	created_at VARCHAR(32)  NOT NULL,
	UNIQUE KEY uniq_id (id),
	UNIQUE KEY uniq_start_at (start_at)
) CHARACTER SET utf8mb4`

// MySQLBookingStore implements BookingStore on database/sql with the MySQL driver.
type MySQLBookingStore struct {
	DB *sql.DB
}

func NewMySQLBookingStore(db *sql.DB) *MySQLBookingStore {
	return &MySQLBookingStore{DB: db}
}

// Migrate creates the bookings table when missing.
func (s *MySQLBookingStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, mysqlSchema); err != nil {
		return fmt.Errorf("failed to migrate bookings table: %w", err)
	}
	return nil
}

func (s *MySQLBookingStore) List(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.DB.QueryContext(ctx,
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

func (s *MySQLBookingStore) Append(ctx context.Context, b models.Booking) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO bookings (id, start_at, name, email, phone, location, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Start, b.Name, b.Email, b.Phone, b.Location, b.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateStart(err) {
			return ErrDuplicateStart
		}
		return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
	}
	return nil
}

func (s *MySQLBookingStore) Remove(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isMySQLDuplicateStart(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlDuplicateEntry {
		return false
	}
	return strings.Contains(myErr.Message, "start_at")
}
