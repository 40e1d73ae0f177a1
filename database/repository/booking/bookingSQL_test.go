package bookingRepo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMySQLStoreList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "start_at", "name", "email", "phone", "location", "created_at"}).
		AddRow("a", "2024-06-10T14:00:00.000Z", "Ann", "ann@example.com", "", "", "2024-06-01T12:00:00.000Z").
		AddRow("b", "2024-06-10T14:20:00.000Z", "Bob", "bob@example.com", "555", "Home", "2024-06-01T12:05:00.000Z")
	mock.ExpectQuery("SELECT id, start_at, name, email, phone, location, created_at FROM bookings ORDER BY seq").
		WillReturnRows(rows)

	store := NewMySQLBookingStore(db)
	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[1].Phone != "555" || list[1].Location != "Home" {
		t.Fatalf("unexpected bookings: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLStoreAppendDuplicateStart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	b := sampleBooking("a", "2024-06-10T14:00:00.000Z")
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.Start, b.Name, b.Email, b.Phone, b.Location, b.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '2024-06-10T14:00:00.000Z' for key 'bookings.uniq_start_at'"})

	store := NewMySQLBookingStore(db)
	if err := store.Append(context.Background(), b); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := store.Append(context.Background(), sampleBooking("b", b.Start)); !errors.Is(err, ErrDuplicateStart) {
		t.Fatalf("expected ErrDuplicateStart, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLStoreAppendDuplicateIDIsNotSlotConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a' for key 'bookings.uniq_id'"})

	err = NewMySQLBookingStore(db).Append(context.Background(), sampleBooking("a", "2024-06-10T14:00:00.000Z"))
	if err == nil || errors.Is(err, ErrDuplicateStart) {
		t.Fatalf("expected a plain persistence error, got %v", err)
	}
}

func TestMySQLStoreRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM bookings WHERE id").WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM bookings WHERE id").WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewMySQLBookingStore(db)
	if err := store.Remove(context.Background(), "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPgDuplicateStart(t *testing.T) {
	startErr := &pgconn.PgError{Code: "23505", ConstraintName: "bookings_start_at_key"}
	idErr := &pgconn.PgError{Code: "23505", ConstraintName: "bookings_id_key"}
	other := &pgconn.PgError{Code: "23502", ConstraintName: "bookings_start_at_key"}

	if !isPgDuplicateStart(startErr) {
		t.Fatalf("start_at unique violation should map to a slot conflict")
	}
	if isPgDuplicateStart(idErr) || isPgDuplicateStart(other) {
		t.Fatalf("only start_at unique violations are slot conflicts")
	}
}
