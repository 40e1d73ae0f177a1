package bookingRepo

import (
	"context"
	"fmt"

	"appointly/config"
	"appointly/database"
)

// NewStore opens the store selected by STORE_DRIVER.
func NewStore(ctx context.Context, cfg config.Config) (BookingStore, error) {
	switch cfg.StoreDriver {
	case "", "file":
		return NewFileStore(cfg.DataFile)
	case "memory":
		return NewMemoryStore(), nil
	case "mongo":
		if err := database.InitMongo(ctx); err != nil {
			return nil, err
		}
		return NewMongoBookingStore(database.MongoClient, cfg.DatabaseName)
	case "postgres":
		if err := database.InitPostgres(ctx); err != nil {
			return nil, err
		}
		store := NewPostgresBookingStore(database.PgPool)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "mysql":
		if err := database.InitMySQL(ctx); err != nil {
			return nil, err
		}
		store := NewMySQLBookingStore(database.SQLDB)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
