package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"appointly/config"
	"appointly/utils"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is the global MongoDB client instance, set by InitMongo.
var MongoClient *mongo.Client

// PgPool is the global Postgres pool, set by InitPostgres.
var PgPool *pgxpool.Pool

// SQLDB is the global MySQL handle, set by InitMySQL.
var SQLDB *sql.DB

// InitMongo connects to MongoDB using DATABASE_URL.
func InitMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	utils.GetLogger().Info("Connected to MongoDB successfully")
	return nil
}

// InitPostgres opens a pgx pool using DATABASE_URL.
func InitPostgres(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(config.AppConfig.DatabaseURL)
	if err != nil {
		return fmt.Errorf("invalid postgres url: %w", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	PgPool = pool
	utils.GetLogger().Info("Connected to Postgres successfully")
	return nil
}

// InitMySQL opens a MySQL handle using DATABASE_URL as the DSN.
func InitMySQL(ctx context.Context) error {
	db, err := sql.Open("mysql", config.AppConfig.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}
	SQLDB = db
	utils.GetLogger().Info("Connected to MySQL successfully")
	return nil
}

// Ping checks whichever database handles are open.
func Ping(ctx context.Context) error {
	if MongoClient != nil {
		if err := MongoClient.Ping(ctx, nil); err != nil {
			return err
		}
	}
	if PgPool != nil {
		if err := PgPool.Ping(ctx); err != nil {
			return err
		}
	}
	if SQLDB != nil {
		if err := SQLDB.PingContext(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every open database handle.
func Close(ctx context.Context) {
	logger := utils.GetLogger()
	if MongoClient != nil {
		if err := MongoClient.Disconnect(ctx); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
		MongoClient = nil
	}
	if PgPool != nil {
		PgPool.Close()
		PgPool = nil
	}
	if SQLDB != nil {
		if err := SQLDB.Close(); err != nil {
			logger.Error("Error closing MySQL", zap.Error(err))
		}
		SQLDB = nil
	}
}
