package database

import (
	"context"
	"fmt"
	"time"

	"quiz-bank/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
)

func init() {
	// go-ora is not in sqlx's bind table; it takes :name placeholders.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// SQLDriverName maps a store.driver value to the registered database/sql driver.
func SQLDriverName(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "pgx", nil
	case "oracle":
		return "oracle", nil
	default:
		return "", fmt.Errorf("unsupported sql driver: %s", driver)
	}
}

// NewSQLXDB opens a pooled connection for the given store driver and pings it.
func NewSQLXDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	name, err := SQLDriverName(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Get().Info("Connected to SQL database", zap.String("driver", driver))
	return db, nil
}
