package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"quiz-bank/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers "pgx5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/oracle/*.sql
var migrationFiles embed.FS

// Direction selects which half of each migration runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies (or reverts) the schema for the given SQL driver.
// Postgres is versioned through golang-migrate's schema_migrations table.
// Oracle has no golang-migrate driver, so its files are executed in order and
// objects that already exist are skipped.
func RunMigrations(ctx context.Context, driver, dsn string, dir Direction) error {
	switch driver {
	case "postgres":
		return runPostgresMigrations(dsn, dir)
	case "oracle":
		db, err := sql.Open("oracle", dsn)
		if err != nil {
			return fmt.Errorf("could not open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("could not ping database: %w", err)
		}
		sub, err := fs.Sub(migrationFiles, "migrations/oracle")
		if err != nil {
			return err
		}
		return runSequentialMigrations(ctx, db, sub, dir)
	default:
		return fmt.Errorf("unsupported sql driver: %s", driver)
	}
}

func runPostgresMigrations(dsn string, dir Direction) error {
	src, err := iofs.New(migrationFiles, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}
	defer m.Close()

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction: %s", dir)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		logger.Get().Info("Migrations completed", zap.Uint("version", version), zap.Bool("dirty", dirty))
	} else {
		logger.Get().Info("Migrations completed", zap.String("direction", string(dir)))
	}
	return nil
}

// pgx5URL rewrites a postgres:// DSN to the scheme golang-migrate's pgx driver expects.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// Each file holds exactly one statement without a trailing semicolon.
func runSequentialMigrations(ctx context.Context, db *sql.DB, files fs.FS, dir Direction) error {
	suffix := "." + string(dir) + ".sql"
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := fs.ReadFile(files, path.Clean(name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		stmt := strings.TrimRight(strings.TrimSpace(string(content)), ";")
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if isAlreadyApplied(err, dir) {
				logger.Get().Info("Skipping applied migration", zap.String("file", name))
				continue
			}
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}
	return nil
}

// ORA-00955: name is already used by an existing object.
// ORA-00942 / ORA-01418: table or index does not exist.
func isAlreadyApplied(err error, dir Direction) bool {
	msg := err.Error()
	if dir == Up {
		return strings.Contains(msg, "ORA-00955")
	}
	return strings.Contains(msg, "ORA-00942") || strings.Contains(msg, "ORA-01418")
}
