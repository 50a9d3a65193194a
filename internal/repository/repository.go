package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forum/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"go.uber.org/zap"
)

// executor is the subset of *dbpg.DB the repository uses.
type executor interface {
	ExecWithRetry(ctx context.Context, strategy retry.Strategy, query string, args ...interface{}) (sql.Result, error)
	QueryWithRetry(ctx context.Context, strategy retry.Strategy, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowWithRetry(ctx context.Context, strategy retry.Strategy, query string, args ...interface{}) (*sql.Row, error)
}

type Repository struct {
	db  executor
	log *zap.Logger
}

var (
	retryStrategy = retry.Strategy{
		Attempts: 5,
		Delay:    time.Millisecond,
		Backoff:  2,
	}
)

func NewRepository(masterDSN string, slaveDSNs []string, log *zap.Logger) (*Repository, error) {
	opts := dbpg.Options{
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, &opts)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Starting database migrations")

	if err := runMigrations(masterDSN); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	log.Info("Successfully migrated database")

	return newRepository(db, log), nil
}

func newRepository(db executor, log *zap.Logger) *Repository {
	return &Repository{db: db, log: log.Named("repository")}
}

// scanOne runs a single-row query. A missing row is reported as
// models.ErrNotFound.
func (r *Repository) scanOne(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	row, err := r.db.QueryRowWithRetry(ctx, retryStrategy, query, args...)
	if err != nil {
		return err
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return err
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func runMigrations(connStr string) error {
	migratePath := os.Getenv("MIGRATE_PATH")
	if migratePath == "" {
		migratePath = "./migrations"
	}
	absPath, err := filepath.Abs(migratePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	absPath = filepath.ToSlash(absPath)
	migrateUrl := fmt.Sprintf("file://%s", absPath)
	m, err := migrate.New(migrateUrl, connStr)
	if err != nil {
		return fmt.Errorf("start migrations error %w", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration up error: %w", err)
	}
	return nil
}
