package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// SQLSTATE codes PostgreSQL reports for constraint violations
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return Wrap(db, logger), nil
}

// Wrap adopts an already opened pool
func Wrap(db *sql.DB, logger *zap.Logger) *DB {
	return &DB{
		DB:     db,
		logger: logger,
	}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// translateError maps driver errors onto the repositories sentinels
func translateError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, repositories.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, repositories.ErrReferenced)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// expectAffected returns ErrNotFound when a write touched no rows
func expectAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term as a literal substring
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
