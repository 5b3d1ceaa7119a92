package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// transactionContextKey is the context key for storing transactions
type transactionContextKey struct{}

// TransactionManager implements the repositories.TransactionManager interface
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// InTransaction executes fn within a transaction.
// Repositories called with the context passed to fn run inside it.
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(transactionContextKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tm.logger.Debug("transaction started")

	if err := fn(context.WithValue(ctx, transactionContextKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			tm.logger.Error("failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("original_error", err),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tm.logger.Debug("transaction committed")
	return nil
}

// Executor is an interface that can execute queries (both *sql.DB and *sql.Tx)
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none
func GetExecutor(ctx context.Context, db *DB) Executor {
	if tx, ok := ctx.Value(transactionContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}
