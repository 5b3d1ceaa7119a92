package postgres

import (
	"context"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// DrinkRepository implements the repositories.DrinkRepository interface
type DrinkRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDrinkRepository creates a new drink repository
func NewDrinkRepository(db *DB, logger *zap.Logger) repositories.DrinkRepository {
	return &DrinkRepository{
		db:     db,
		logger: logger,
	}
}

// ListAll retrieves every drink ordered by id
func (r *DrinkRepository) ListAll(ctx context.Context) ([]*models.Drink, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, `SELECT id, title, recipe FROM drinks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drinks: %w", err)
	}
	defer rows.Close()

	var drinks []*models.Drink
	for rows.Next() {
		drink := &models.Drink{}
		if err := rows.Scan(&drink.ID, &drink.Title, &drink.Recipe); err != nil {
			return nil, fmt.Errorf("failed to scan drink: %w", err)
		}
		drinks = append(drinks, drink)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drinks: %w", err)
	}

	return drinks, nil
}

// GetByID retrieves a drink by ID
func (r *DrinkRepository) GetByID(ctx context.Context, id int64) (*models.Drink, error) {
	return r.get(ctx, `SELECT id, title, recipe FROM drinks WHERE id = $1`, id)
}

// GetForUpdate retrieves a drink and locks its row
func (r *DrinkRepository) GetForUpdate(ctx context.Context, id int64) (*models.Drink, error) {
	return r.get(ctx, `SELECT id, title, recipe FROM drinks WHERE id = $1 FOR UPDATE`, id)
}

func (r *DrinkRepository) get(ctx context.Context, query string, id int64) (*models.Drink, error) {
	drink := &models.Drink{}
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, id).Scan(&drink.ID, &drink.Title, &drink.Recipe); err != nil {
		return nil, translateError("get drink", err)
	}
	return drink, nil
}

// Create inserts a drink and sets its ID
func (r *DrinkRepository) Create(ctx context.Context, drink *models.Drink) error {
	query := `
		INSERT INTO drinks (title, recipe)
		VALUES ($1, $2)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, drink.Title, drink.Recipe).Scan(&drink.ID); err != nil {
		return translateError("create drink", err)
	}

	r.logger.Debug("drink created", zap.Int64("id", drink.ID), zap.String("title", drink.Title))
	return nil
}

// Update updates a drink
func (r *DrinkRepository) Update(ctx context.Context, drink *models.Drink) error {
	query := `
		UPDATE drinks
		SET title = $1, recipe = $2
		WHERE id = $3
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, drink.Title, drink.Recipe, drink.ID)
	if err != nil {
		return translateError("update drink", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("drink updated", zap.Int64("id", drink.ID))
	return nil
}

// Delete deletes a drink
func (r *DrinkRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM drinks WHERE id = $1`, id)
	if err != nil {
		return translateError("delete drink", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("drink deleted", zap.Int64("id", id))
	return nil
}
