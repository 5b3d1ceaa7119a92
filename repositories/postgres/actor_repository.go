package postgres

import (
	"context"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// ActorRepository implements the repositories.ActorRepository interface
type ActorRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewActorRepository creates a new actor repository
func NewActorRepository(db *DB, logger *zap.Logger) repositories.ActorRepository {
	return &ActorRepository{
		db:     db,
		logger: logger,
	}
}

// List retrieves actors ordered by id
func (r *ActorRepository) List(ctx context.Context, limit, offset int) ([]*models.Actor, error) {
	query := `
		SELECT id, name, gender, age
		FROM actors
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	actors := make([]*models.Actor, 0, limit)
	for rows.Next() {
		actor := &models.Actor{}
		if err := rows.Scan(&actor.ID, &actor.Name, &actor.Gender, &actor.Age); err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, actor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actors: %w", err)
	}

	return actors, nil
}

// Count returns the total number of actors
func (r *ActorRepository) Count(ctx context.Context) (int, error) {
	var count int
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM actors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count actors: %w", err)
	}
	return count, nil
}

// GetByID retrieves an actor by ID
func (r *ActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	return r.get(ctx, `SELECT id, name, gender, age FROM actors WHERE id = $1`, id)
}

// GetForUpdate retrieves an actor and locks its row
func (r *ActorRepository) GetForUpdate(ctx context.Context, id int64) (*models.Actor, error) {
	return r.get(ctx, `SELECT id, name, gender, age FROM actors WHERE id = $1 FOR UPDATE`, id)
}

func (r *ActorRepository) get(ctx context.Context, query string, id int64) (*models.Actor, error) {
	actor := &models.Actor{}
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, id).Scan(&actor.ID, &actor.Name, &actor.Gender, &actor.Age)
	if err != nil {
		return nil, translateError("get actor", err)
	}
	return actor, nil
}

// Create inserts an actor and sets its ID
func (r *ActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	query := `
		INSERT INTO actors (name, gender, age)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, actor.Name, actor.Gender, actor.Age).Scan(&actor.ID); err != nil {
		return translateError("create actor", err)
	}

	r.logger.Debug("actor created", zap.Int64("id", actor.ID))
	return nil
}

// Update updates an actor
func (r *ActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	query := `
		UPDATE actors
		SET name = $1, gender = $2, age = $3
		WHERE id = $4
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, actor.Name, actor.Gender, actor.Age, actor.ID)
	if err != nil {
		return translateError("update actor", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("actor updated", zap.Int64("id", actor.ID))
	return nil
}

// Delete deletes an actor
func (r *ActorRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return translateError("delete actor", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("actor deleted", zap.Int64("id", id))
	return nil
}
