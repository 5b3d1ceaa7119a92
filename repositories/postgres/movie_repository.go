package postgres

import (
	"context"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// MovieRepository implements the repositories.MovieRepository interface
type MovieRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *DB, logger *zap.Logger) repositories.MovieRepository {
	return &MovieRepository{
		db:     db,
		logger: logger,
	}
}

// List retrieves movies ordered by id
func (r *MovieRepository) List(ctx context.Context, limit, offset int) ([]*models.Movie, error) {
	query := `
		SELECT id, title, release_date
		FROM movies
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*models.Movie, 0, limit)
	for rows.Next() {
		movie := &models.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.ReleaseDate); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	return movies, nil
}

// Count returns the total number of movies
func (r *MovieRepository) Count(ctx context.Context) (int, error) {
	var count int
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// GetByID retrieves a movie by ID
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	return r.get(ctx, `SELECT id, title, release_date FROM movies WHERE id = $1`, id)
}

// GetForUpdate retrieves a movie and locks its row
func (r *MovieRepository) GetForUpdate(ctx context.Context, id int64) (*models.Movie, error) {
	return r.get(ctx, `SELECT id, title, release_date FROM movies WHERE id = $1 FOR UPDATE`, id)
}

func (r *MovieRepository) get(ctx context.Context, query string, id int64) (*models.Movie, error) {
	movie := &models.Movie{}
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, id).Scan(&movie.ID, &movie.Title, &movie.ReleaseDate); err != nil {
		return nil, translateError("get movie", err)
	}
	return movie, nil
}

// Create inserts a movie and sets its ID
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (title, release_date)
		VALUES ($1, $2)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, movie.Title, movie.ReleaseDate).Scan(&movie.ID); err != nil {
		return translateError("create movie", err)
	}

	r.logger.Debug("movie created", zap.Int64("id", movie.ID))
	return nil
}

// Update updates a movie
func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, release_date = $2
		WHERE id = $3
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, movie.Title, movie.ReleaseDate, movie.ID)
	if err != nil {
		return translateError("update movie", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("movie updated", zap.Int64("id", movie.ID))
	return nil
}

// Delete deletes a movie
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return translateError("delete movie", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("movie deleted", zap.Int64("id", id))
	return nil
}
