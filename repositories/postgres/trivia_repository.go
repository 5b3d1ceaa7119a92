package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// CategoryRepository implements the repositories.CategoryRepository interface
type CategoryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB, logger *zap.Logger) repositories.CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// ListAll retrieves every category ordered by id
func (r *CategoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Type); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category := &models.Category{}
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, `SELECT id, type FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Type)
	if err != nil {
		return nil, translateError("get category", err)
	}
	return category, nil
}

// Create inserts a category and sets its ID
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, `INSERT INTO categories (type) VALUES ($1) RETURNING id`, category.Type).
		Scan(&category.ID)
	if err != nil {
		return translateError("create category", err)
	}

	r.logger.Debug("category created", zap.Int64("id", category.ID))
	return nil
}

// Delete deletes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return translateError("delete category", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("category deleted", zap.Int64("id", id))
	return nil
}

// QuestionRepository implements the repositories.QuestionRepository interface
type QuestionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *DB, logger *zap.Logger) repositories.QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
	}
}

const questionColumns = `id, question, answer, category_id, difficulty`

// List retrieves questions ordered by id, optionally within one category
func (r *QuestionRepository) List(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE ($1::bigint = 0 OR category_id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return scanQuestions(rows)
}

// Count returns the number of questions, optionally within one category
func (r *QuestionRepository) Count(ctx context.Context, categoryID int64) (int, error) {
	var count int
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions WHERE ($1::bigint = 0 OR category_id = $1)`, categoryID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Search returns questions whose text contains term, ignoring case
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]*models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE question ILIKE $1
		ORDER BY id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, containsPattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	return scanQuestions(rows)
}

// Random picks one question outside exclude, optionally within one category
func (r *QuestionRepository) Random(ctx context.Context, categoryID int64, exclude []int64) (*models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE ($1::bigint = 0 OR category_id = $1)
		  AND NOT (id = ANY($2::bigint[]))
		ORDER BY random()
		LIMIT 1
	`
	if exclude == nil {
		// a NULL array would filter out every row
		exclude = []int64{}
	}

	question := &models.Question{}
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, categoryID, pq.Array(exclude)).Scan(
		&question.ID, &question.Question, &question.Answer, &question.CategoryID, &question.Difficulty,
	)
	if err != nil {
		return nil, translateError("pick question", err)
	}
	return question, nil
}

// Create inserts a question and sets its ID
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	query := `
		INSERT INTO questions (question, answer, category_id, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		question.Question, question.Answer, question.CategoryID, question.Difficulty,
	).Scan(&question.ID)
	if err != nil {
		return translateError("create question", err)
	}

	r.logger.Debug("question created", zap.Int64("id", question.ID))
	return nil
}

// Delete deletes a question
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return translateError("delete question", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("question deleted", zap.Int64("id", id))
	return nil
}

func scanQuestions(rows *sql.Rows) ([]*models.Question, error) {
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.CategoryID, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
