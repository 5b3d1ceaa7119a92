package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateCategoryRequest is the body of POST /categories
type CreateCategoryRequest struct {
	Type string `json:"type" validate:"required,max=60"`
}

// CreateQuestionRequest is the body of POST /questions
type CreateQuestionRequest struct {
	Question   string `json:"question" validate:"required,max=500"`
	Answer     string `json:"answer" validate:"required,max=200"`
	Category   int64  `json:"category" validate:"required,gte=1"`
	Difficulty int    `json:"difficulty" validate:"required,gte=1,lte=5"`
}

// SearchQuestionsRequest is the body of POST /questions/search
type SearchQuestionsRequest struct {
	SearchTerm string `json:"searchTerm" validate:"required,max=200"`
}

// QuizRequest is the body of POST /quizzes. A quiz_category id of 0 plays every category.
type QuizRequest struct {
	PreviousQuestions []int64 `json:"previous_questions" validate:"max=1000"`
	QuizCategory      struct {
		ID   int64  `json:"id" validate:"gte=0"`
		Type string `json:"type"`
	} `json:"quiz_category"`
}

// TriviaHandler serves the /categories, /questions and /quizzes resources
type TriviaHandler struct {
	categories repositories.CategoryRepository
	questions  repositories.QuestionRepository
	pageSize   int
	logger     *zap.Logger
}

// NewTriviaHandler creates a new TriviaHandler
func NewTriviaHandler(categories repositories.CategoryRepository, questions repositories.QuestionRepository, pageSize int, logger *zap.Logger) *TriviaHandler {
	return &TriviaHandler{
		categories: categories,
		questions:  questions,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// Categories handles GET /categories
func (h *TriviaHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListAll(r.Context())
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	if len(categories) == 0 {
		_ = utils.WriteNotFound(w, "no categories found")
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"categories":       categories,
		"total_categories": len(categories),
	})
}

// CreateCategory handles POST /categories
func (h *TriviaHandler) CreateCategory(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateCategoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	category := models.NewCategory(req.Type)
	if err := h.categories.Create(r.Context(), category); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("category created",
		zap.Int64("id", category.ID),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"created": category.ID, "category": category})
}

// DeleteCategory handles DELETE /categories/{id}. Categories that still hold questions are kept.
func (h *TriviaHandler) DeleteCategory(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrReferenced) {
			_ = utils.WriteUnprocessable(w, "category still has questions")
			return
		}
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("category deleted",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"deleted": id})
}

// Questions handles GET /questions?page=N
func (h *TriviaHandler) Questions(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	ctx := r.Context()
	total, err := h.questions.Count(ctx, 0)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	questions, err := h.questions.List(ctx, 0, h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	if len(questions) == 0 {
		_ = utils.WriteNotFound(w, "no questions found")
		return
	}

	categories, err := h.categories.ListAll(ctx)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"questions":        questions,
		"total_questions":  total,
		"categories":       categories,
		"current_category": nil,
		"page":             page,
	})
}

// CategoryQuestions handles GET /categories/{id}/questions?page=N
func (h *TriviaHandler) CategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}
	page, err := pageParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	ctx := r.Context()
	category, err := h.categories.GetByID(ctx, id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	total, err := h.questions.Count(ctx, id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	questions, err := h.questions.List(ctx, id, h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	if len(questions) == 0 && page > 1 {
		_ = utils.WriteNotFound(w, "no questions found")
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"questions":        nonNil(questions),
		"total_questions":  total,
		"current_category": category.Type,
		"page":             page,
	})
}

// SearchQuestions handles POST /questions/search
func (h *TriviaHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchQuestionsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	questions, err := h.questions.Search(r.Context(), req.SearchTerm)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"questions":        nonNil(questions),
		"total_questions":  len(questions),
		"current_category": nil,
	})
}

// CreateQuestion handles POST /questions
func (h *TriviaHandler) CreateQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateQuestionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	ctx := r.Context()
	if _, err := h.categories.GetByID(ctx, req.Category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteUnprocessable(w, "category does not exist")
			return
		}
		HandleRepositoryError(w, err, h.logger)
		return
	}

	question := models.NewQuestion(req.Question, req.Answer, req.Category, req.Difficulty)
	if err := h.questions.Create(ctx, question); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("question created",
		zap.Int64("id", question.ID),
		zap.Int64("category", question.CategoryID),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"created": question.ID, "question": question})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *TriviaHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.questions.Delete(r.Context(), id); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("question deleted",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"deleted": id})
}

// Quiz handles POST /quizzes. The response question is null once every
// question in the category has been played.
func (h *TriviaHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	ctx := r.Context()
	categoryID := req.QuizCategory.ID
	if categoryID != 0 {
		if _, err := h.categories.GetByID(ctx, categoryID); err != nil {
			HandleRepositoryError(w, err, h.logger)
			return
		}
	}

	question, err := h.questions.Random(ctx, categoryID, req.PreviousQuestions)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		_ = utils.WriteOK(w, map[string]interface{}{"question": nil})
	case err != nil:
		HandleRepositoryError(w, err, h.logger)
	default:
		_ = utils.WriteOK(w, map[string]interface{}{"question": question})
	}
}

// nonNil keeps empty result sets encoding as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
