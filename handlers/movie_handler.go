package handlers

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateMovieRequest is the body of POST /movies
type CreateMovieRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
}

// UpdateMovieRequest is the body of PATCH /movies/{id}
type UpdateMovieRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	ReleaseDate *string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
}

// MovieHandler serves the /movies resource
type MovieHandler struct {
	movies   repositories.MovieRepository
	tx       repositories.TransactionManager
	pageSize int
	logger   *zap.Logger
}

// NewMovieHandler creates a new MovieHandler
func NewMovieHandler(movies repositories.MovieRepository, tx repositories.TransactionManager, pageSize int, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		movies:   movies,
		tx:       tx,
		pageSize: pageSize,
		logger:   logger,
	}
}

// List handles GET /movies?page=N
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	page, err := pageParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	ctx := r.Context()
	total, err := h.movies.Count(ctx)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	movies, err := h.movies.List(ctx, h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	if len(movies) == 0 {
		_ = utils.WriteNotFound(w, "no movies found")
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"movies":       movies,
		"total_movies": total,
		"page":         page,
	})
}

// Get handles GET /movies/{id}
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	movie, err := h.movies.GetByID(r.Context(), id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"movie": movie})
}

// Create handles POST /movies
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateMovieRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	// already checked by the datetime tag
	releaseDate, _ := models.ParseDate(req.ReleaseDate)

	movie := models.NewMovie(req.Title, releaseDate)
	if err := h.movies.Create(r.Context(), movie); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("movie created",
		zap.Int64("id", movie.ID),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"movie": movie})
}

// Update handles PATCH /movies/{id}
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req UpdateMovieRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if req.Title == nil && req.ReleaseDate == nil {
		_ = utils.WriteBadRequest(w, "no fields to update", nil)
		return
	}

	var movie *models.Movie
	err := h.tx.InTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		if movie, err = h.movies.GetForUpdate(ctx, id); err != nil {
			return err
		}
		if req.Title != nil {
			movie.Title = *req.Title
		}
		if req.ReleaseDate != nil {
			movie.ReleaseDate, _ = models.ParseDate(*req.ReleaseDate)
		}
		return h.movies.Update(ctx, movie)
	})
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("movie updated",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"movie": movie})
}

// Delete handles DELETE /movies/{id}
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.movies.Delete(r.Context(), id); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("movie deleted",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"delete": id})
}
