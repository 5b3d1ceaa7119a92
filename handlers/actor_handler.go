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

// CreateActorRequest is the body of POST /actors
type CreateActorRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Gender string `json:"gender" validate:"required,max=20"`
	Age    int    `json:"age" validate:"required,gte=1,lte=150"`
}

// UpdateActorRequest is the body of PATCH /actors/{id}; absent fields are left unchanged
type UpdateActorRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=120"`
	Gender *string `json:"gender" validate:"omitempty,min=1,max=20"`
	Age    *int    `json:"age" validate:"omitempty,gte=1,lte=150"`
}

func (req *UpdateActorRequest) empty() bool {
	return req.Name == nil && req.Gender == nil && req.Age == nil
}

func (req *UpdateActorRequest) apply(actor *models.Actor) {
	if req.Name != nil {
		actor.Name = *req.Name
	}
	if req.Gender != nil {
		actor.Gender = *req.Gender
	}
	if req.Age != nil {
		actor.Age = *req.Age
	}
}

// ActorHandler serves the /actors resource
type ActorHandler struct {
	actors   repositories.ActorRepository
	tx       repositories.TransactionManager
	pageSize int
	logger   *zap.Logger
}

// NewActorHandler creates a new ActorHandler
func NewActorHandler(actors repositories.ActorRepository, tx repositories.TransactionManager, pageSize int, logger *zap.Logger) *ActorHandler {
	return &ActorHandler{
		actors:   actors,
		tx:       tx,
		pageSize: pageSize,
		logger:   logger,
	}
}

// List handles GET /actors?page=N
func (h *ActorHandler) List(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	page, err := pageParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	ctx := r.Context()
	total, err := h.actors.Count(ctx)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	actors, err := h.actors.List(ctx, h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	if len(actors) == 0 {
		_ = utils.WriteNotFound(w, "no actors found")
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"actors":       actors,
		"total_actors": total,
		"page":         page,
	})
}

// Get handles GET /actors/{id}
func (h *ActorHandler) Get(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	actor, err := h.actors.GetByID(r.Context(), id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"actor": actor})
}

// Create handles POST /actors
func (h *ActorHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateActorRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	actor := models.NewActor(req.Name, req.Gender, req.Age)
	if err := h.actors.Create(r.Context(), actor); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("actor created",
		zap.Int64("id", actor.ID),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"actor": actor})
}

// Update handles PATCH /actors/{id}
func (h *ActorHandler) Update(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req UpdateActorRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if req.empty() {
		_ = utils.WriteBadRequest(w, "no fields to update", nil)
		return
	}

	var actor *models.Actor
	err := h.tx.InTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		if actor, err = h.actors.GetForUpdate(ctx, id); err != nil {
			return err
		}
		req.apply(actor)
		return h.actors.Update(ctx, actor)
	})
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("actor updated",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"actor": actor})
}

// Delete handles DELETE /actors/{id}
func (h *ActorHandler) Delete(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.actors.Delete(r.Context(), id); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("actor deleted",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"delete": id})
}
