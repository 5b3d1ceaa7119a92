package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateDrinkRequest is the body of POST /drinks.
// recipe may be a single ingredient object or an array of them.
type CreateDrinkRequest struct {
	Title  string        `json:"title" validate:"required,max=80"`
	Recipe models.Recipe `json:"recipe" validate:"required,min=1,dive"`
}

// UpdateDrinkRequest is the body of PATCH /drinks/{id}
type UpdateDrinkRequest struct {
	Title  *string       `json:"title" validate:"omitempty,min=1,max=80"`
	Recipe models.Recipe `json:"recipe" validate:"omitempty,min=1,dive"`
}

// DrinkHandler serves the /drinks resource
type DrinkHandler struct {
	drinks repositories.DrinkRepository
	tx     repositories.TransactionManager
	logger *zap.Logger
}

// NewDrinkHandler creates a new DrinkHandler
func NewDrinkHandler(drinks repositories.DrinkRepository, tx repositories.TransactionManager, logger *zap.Logger) *DrinkHandler {
	return &DrinkHandler{
		drinks: drinks,
		tx:     tx,
		logger: logger,
	}
}

// List handles GET /drinks. Public; ingredient names are hidden.
func (h *DrinkHandler) List(w http.ResponseWriter, r *http.Request) {
	drinks, ok := h.listAll(w, r)
	if !ok {
		return
	}

	short := make([]models.ShortDrink, 0, len(drinks))
	for _, drink := range drinks {
		short = append(short, drink.Short())
	}
	_ = utils.WriteOK(w, map[string]interface{}{"drinks": short})
}

// Detail handles GET /drinks-detail
func (h *DrinkHandler) Detail(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	drinks, ok := h.listAll(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, map[string]interface{}{"drinks": drinks})
}

func (h *DrinkHandler) listAll(w http.ResponseWriter, r *http.Request) ([]*models.Drink, bool) {
	drinks, err := h.drinks.ListAll(r.Context())
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return nil, false
	}
	if len(drinks) == 0 {
		_ = utils.WriteNotFound(w, "no drinks found in database.")
		return nil, false
	}
	return drinks, true
}

// Create handles POST /drinks
func (h *DrinkHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateDrinkRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	drink := models.NewDrink(req.Title, req.Recipe)
	if err := h.drinks.Create(r.Context(), drink); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("drink created",
		zap.Int64("id", drink.ID),
		zap.String("title", drink.Title),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"drinks": []*models.Drink{drink}})
}

// Update handles PATCH /drinks/{id}
func (h *DrinkHandler) Update(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req UpdateDrinkRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if req.Title == nil && req.Recipe == nil {
		_ = utils.WriteBadRequest(w, "no fields to update", nil)
		return
	}
	if req.Recipe != nil && len(req.Recipe) == 0 {
		_ = utils.WriteBadRequest(w, "Validation failed", map[string]interface{}{"recipe": "recipe must contain at least one ingredient"})
		return
	}

	var drink *models.Drink
	err := h.tx.InTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		if drink, err = h.drinks.GetForUpdate(ctx, id); err != nil {
			return err
		}
		if req.Title != nil {
			drink.Title = *req.Title
		}
		if req.Recipe != nil {
			drink.Recipe = req.Recipe
		}
		return h.drinks.Update(ctx, drink)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("drink updated",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"drinks": []*models.Drink{drink}})
}

// Delete handles DELETE /drinks/{id}
func (h *DrinkHandler) Delete(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.drinks.Delete(r.Context(), id); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("drink deleted",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"delete": id})
}

func (h *DrinkHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, repositories.ErrConflict) {
		_ = utils.WriteUnprocessable(w, "a drink with this title already exists")
		return
	}
	HandleRepositoryError(w, err, h.logger)
}
