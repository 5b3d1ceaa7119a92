package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateShowRequest is the body of POST /shows. start_time is RFC 3339.
type CreateShowRequest struct {
	VenueID   int64     `json:"venue_id" validate:"required,gte=1"`
	ArtistID  int64     `json:"artist_id" validate:"required,gte=1"`
	StartTime time.Time `json:"start_time" validate:"required"`
}

// ShowHandler serves the /shows resource
type ShowHandler struct {
	shows  repositories.ShowRepository
	logger *zap.Logger
}

// NewShowHandler creates a new ShowHandler
func NewShowHandler(shows repositories.ShowRepository, logger *zap.Logger) *ShowHandler {
	return &ShowHandler{
		shows:  shows,
		logger: logger,
	}
}

// List handles GET /shows
func (h *ShowHandler) List(w http.ResponseWriter, r *http.Request) {
	shows, err := h.shows.ListAll(r.Context())
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, map[string]interface{}{"shows": nonNil(shows)})
}

// Create handles POST /shows
func (h *ShowHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateShowRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	show := models.NewShow(req.VenueID, req.ArtistID, req.StartTime)
	if err := h.shows.Create(r.Context(), show); err != nil {
		if errors.Is(err, repositories.ErrReferenced) {
			_ = utils.WriteUnprocessable(w, "venue or artist does not exist")
			return
		}
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("show created",
		zap.Int64("venue_id", show.VenueID),
		zap.Int64("artist_id", show.ArtistID),
		zap.Time("start_time", show.StartTime),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"show": show})
}
