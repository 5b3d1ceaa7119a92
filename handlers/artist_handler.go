package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// ArtistRequest is the body of POST /artists
type ArtistRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	City               string   `json:"city" validate:"required,max=120"`
	State              string   `json:"state" validate:"required,len=2"`
	Phone              string   `json:"phone" validate:"max=120"`
	Genres             []string `json:"genres" validate:"required,min=1,dive,required,max=60"`
	ImageLink          string   `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `json:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `json:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description" validate:"max=500"`
}

// UpdateArtistRequest is the body of PATCH /artists/{id}; absent fields are left unchanged
type UpdateArtistRequest struct {
	Name               *string  `json:"name" validate:"omitempty,min=1,max=120"`
	City               *string  `json:"city" validate:"omitempty,min=1,max=120"`
	State              *string  `json:"state" validate:"omitempty,len=2"`
	Phone              *string  `json:"phone" validate:"omitempty,max=120"`
	Genres             []string `json:"genres" validate:"omitempty,min=1,dive,required,max=60"`
	ImageLink          *string  `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       *string  `json:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingVenue       *bool    `json:"seeking_venue"`
	SeekingDescription *string  `json:"seeking_description" validate:"omitempty,max=500"`
}

func (req *UpdateArtistRequest) empty() bool {
	return req.Name == nil && req.City == nil && req.State == nil && req.Phone == nil &&
		req.Genres == nil && req.ImageLink == nil && req.FacebookLink == nil &&
		req.SeekingVenue == nil && req.SeekingDescription == nil
}

func (req *UpdateArtistRequest) apply(a *models.Artist) {
	setString(&a.Name, req.Name)
	setString(&a.City, req.City)
	setString(&a.State, req.State)
	setString(&a.Phone, req.Phone)
	setString(&a.ImageLink, req.ImageLink)
	setString(&a.FacebookLink, req.FacebookLink)
	setString(&a.SeekingDescription, req.SeekingDescription)
	if req.Genres != nil {
		a.Genres = req.Genres
	}
	if req.SeekingVenue != nil {
		a.SeekingVenue = *req.SeekingVenue
	}
}

type artistDetail struct {
	*models.Artist
	showSchedule
}

// ArtistHandler serves the /artists resource
type ArtistHandler struct {
	artists repositories.ArtistRepository
	shows   repositories.ShowRepository
	tx      repositories.TransactionManager
	now     func() time.Time
	logger  *zap.Logger
}

// NewArtistHandler creates a new ArtistHandler
func NewArtistHandler(artists repositories.ArtistRepository, shows repositories.ShowRepository, tx repositories.TransactionManager, logger *zap.Logger) *ArtistHandler {
	return &ArtistHandler{
		artists: artists,
		shows:   shows,
		tx:      tx,
		now:     time.Now,
		logger:  logger,
	}
}

// List handles GET /artists
func (h *ArtistHandler) List(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.ListSummaries(r.Context())
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, map[string]interface{}{"artists": nonNil(artists)})
}

// Search handles POST /artists/search
func (h *ArtistHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchListingsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	artists, err := h.artists.Search(r.Context(), req.SearchTerm)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"count":   len(artists),
		"artists": nonNil(artists),
	})
}

// Get handles GET /artists/{id}
func (h *ArtistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	ctx := r.Context()
	artist, err := h.artists.GetByID(ctx, id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	shows, err := h.shows.ListByArtist(ctx, id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"artist": artistDetail{Artist: artist, showSchedule: newShowSchedule(shows, h.now())},
	})
}

// Create handles POST /artists
func (h *ArtistHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req ArtistRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	artist := &models.Artist{
		Name:               req.Name,
		City:               req.City,
		State:              req.State,
		Phone:              req.Phone,
		Genres:             req.Genres,
		ImageLink:          req.ImageLink,
		FacebookLink:       req.FacebookLink,
		SeekingVenue:       req.SeekingVenue,
		SeekingDescription: req.SeekingDescription,
	}
	if err := h.artists.Create(r.Context(), artist); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("artist created",
		zap.Int64("id", artist.ID),
		zap.String("name", artist.Name),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"artist": artist})
}

// Update handles PATCH /artists/{id}
func (h *ArtistHandler) Update(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req UpdateArtistRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if req.empty() {
		_ = utils.WriteBadRequest(w, "no fields to update", nil)
		return
	}

	var artist *models.Artist
	err := h.tx.InTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		if artist, err = h.artists.GetForUpdate(ctx, id); err != nil {
			return err
		}
		req.apply(artist)
		return h.artists.Update(ctx, artist)
	})
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("artist updated",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"artist": artist})
}
