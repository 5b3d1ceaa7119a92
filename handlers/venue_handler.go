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

// VenueRequest is the body of POST /venues
type VenueRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	City               string   `json:"city" validate:"required,max=120"`
	State              string   `json:"state" validate:"required,len=2"`
	Address            string   `json:"address" validate:"required,max=120"`
	Phone              string   `json:"phone" validate:"max=120"`
	Genres             []string `json:"genres" validate:"required,min=1,dive,required,max=60"`
	ImageLink          string   `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `json:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `json:"seeking_talent"`
	SeekingDescription string   `json:"seeking_description" validate:"max=500"`
}

func (req *VenueRequest) venue() *models.Venue {
	return &models.Venue{
		Name:               req.Name,
		City:               req.City,
		State:              req.State,
		Address:            req.Address,
		Phone:              req.Phone,
		Genres:             req.Genres,
		ImageLink:          req.ImageLink,
		FacebookLink:       req.FacebookLink,
		SeekingTalent:      req.SeekingTalent,
		SeekingDescription: req.SeekingDescription,
	}
}

// UpdateVenueRequest is the body of PATCH /venues/{id}; absent fields are left unchanged
type UpdateVenueRequest struct {
	Name               *string  `json:"name" validate:"omitempty,min=1,max=120"`
	City               *string  `json:"city" validate:"omitempty,min=1,max=120"`
	State              *string  `json:"state" validate:"omitempty,len=2"`
	Address            *string  `json:"address" validate:"omitempty,min=1,max=120"`
	Phone              *string  `json:"phone" validate:"omitempty,max=120"`
	Genres             []string `json:"genres" validate:"omitempty,min=1,dive,required,max=60"`
	ImageLink          *string  `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       *string  `json:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingTalent      *bool    `json:"seeking_talent"`
	SeekingDescription *string  `json:"seeking_description" validate:"omitempty,max=500"`
}

func (req *UpdateVenueRequest) empty() bool {
	return req.Name == nil && req.City == nil && req.State == nil && req.Address == nil &&
		req.Phone == nil && req.Genres == nil && req.ImageLink == nil && req.FacebookLink == nil &&
		req.SeekingTalent == nil && req.SeekingDescription == nil
}

func (req *UpdateVenueRequest) apply(v *models.Venue) {
	setString(&v.Name, req.Name)
	setString(&v.City, req.City)
	setString(&v.State, req.State)
	setString(&v.Address, req.Address)
	setString(&v.Phone, req.Phone)
	setString(&v.ImageLink, req.ImageLink)
	setString(&v.FacebookLink, req.FacebookLink)
	setString(&v.SeekingDescription, req.SeekingDescription)
	if req.Genres != nil {
		v.Genres = req.Genres
	}
	if req.SeekingTalent != nil {
		v.SeekingTalent = *req.SeekingTalent
	}
}

// SearchListingsRequest is the body of POST /venues/search and POST /artists/search
type SearchListingsRequest struct {
	SearchTerm string `json:"search_term" validate:"required,max=120"`
}

// area groups the venues of one city
type area struct {
	City   string                   `json:"city"`
	State  string                   `json:"state"`
	Venues []*models.ListingSummary `json:"venues"`
}

// showSchedule splits the shows of a venue or artist around the current time
type showSchedule struct {
	PastShows          []*models.ShowListing `json:"past_shows"`
	UpcomingShows      []*models.ShowListing `json:"upcoming_shows"`
	PastShowsCount     int                   `json:"past_shows_count"`
	UpcomingShowsCount int                   `json:"upcoming_shows_count"`
}

func newShowSchedule(shows []*models.ShowListing, now time.Time) showSchedule {
	past, upcoming := models.SplitShows(shows, now)
	return showSchedule{
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}
}

type venueDetail struct {
	*models.Venue
	showSchedule
}

// VenueHandler serves the /venues resource
type VenueHandler struct {
	venues repositories.VenueRepository
	shows  repositories.ShowRepository
	tx     repositories.TransactionManager
	now    func() time.Time
	logger *zap.Logger
}

// NewVenueHandler creates a new VenueHandler
func NewVenueHandler(venues repositories.VenueRepository, shows repositories.ShowRepository, tx repositories.TransactionManager, logger *zap.Logger) *VenueHandler {
	return &VenueHandler{
		venues: venues,
		shows:  shows,
		tx:     tx,
		now:    time.Now,
		logger: logger,
	}
}

// List handles GET /venues, grouping venues by city
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	venues, err := h.venues.ListSummaries(r.Context())
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	areas := make([]*area, 0)
	for _, venue := range venues {
		if n := len(areas); n == 0 || areas[n-1].City != venue.City || areas[n-1].State != venue.State {
			areas = append(areas, &area{City: venue.City, State: venue.State})
		}
		current := areas[len(areas)-1]
		current.Venues = append(current.Venues, venue)
	}

	_ = utils.WriteOK(w, map[string]interface{}{"areas": areas})
}

// Search handles POST /venues/search
func (h *VenueHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchListingsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	venues, err := h.venues.Search(r.Context(), req.SearchTerm)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"count":  len(venues),
		"venues": nonNil(venues),
	})
}

// Get handles GET /venues/{id}
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	ctx := r.Context()
	venue, err := h.venues.GetByID(ctx, id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	shows, err := h.shows.ListByVenue(ctx, id)
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"venue": venueDetail{Venue: venue, showSchedule: newShowSchedule(shows, h.now())},
	})
}

// Create handles POST /venues
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req VenueRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	venue := req.venue()
	if err := h.venues.Create(r.Context(), venue); err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("venue created",
		zap.Int64("id", venue.ID),
		zap.String("name", venue.Name),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"venue": venue})
}

// Update handles PATCH /venues/{id}
func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req UpdateVenueRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if req.empty() {
		_ = utils.WriteBadRequest(w, "no fields to update", nil)
		return
	}

	var venue *models.Venue
	err := h.tx.InTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		if venue, err = h.venues.GetForUpdate(ctx, id); err != nil {
			return err
		}
		req.apply(venue)
		return h.venues.Update(ctx, venue)
	})
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("venue updated",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"venue": venue})
}

// Delete handles DELETE /venues/{id}, removing the venue's shows with it
func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := idParam(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	err := h.tx.InTransaction(r.Context(), func(ctx context.Context) error {
		if err := h.shows.DeleteByVenue(ctx, id); err != nil {
			return err
		}
		return h.venues.Delete(ctx, id)
	})
	if err != nil {
		HandleRepositoryError(w, err, h.logger)
		return
	}

	h.logger.Info("venue deleted",
		zap.Int64("id", id),
		zap.String("sub", subject(claims)))

	_ = utils.WriteOK(w, map[string]interface{}{"delete": id})
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
