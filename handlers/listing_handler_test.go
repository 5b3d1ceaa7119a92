package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

var showtime = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

func newVenueHandler() (*VenueHandler, *MockVenueRepository, *MockShowRepository, *inlineTx) {
	venues := new(MockVenueRepository)
	shows := new(MockShowRepository)
	tx := &inlineTx{}
	h := NewVenueHandler(venues, shows, tx, zap.NewNop())
	h.now = func() time.Time { return showtime }
	return h, venues, shows, tx
}

func newArtistHandler() (*ArtistHandler, *MockArtistRepository, *MockShowRepository) {
	artists := new(MockArtistRepository)
	shows := new(MockShowRepository)
	h := NewArtistHandler(artists, shows, &inlineTx{}, zap.NewNop())
	h.now = func() time.Time { return showtime }
	return h, artists, shows
}

func TestVenueHandler_List(t *testing.T) {
	h, venues, _, _ := newVenueHandler()
	venues.On("ListSummaries", mock.Anything).Return([]*models.ListingSummary{
		{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA", NumUpcomingShows: 1},
		{ID: 3, Name: "Park Square Live", City: "San Francisco", State: "CA"},
		{ID: 2, Name: "The Dueling Pianos Bar", City: "New York", State: "NY"},
	}, nil)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/venues", "", ""))

	require.Equal(t, http.StatusOK, w.Code)
	areas := decodeResponse(t, w)["areas"].([]interface{})
	require.Len(t, areas, 2)
	first := areas[0].(map[string]interface{})
	assert.Equal(t, "San Francisco", first["city"])
	assert.Len(t, first["venues"], 2)
}

func TestVenueHandler_Search(t *testing.T) {
	h, venues, _, _ := newVenueHandler()
	venues.On("Search", mock.Anything, "Music").
		Return([]*models.ListingSummary{{ID: 1, Name: "The Musical Hop"}}, nil)

	w := httptest.NewRecorder()
	h.Search(w, newRequest(http.MethodPost, "/venues/search", `{"search_term":"Music"}`, ""))

	assert.JSONEq(t,
		`{"success":true,"count":1,"venues":[{"id":1,"name":"The Musical Hop","num_upcoming_shows":0}]}`,
		w.Body.String())
}

func TestVenueHandler_Get(t *testing.T) {
	t.Run("splits shows around now", func(t *testing.T) {
		h, venues, shows, _ := newVenueHandler()
		venues.On("GetByID", mock.Anything, int64(1)).
			Return(&models.Venue{ID: 1, Name: "The Musical Hop", Genres: []string{"Jazz"}}, nil)
		shows.On("ListByVenue", mock.Anything, int64(1)).Return([]*models.ShowListing{
			{VenueID: 1, ArtistID: 4, ArtistName: "Guns N Petals", StartTime: showtime.Add(-24 * time.Hour)},
			{VenueID: 1, ArtistID: 5, ArtistName: "Matt Quevedo", StartTime: showtime.Add(24 * time.Hour)},
			{VenueID: 1, ArtistID: 6, ArtistName: "The Wild Sax Band", StartTime: showtime.Add(48 * time.Hour)},
		}, nil)

		w := httptest.NewRecorder()
		h.Get(w, newRequest(http.MethodGet, "/venues/1", "", "1"))

		require.Equal(t, http.StatusOK, w.Code)
		venue := decodeResponse(t, w)["venue"].(map[string]interface{})
		assert.Equal(t, "The Musical Hop", venue["name"])
		assert.Equal(t, float64(1), venue["past_shows_count"])
		assert.Equal(t, float64(2), venue["upcoming_shows_count"])
		assert.Len(t, venue["upcoming_shows"], 2)
	})

	t.Run("missing venue", func(t *testing.T) {
		h, venues, shows, _ := newVenueHandler()
		venues.On("GetByID", mock.Anything, int64(8)).Return(nil, repositories.ErrNotFound)

		w := httptest.NewRecorder()
		h.Get(w, newRequest(http.MethodGet, "/venues/8", "", "8"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		shows.AssertNotCalled(t, "ListByVenue", mock.Anything, mock.Anything)
	})
}

func TestVenueHandler_Create(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		h, venues, _, _ := newVenueHandler()
		venues.On("Create", mock.Anything, mock.MatchedBy(func(v *models.Venue) bool {
			return v.Name == "The Musical Hop" && len(v.Genres) == 2
		})).Return(nil)

		body := `{"name":"The Musical Hop","city":"San Francisco","state":"CA","address":"1015 Folsom Street",
			"genres":["Jazz","Reggae"],"image_link":"https://images.example.com/hop.jpg"}`
		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/venues", body, ""), director)

		assert.Equal(t, http.StatusOK, w.Code)
		venues.AssertExpectations(t)
	})

	t.Run("invalid fields", func(t *testing.T) {
		h, venues, _, _ := newVenueHandler()

		body := `{"name":"The Musical Hop","city":"San Francisco","state":"California","address":"x","genres":[],"image_link":"not a url"}`
		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/venues", body, ""), director)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		details := decodeResponse(t, w)["details"]
		assert.Contains(t, details, "state")
		assert.Contains(t, details, "genres")
		assert.Contains(t, details, "image_link")
		venues.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestVenueHandler_Update(t *testing.T) {
	h, venues, _, tx := newVenueHandler()
	venues.On("GetForUpdate", mock.Anything, int64(1)).
		Return(&models.Venue{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA"}, nil)
	venues.On("Update", mock.Anything, mock.MatchedBy(func(v *models.Venue) bool {
		return v.SeekingTalent && v.City == "San Francisco"
	})).Return(nil)

	w := httptest.NewRecorder()
	h.Update(w, newRequest(http.MethodPatch, "/venues/1", `{"seeking_talent":true}`, "1"), director)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, tx.calls)
	venues.AssertExpectations(t)
}

func TestVenueHandler_Delete(t *testing.T) {
	t.Run("removes shows first", func(t *testing.T) {
		h, venues, shows, tx := newVenueHandler()
		var order []string
		shows.On("DeleteByVenue", mock.Anything, int64(1)).
			Run(func(mock.Arguments) { order = append(order, "shows") }).Return(nil)
		venues.On("Delete", mock.Anything, int64(1)).
			Run(func(mock.Arguments) { order = append(order, "venue") }).Return(nil)

		w := httptest.NewRecorder()
		h.Delete(w, newRequest(http.MethodDelete, "/venues/1", "", "1"), director)

		assert.JSONEq(t, `{"success":true,"delete":1}`, w.Body.String())
		assert.Equal(t, []string{"shows", "venue"}, order)
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("missing venue", func(t *testing.T) {
		h, venues, shows, _ := newVenueHandler()
		shows.On("DeleteByVenue", mock.Anything, int64(1)).Return(nil)
		venues.On("Delete", mock.Anything, int64(1)).Return(repositories.ErrNotFound)

		w := httptest.NewRecorder()
		h.Delete(w, newRequest(http.MethodDelete, "/venues/1", "", "1"), director)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestArtistHandler(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h, artists, _ := newArtistHandler()
		artists.On("ListSummaries", mock.Anything).Return(nil, nil)

		w := httptest.NewRecorder()
		h.List(w, newRequest(http.MethodGet, "/artists", "", ""))

		assert.JSONEq(t, `{"success":true,"artists":[]}`, w.Body.String())
	})

	t.Run("search", func(t *testing.T) {
		h, artists, _ := newArtistHandler()
		artists.On("Search", mock.Anything, "band").
			Return([]*models.ListingSummary{{ID: 6, Name: "The Wild Sax Band"}}, nil)

		w := httptest.NewRecorder()
		h.Search(w, newRequest(http.MethodPost, "/artists/search", `{"search_term":"band"}`, ""))

		assert.Equal(t, float64(1), decodeResponse(t, w)["count"])
	})

	t.Run("detail", func(t *testing.T) {
		h, artists, shows := newArtistHandler()
		artists.On("GetByID", mock.Anything, int64(4)).Return(&models.Artist{ID: 4, Name: "Guns N Petals"}, nil)
		shows.On("ListByArtist", mock.Anything, int64(4)).Return([]*models.ShowListing{
			{VenueID: 1, VenueName: "The Musical Hop", ArtistID: 4, StartTime: showtime.Add(-time.Hour)},
		}, nil)

		w := httptest.NewRecorder()
		h.Get(w, newRequest(http.MethodGet, "/artists/4", "", "4"))

		require.Equal(t, http.StatusOK, w.Code)
		artist := decodeResponse(t, w)["artist"].(map[string]interface{})
		assert.Equal(t, float64(1), artist["past_shows_count"])
		assert.Equal(t, []interface{}{}, artist["upcoming_shows"])
	})

	t.Run("update without fields", func(t *testing.T) {
		h, artists, _ := newArtistHandler()

		w := httptest.NewRecorder()
		h.Update(w, newRequest(http.MethodPatch, "/artists/4", `{}`, "4"), director)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		artists.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("update", func(t *testing.T) {
		h, artists, _ := newArtistHandler()
		artists.On("GetForUpdate", mock.Anything, int64(4)).Return(&models.Artist{ID: 4, Name: "Guns N Petals"}, nil)
		artists.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Artist) bool {
			return a.Name == "Guns N Roses" && a.Genres[0] == "Rock n Roll"
		})).Return(nil)

		w := httptest.NewRecorder()
		h.Update(w, newRequest(http.MethodPatch, "/artists/4", `{"name":"Guns N Roses","genres":["Rock n Roll"]}`, "4"), director)

		assert.Equal(t, http.StatusOK, w.Code)
		artists.AssertExpectations(t)
	})

	t.Run("create", func(t *testing.T) {
		h, artists, _ := newArtistHandler()
		artists.On("Create", mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/artists",
			`{"name":"Matt Quevedo","city":"New York","state":"NY","genres":["Jazz"]}`, ""), director)

		assert.Equal(t, http.StatusOK, w.Code)
		artists.AssertExpectations(t)
	})
}

func TestShowHandler(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		shows := new(MockShowRepository)
		h := NewShowHandler(shows, zap.NewNop())
		shows.On("ListAll", mock.Anything).Return([]*models.ShowListing{{VenueID: 1, ArtistID: 4, StartTime: showtime}}, nil)

		w := httptest.NewRecorder()
		h.List(w, newRequest(http.MethodGet, "/shows", "", ""))

		assert.Len(t, decodeResponse(t, w)["shows"], 1)
	})

	t.Run("create stores UTC", func(t *testing.T) {
		shows := new(MockShowRepository)
		h := NewShowHandler(shows, zap.NewNop())
		shows.On("Create", mock.Anything, mock.MatchedBy(func(s *models.Show) bool {
			return s.StartTime.Equal(showtime) && s.StartTime.Location() == time.UTC
		})).Return(nil)

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/shows",
			`{"venue_id":1,"artist_id":4,"start_time":"2030-06-01T14:00:00+02:00"}`, ""), director)

		assert.Equal(t, http.StatusOK, w.Code)
		shows.AssertExpectations(t)
	})

	t.Run("missing start time", func(t *testing.T) {
		shows := new(MockShowRepository)
		h := NewShowHandler(shows, zap.NewNop())

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/shows", `{"venue_id":1,"artist_id":4}`, ""), director)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		shows.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown artist", func(t *testing.T) {
		shows := new(MockShowRepository)
		h := NewShowHandler(shows, zap.NewNop())
		shows.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrReferenced)

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/shows",
			`{"venue_id":1,"artist_id":99,"start_time":"2030-06-01T12:00:00Z"}`, ""), director)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "venue or artist does not exist", decodeResponse(t, w)["message"])
	})
}
