package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/models"
)

// MockActorRepository is a mock implementation of repositories.ActorRepository
type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) List(ctx context.Context, limit, offset int) ([]*models.Actor, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Actor), args.Error(1)
}

func (m *MockActorRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorRepository) GetForUpdate(ctx context.Context, id int64) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockActorRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockMovieRepository is a mock implementation of repositories.MovieRepository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) List(ctx context.Context, limit, offset int) ([]*models.Movie, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetForUpdate(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockDrinkRepository is a mock implementation of repositories.DrinkRepository
type MockDrinkRepository struct {
	mock.Mock
}

func (m *MockDrinkRepository) ListAll(ctx context.Context) ([]*models.Drink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Drink), args.Error(1)
}

func (m *MockDrinkRepository) GetByID(ctx context.Context, id int64) (*models.Drink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Drink), args.Error(1)
}

func (m *MockDrinkRepository) GetForUpdate(ctx context.Context, id int64) (*models.Drink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Drink), args.Error(1)
}

func (m *MockDrinkRepository) Create(ctx context.Context, drink *models.Drink) error {
	return m.Called(ctx, drink).Error(0)
}

func (m *MockDrinkRepository) Update(ctx context.Context, drink *models.Drink) error {
	return m.Called(ctx, drink).Error(0)
}

func (m *MockDrinkRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// inlineTx runs the callback without a real transaction
type inlineTx struct {
	calls int
}

func (tx *inlineTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

var director = &auth.Claims{}

func init() {
	director.Subject = "auth0|casting-director"
}

func newRequest(method, target, body string, id string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockQuestionRepository is a mock implementation of repositories.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) List(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Question, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Count(ctx context.Context, categoryID int64) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) Search(ctx context.Context, term string) ([]*models.Question, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Random(ctx context.Context, categoryID int64, exclude []int64) (*models.Question, error) {
	args := m.Called(ctx, categoryID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockVenueRepository is a mock implementation of repositories.VenueRepository
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) ListSummaries(ctx context.Context) ([]*models.ListingSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ListingSummary), args.Error(1)
}

func (m *MockVenueRepository) Search(ctx context.Context, term string) ([]*models.ListingSummary, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ListingSummary), args.Error(1)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id int64) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetForUpdate(ctx context.Context, id int64) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockVenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *MockVenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *MockVenueRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockArtistRepository is a mock implementation of repositories.ArtistRepository
type MockArtistRepository struct {
	mock.Mock
}

func (m *MockArtistRepository) ListSummaries(ctx context.Context) ([]*models.ListingSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ListingSummary), args.Error(1)
}

func (m *MockArtistRepository) Search(ctx context.Context, term string) ([]*models.ListingSummary, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ListingSummary), args.Error(1)
}

func (m *MockArtistRepository) GetByID(ctx context.Context, id int64) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockArtistRepository) GetForUpdate(ctx context.Context, id int64) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	return m.Called(ctx, artist).Error(0)
}

func (m *MockArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	return m.Called(ctx, artist).Error(0)
}

// MockShowRepository is a mock implementation of repositories.ShowRepository
type MockShowRepository struct {
	mock.Mock
}

func (m *MockShowRepository) ListAll(ctx context.Context) ([]*models.ShowListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShowListing), args.Error(1)
}

func (m *MockShowRepository) ListByVenue(ctx context.Context, venueID int64) ([]*models.ShowListing, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShowListing), args.Error(1)
}

func (m *MockShowRepository) ListByArtist(ctx context.Context, artistID int64) ([]*models.ShowListing, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShowListing), args.Error(1)
}

func (m *MockShowRepository) Create(ctx context.Context, show *models.Show) error {
	return m.Called(ctx, show).Error(0)
}

func (m *MockShowRepository) DeleteByVenue(ctx context.Context, venueID int64) error {
	return m.Called(ctx, venueID).Error(0)
}
