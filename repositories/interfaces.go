package repositories

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
)

var (
	// ErrNotFound is returned when no row matches the requested id
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("resource already exists")

	// ErrReferenced is returned when a write breaks a foreign key: the row
	// is still referenced, or references a row that does not exist
	ErrReferenced = errors.New("resource reference violated")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// InTransaction executes fn within a transaction.
	// Commits if fn succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActorRepository handles actor data operations
type ActorRepository interface {
	// List retrieves actors ordered by id
	List(ctx context.Context, limit, offset int) ([]*models.Actor, error)

	// Count returns the total number of actors
	Count(ctx context.Context) (int, error)

	// GetByID retrieves an actor by ID
	GetByID(ctx context.Context, id int64) (*models.Actor, error)

	// GetForUpdate retrieves an actor and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, id int64) (*models.Actor, error)

	// Create inserts an actor and sets its ID
	Create(ctx context.Context, actor *models.Actor) error

	// Update updates an actor
	Update(ctx context.Context, actor *models.Actor) error

	// Delete deletes an actor
	Delete(ctx context.Context, id int64) error
}

// MovieRepository handles movie data operations
type MovieRepository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Movie, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Movie, error)
	Create(ctx context.Context, movie *models.Movie) error
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id int64) error
}

// DrinkRepository handles drink data operations.
// Titles are unique; writes that collide return ErrConflict.
type DrinkRepository interface {
	// ListAll retrieves every drink ordered by id
	ListAll(ctx context.Context) ([]*models.Drink, error)

	GetByID(ctx context.Context, id int64) (*models.Drink, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Drink, error)
	Create(ctx context.Context, drink *models.Drink) error
	Update(ctx context.Context, drink *models.Drink) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository handles trivia category data operations.
// Deleting a category that still has questions returns ErrReferenced.
type CategoryRepository interface {
	// ListAll retrieves every category ordered by id
	ListAll(ctx context.Context) ([]*models.Category, error)

	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// QuestionRepository handles trivia question data operations
type QuestionRepository interface {
	// List retrieves questions ordered by id; a categoryID of 0 means every category
	List(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Question, error)

	// Count returns the number of questions; a categoryID of 0 means every category
	Count(ctx context.Context, categoryID int64) (int, error)

	// Search returns questions whose text contains term, ignoring case
	Search(ctx context.Context, term string) ([]*models.Question, error)

	// Random picks one question not listed in exclude, optionally within a
	// category. It returns ErrNotFound once every question has been excluded.
	Random(ctx context.Context, categoryID int64, exclude []int64) (*models.Question, error)

	Create(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id int64) error
}

// VenueRepository handles venue data operations
type VenueRepository interface {
	// ListSummaries retrieves every venue ordered by state, city and name
	ListSummaries(ctx context.Context) ([]*models.ListingSummary, error)

	// Search returns venues whose name contains term, ignoring case
	Search(ctx context.Context, term string) ([]*models.ListingSummary, error)

	GetByID(ctx context.Context, id int64) (*models.Venue, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Venue, error)
	Create(ctx context.Context, venue *models.Venue) error
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, id int64) error
}

// ArtistRepository handles artist data operations
type ArtistRepository interface {
	// ListSummaries retrieves every artist ordered by name
	ListSummaries(ctx context.Context) ([]*models.ListingSummary, error)

	// Search returns artists whose name contains term, ignoring case
	Search(ctx context.Context, term string) ([]*models.ListingSummary, error)

	GetByID(ctx context.Context, id int64) (*models.Artist, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Artist, error)
	Create(ctx context.Context, artist *models.Artist) error
	Update(ctx context.Context, artist *models.Artist) error
}

// ShowRepository handles show data operations.
// Creating a show for a missing venue or artist returns ErrReferenced.
type ShowRepository interface {
	// ListAll retrieves every show ordered by start time
	ListAll(ctx context.Context) ([]*models.ShowListing, error)

	ListByVenue(ctx context.Context, venueID int64) ([]*models.ShowListing, error)
	ListByArtist(ctx context.Context, artistID int64) ([]*models.ShowListing, error)
	Create(ctx context.Context, show *models.Show) error

	// DeleteByVenue removes every show booked at a venue
	DeleteByVenue(ctx context.Context, venueID int64) error
}

// Repositories groups every repository the API uses
type Repositories struct {
	Actors     ActorRepository
	Movies     MovieRepository
	Drinks     DrinkRepository
	Categories CategoryRepository
	Questions  QuestionRepository
	Venues     VenueRepository
	Artists    ArtistRepository
	Shows      ShowRepository
}
