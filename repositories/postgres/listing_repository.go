package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// VenueRepository implements the repositories.VenueRepository interface
type VenueRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewVenueRepository creates a new venue repository
func NewVenueRepository(db *DB, logger *zap.Logger) repositories.VenueRepository {
	return &VenueRepository{
		db:     db,
		logger: logger,
	}
}

const venueColumns = `
	id, name, city, state,
	COALESCE(address, ''), COALESCE(phone, ''), genres,
	COALESCE(image_link, ''), COALESCE(facebook_link, ''),
	seeking_talent, COALESCE(seeking_description, '')`

const venueSummary = `
	SELECT v.id, v.name, v.city, v.state,
	       COUNT(s.venue_id) FILTER (WHERE s.start_time > now())
	FROM venues v
	LEFT JOIN shows s ON s.venue_id = v.id`

// ListSummaries retrieves every venue with its upcoming show count
func (r *VenueRepository) ListSummaries(ctx context.Context) ([]*models.ListingSummary, error) {
	query := venueSummary + `
		GROUP BY v.id
		ORDER BY v.state, v.city, v.name
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return scanSummaries(rows, "venue")
}

// Search returns venues whose name contains term, ignoring case
func (r *VenueRepository) Search(ctx context.Context, term string) ([]*models.ListingSummary, error) {
	query := venueSummary + `
		WHERE v.name ILIKE $1
		GROUP BY v.id
		ORDER BY v.name
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, containsPattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	return scanSummaries(rows, "venue")
}

// GetByID retrieves a venue by ID
func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*models.Venue, error) {
	return r.get(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
}

// GetForUpdate retrieves a venue and locks its row
func (r *VenueRepository) GetForUpdate(ctx context.Context, id int64) (*models.Venue, error) {
	return r.get(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1 FOR UPDATE`, id)
}

func (r *VenueRepository) get(ctx context.Context, query string, id int64) (*models.Venue, error) {
	v := &models.Venue{}
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.City, &v.State,
		&v.Address, &v.Phone, pq.Array(&v.Genres),
		&v.ImageLink, &v.FacebookLink,
		&v.SeekingTalent, &v.SeekingDescription,
	)
	if err != nil {
		return nil, translateError("get venue", err)
	}
	return v, nil
}

// Create inserts a venue and sets its ID
func (r *VenueRepository) Create(ctx context.Context, v *models.Venue) error {
	query := `
		INSERT INTO venues (name, city, state, address, phone, genres,
			image_link, facebook_link, seeking_talent, seeking_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		v.Name, v.City, v.State, v.Address, v.Phone, pq.Array(v.Genres),
		v.ImageLink, v.FacebookLink, v.SeekingTalent, v.SeekingDescription,
	).Scan(&v.ID)
	if err != nil {
		return translateError("create venue", err)
	}

	r.logger.Debug("venue created", zap.Int64("id", v.ID))
	return nil
}

// Update updates a venue
func (r *VenueRepository) Update(ctx context.Context, v *models.Venue) error {
	query := `
		UPDATE venues
		SET name = $1, city = $2, state = $3, address = $4, phone = $5, genres = $6,
			image_link = $7, facebook_link = $8, seeking_talent = $9, seeking_description = $10
		WHERE id = $11
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		v.Name, v.City, v.State, v.Address, v.Phone, pq.Array(v.Genres),
		v.ImageLink, v.FacebookLink, v.SeekingTalent, v.SeekingDescription, v.ID,
	)
	if err != nil {
		return translateError("update venue", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("venue updated", zap.Int64("id", v.ID))
	return nil
}

// Delete deletes a venue. Its shows must be removed first.
func (r *VenueRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return translateError("delete venue", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("venue deleted", zap.Int64("id", id))
	return nil
}

// ArtistRepository implements the repositories.ArtistRepository interface
type ArtistRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(db *DB, logger *zap.Logger) repositories.ArtistRepository {
	return &ArtistRepository{
		db:     db,
		logger: logger,
	}
}

const artistColumns = `
	id, name, city, state,
	COALESCE(phone, ''), genres,
	COALESCE(image_link, ''), COALESCE(facebook_link, ''),
	seeking_venue, COALESCE(seeking_description, '')`

const artistSummary = `
	SELECT a.id, a.name, a.city, a.state,
	       COUNT(s.artist_id) FILTER (WHERE s.start_time > now())
	FROM artists a
	LEFT JOIN shows s ON s.artist_id = a.id`

// ListSummaries retrieves every artist with its upcoming show count
func (r *ArtistRepository) ListSummaries(ctx context.Context) ([]*models.ListingSummary, error) {
	query := artistSummary + `
		GROUP BY a.id
		ORDER BY a.name
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return scanSummaries(rows, "artist")
}

// Search returns artists whose name contains term, ignoring case
func (r *ArtistRepository) Search(ctx context.Context, term string) ([]*models.ListingSummary, error) {
	query := artistSummary + `
		WHERE a.name ILIKE $1
		GROUP BY a.id
		ORDER BY a.name
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, containsPattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	return scanSummaries(rows, "artist")
}

// GetByID retrieves an artist by ID
func (r *ArtistRepository) GetByID(ctx context.Context, id int64) (*models.Artist, error) {
	return r.get(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1`, id)
}

// GetForUpdate retrieves an artist and locks its row
func (r *ArtistRepository) GetForUpdate(ctx context.Context, id int64) (*models.Artist, error) {
	return r.get(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1 FOR UPDATE`, id)
}

func (r *ArtistRepository) get(ctx context.Context, query string, id int64) (*models.Artist, error) {
	a := &models.Artist{}
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.City, &a.State,
		&a.Phone, pq.Array(&a.Genres),
		&a.ImageLink, &a.FacebookLink,
		&a.SeekingVenue, &a.SeekingDescription,
	)
	if err != nil {
		return nil, translateError("get artist", err)
	}
	return a, nil
}

// Create inserts an artist and sets its ID
func (r *ArtistRepository) Create(ctx context.Context, a *models.Artist) error {
	query := `
		INSERT INTO artists (name, city, state, phone, genres,
			image_link, facebook_link, seeking_venue, seeking_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		a.Name, a.City, a.State, a.Phone, pq.Array(a.Genres),
		a.ImageLink, a.FacebookLink, a.SeekingVenue, a.SeekingDescription,
	).Scan(&a.ID)
	if err != nil {
		return translateError("create artist", err)
	}

	r.logger.Debug("artist created", zap.Int64("id", a.ID))
	return nil
}

// Update updates an artist
func (r *ArtistRepository) Update(ctx context.Context, a *models.Artist) error {
	query := `
		UPDATE artists
		SET name = $1, city = $2, state = $3, phone = $4, genres = $5,
			image_link = $6, facebook_link = $7, seeking_venue = $8, seeking_description = $9
		WHERE id = $10
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		a.Name, a.City, a.State, a.Phone, pq.Array(a.Genres),
		a.ImageLink, a.FacebookLink, a.SeekingVenue, a.SeekingDescription, a.ID,
	)
	if err != nil {
		return translateError("update artist", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	r.logger.Debug("artist updated", zap.Int64("id", a.ID))
	return nil
}

// ShowRepository implements the repositories.ShowRepository interface
type ShowRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewShowRepository creates a new show repository
func NewShowRepository(db *DB, logger *zap.Logger) repositories.ShowRepository {
	return &ShowRepository{
		db:     db,
		logger: logger,
	}
}

const showListing = `
	SELECT s.venue_id, v.name, COALESCE(v.image_link, ''),
	       s.artist_id, a.name, COALESCE(a.image_link, ''),
	       s.start_time
	FROM shows s
	JOIN venues v ON v.id = s.venue_id
	JOIN artists a ON a.id = s.artist_id`

// ListAll retrieves every show ordered by start time
func (r *ShowRepository) ListAll(ctx context.Context) ([]*models.ShowListing, error) {
	return r.list(ctx, showListing+` ORDER BY s.start_time`)
}

// ListByVenue retrieves the shows booked at a venue
func (r *ShowRepository) ListByVenue(ctx context.Context, venueID int64) ([]*models.ShowListing, error) {
	return r.list(ctx, showListing+` WHERE s.venue_id = $1 ORDER BY s.start_time`, venueID)
}

// ListByArtist retrieves the shows an artist plays
func (r *ShowRepository) ListByArtist(ctx context.Context, artistID int64) ([]*models.ShowListing, error) {
	return r.list(ctx, showListing+` WHERE s.artist_id = $1 ORDER BY s.start_time`, artistID)
}

func (r *ShowRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.ShowListing, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	defer rows.Close()

	var shows []*models.ShowListing
	for rows.Next() {
		s := &models.ShowListing{}
		if err := rows.Scan(
			&s.VenueID, &s.VenueName, &s.VenueImageLink,
			&s.ArtistID, &s.ArtistName, &s.ArtistImageLink,
			&s.StartTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		shows = append(shows, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shows: %w", err)
	}
	return shows, nil
}

// Create books a show
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx,
		`INSERT INTO shows (venue_id, artist_id, start_time) VALUES ($1, $2, $3)`,
		show.VenueID, show.ArtistID, show.StartTime,
	)
	if err != nil {
		return translateError("create show", err)
	}

	r.logger.Debug("show created",
		zap.Int64("venue_id", show.VenueID),
		zap.Int64("artist_id", show.ArtistID))
	return nil
}

// DeleteByVenue removes every show booked at a venue
func (r *ShowRepository) DeleteByVenue(ctx context.Context, venueID int64) error {
	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = $1`, venueID); err != nil {
		return translateError("delete shows", err)
	}
	return nil
}

func scanSummaries(rows *sql.Rows, kind string) ([]*models.ListingSummary, error) {
	defer rows.Close()

	var summaries []*models.ListingSummary
	for rows.Next() {
		s := &models.ListingSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.State, &s.NumUpcomingShows); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %ss: %w", kind, err)
	}
	return summaries, nil
}
