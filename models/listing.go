package models

import "time"

// Venue is a place that hosts shows
type Venue struct {
	ID                 int64    `json:"id" db:"id"`
	Name               string   `json:"name" db:"name"`
	City               string   `json:"city" db:"city"`
	State              string   `json:"state" db:"state"`
	Address            string   `json:"address" db:"address"`
	Phone              string   `json:"phone" db:"phone"`
	Genres             []string `json:"genres" db:"genres"`
	ImageLink          string   `json:"image_link" db:"image_link"`
	FacebookLink       string   `json:"facebook_link" db:"facebook_link"`
	SeekingTalent      bool     `json:"seeking_talent" db:"seeking_talent"`
	SeekingDescription string   `json:"seeking_description" db:"seeking_description"`
}

// TableName returns the table name for the Venue model
func (Venue) TableName() string {
	return "venues"
}

// Artist performs at venues
type Artist struct {
	ID                 int64    `json:"id" db:"id"`
	Name               string   `json:"name" db:"name"`
	City               string   `json:"city" db:"city"`
	State              string   `json:"state" db:"state"`
	Phone              string   `json:"phone" db:"phone"`
	Genres             []string `json:"genres" db:"genres"`
	ImageLink          string   `json:"image_link" db:"image_link"`
	FacebookLink       string   `json:"facebook_link" db:"facebook_link"`
	SeekingVenue       bool     `json:"seeking_venue" db:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description" db:"seeking_description"`
}

// TableName returns the table name for the Artist model
func (Artist) TableName() string {
	return "artists"
}

// Show books an artist at a venue
type Show struct {
	VenueID   int64     `json:"venue_id" db:"venue_id"`
	ArtistID  int64     `json:"artist_id" db:"artist_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
}

// TableName returns the table name for the Show model
func (Show) TableName() string {
	return "shows"
}

// NewShow creates a new Show instance
func NewShow(venueID, artistID int64, startTime time.Time) *Show {
	return &Show{
		VenueID:   venueID,
		ArtistID:  artistID,
		StartTime: startTime.UTC(),
	}
}

// ShowListing is a show joined with the names of its venue and artist
type ShowListing struct {
	VenueID         int64     `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	VenueImageLink  string    `json:"venue_image_link"`
	ArtistID        int64     `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

// ListingSummary is the short form of a venue or artist used by lists and searches
type ListingSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// SplitShows partitions shows into those that started before now and the rest.
// Order within each part is preserved.
func SplitShows(shows []*ShowListing, now time.Time) (past, upcoming []*ShowListing) {
	past = make([]*ShowListing, 0, len(shows))
	upcoming = make([]*ShowListing, 0, len(shows))
	for _, show := range shows {
		if show.StartTime.Before(now) {
			past = append(past, show)
			continue
		}
		upcoming = append(upcoming, show)
	}
	return past, upcoming
}
