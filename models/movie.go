package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
	case nil:
		*d = Date{}
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Movie is a production actors are cast in
type Movie struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	ReleaseDate Date   `json:"release_date" db:"release_date"`
}

// TableName returns the table name for the Movie model
func (Movie) TableName() string {
	return "movies"
}

// NewMovie creates a new Movie instance
func NewMovie(title string, releaseDate Date) *Movie {
	return &Movie{
		Title:       title,
		ReleaseDate: releaseDate,
	}
}
