package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Ingredient is one part of a drink recipe
type Ingredient struct {
	Name  string `json:"name" validate:"required,max=80"`
	Color string `json:"color" validate:"required,max=40"`
	Parts int    `json:"parts" validate:"gte=1"`
}

// Recipe is stored as a JSON array in the drinks table
type Recipe []Ingredient

// UnmarshalJSON accepts either an array of ingredients or a single ingredient object
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single Ingredient
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*r = Recipe{single}
		return nil
	}

	var list []Ingredient
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*r = list
	return nil
}

// Scan implements sql.Scanner
func (r *Recipe) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*r = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Recipe", src)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("invalid recipe: %w", err)
	}
	return nil
}

// Value implements driver.Valuer
func (r Recipe) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Drink is a menu entry; its long form exposes the full recipe
type Drink struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Recipe Recipe `json:"recipe" db:"recipe"`
}

// ShortIngredient hides ingredient names from public listings
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public representation of a Drink
type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// TableName returns the table name for the Drink model
func (Drink) TableName() string {
	return "drinks"
}

// NewDrink creates a new Drink instance
func NewDrink(title string, recipe Recipe) *Drink {
	return &Drink{
		Title:  title,
		Recipe: recipe,
	}
}

// Short returns the public representation
func (d *Drink) Short() ShortDrink {
	short := ShortDrink{
		ID:     d.ID,
		Title:  d.Title,
		Recipe: make([]ShortIngredient, 0, len(d.Recipe)),
	}
	for _, ingredient := range d.Recipe {
		short.Recipe = append(short.Recipe, ShortIngredient{Color: ingredient.Color, Parts: ingredient.Parts})
	}
	return short
}
