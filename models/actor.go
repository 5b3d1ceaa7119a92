package models

// Actor is a performer that can be cast in movies
type Actor struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Gender string `json:"gender" db:"gender"`
	Age    int    `json:"age" db:"age"`
}

// TableName returns the table name for the Actor model
func (Actor) TableName() string {
	return "actors"
}

// NewActor creates a new Actor instance
func NewActor(name, gender string, age int) *Actor {
	return &Actor{
		Name:   name,
		Gender: gender,
		Age:    age,
	}
}
