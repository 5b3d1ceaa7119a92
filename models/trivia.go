package models

// Category groups trivia questions
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Type string `json:"type" db:"type"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new Category instance
func NewCategory(categoryType string) *Category {
	return &Category{Type: categoryType}
}

// Question is a trivia question with its answer. Difficulty runs from 1 to 5.
type Question struct {
	ID         int64  `json:"id" db:"id"`
	Question   string `json:"question" db:"question"`
	Answer     string `json:"answer" db:"answer"`
	CategoryID int64  `json:"category" db:"category_id"`
	Difficulty int    `json:"difficulty" db:"difficulty"`
}

// TableName returns the table name for the Question model
func (Question) TableName() string {
	return "questions"
}

// NewQuestion creates a new Question instance
func NewQuestion(question, answer string, categoryID int64, difficulty int) *Question {
	return &Question{
		Question:   question,
		Answer:     answer,
		CategoryID: categoryID,
		Difficulty: difficulty,
	}
}
