package quiz

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	CategoryID    uuid.UUID `json:"categoryId,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	QuestionCount int       `json:"questionCount"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateQuizInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Document is an uploaded source file for the document-to-quiz generation
// workflow.
type Document struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Status   string    `json:"status"`
}

type GenerateOptions struct {
	QuestionCount int    `json:"questionCount,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
}
