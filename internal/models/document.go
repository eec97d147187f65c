package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a learning document whose extracted text the speech engine
// reads aloud. Content arrives already extracted; ingestion happens
// upstream.
type Document struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
