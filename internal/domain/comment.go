package domain

import "time"

// Comment is one entry in an annotation's thread. Only Text changes after creation.
type Comment struct {
	ID           string    `json:"id"`
	AnnotationID string    `json:"annotation_id"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
