package models

import (
	"time"
)

// Document statuses. Every record moves through draft first; the other
// states are set explicitly by the owner.
const (
	StatusDraft    = "draft"
	StatusReview   = "review"
	StatusApproved = "approved"
	StatusArchived = "archived"
)

// DefaultCategory is the folder every owner always has. It cannot be
// renamed or deleted and is recreated lazily if it ever goes missing.
const DefaultCategory = "General"

// PlaceholderFileType is the sentinel file type carried by placeholder
// records (records that exist only to keep an empty folder visible).
const PlaceholderFileType = "folder"

// ValidStatus reports whether s is one of the recognized document statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusReview, StatusApproved, StatusArchived:
		return true
	}
	return false
}

// Document is a flat record in the document table. Folders are not stored
// anywhere; they are derived from the Category column.
type Document struct {
	ID                  string    `json:"id" db:"id"`
	OwnerID             string    `json:"owner_id" db:"owner_id"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	FileName            string    `json:"file_name" db:"file_name"`
	FileType            string    `json:"file_type" db:"file_type"`
	FileSize            int64     `json:"file_size" db:"file_size"`
	ContentKey          string    `json:"content_key" db:"content_key"`
	Category            string    `json:"category" db:"category"`
	Tags                []string  `json:"tags" db:"tags"`
	Status              string    `json:"status" db:"status"`
	Starred             bool      `json:"starred" db:"starred"`
	IsFolderPlaceholder bool      `json:"-" db:"is_folder_placeholder"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// NewPlaceholder builds the synthetic record that witnesses an otherwise
// empty folder. It never appears in document listings or counts.
func NewPlaceholder(ownerID, category string) *Document {
	now := time.Now()
	return &Document{
		OwnerID:             ownerID,
		Title:               category,
		FileType:            PlaceholderFileType,
		Category:            category,
		Tags:                []string{},
		Status:              StatusDraft,
		IsFolderPlaceholder: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// UpdateDocumentRequest carries a partial document update. Nil fields are
// left untouched.
type UpdateDocumentRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Starred     *bool     `json:"starred,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// MoveDocumentRequest names the folder a document should move to.
type MoveDocumentRequest struct {
	Folder string `json:"folder"`
}
