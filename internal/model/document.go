package model

import (
	"time"

	"github.com/google/uuid"
)

// SupportingDocument is file metadata attached to a claim. The file bytes
// themselves live in external storage; only the pointer is kept here.
type SupportingDocument struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClaimID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"claim_id"`
	FileName    string     `gorm:"type:varchar(255);not null" json:"file_name"`
	StoredPath  string     `gorm:"type:text;not null" json:"-"`
	ContentType string     `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes   int64      `gorm:"not null;default:0" json:"size_bytes"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
