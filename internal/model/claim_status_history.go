package model

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatusHistory is one append-only audit row per status transition.
// Rows are never updated or deleted; creation order defines the audit trail.
type ClaimStatusHistory struct {
	ID             uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClaimID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"claim_id"`
	PreviousStatus ClaimStatus `gorm:"type:varchar(20);not null" json:"previous_status"`
	NewStatus      ClaimStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ActorID        *uuid.UUID  `gorm:"type:uuid;index" json:"actor_id"` // Nullable for system-initiated transitions
	Actor          *User       `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Comment        string      `gorm:"type:text" json:"comment"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
}
