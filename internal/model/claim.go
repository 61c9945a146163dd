package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimStatus is the lifecycle state of a monthly claim.
type ClaimStatus string

const (
	ClaimStatusDraft       ClaimStatus = "DRAFT"
	ClaimStatusSubmitted   ClaimStatus = "SUBMITTED"
	ClaimStatusUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApproved    ClaimStatus = "APPROVED"
	ClaimStatusRejected    ClaimStatus = "REJECTED"
	ClaimStatusPaid        ClaimStatus = "PAID"
)

// ParseClaimStatus validates a raw status string coming from the API layer.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	switch ClaimStatus(s) {
	case ClaimStatusDraft, ClaimStatusSubmitted, ClaimStatusUnderReview,
		ClaimStatusApproved, ClaimStatusRejected, ClaimStatusPaid:
		return ClaimStatus(s), nil
	default:
		return "", fmt.Errorf("unknown claim status: %s", s)
	}
}

// Claim represents one lecturer's hourly-work compensation request for a month.
// HourlyRate is copied from the lecturer's profile at submission time and,
// together with HoursWorked and TotalAmount, is frozen once the claim leaves DRAFT.
// Claims are never deleted.
type Claim struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LecturerID uuid.UUID `gorm:"type:uuid;not null;index" json:"lecturer_id"`
	Lecturer   *User     `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
	ModuleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Module     *Module   `gorm:"foreignKey:ModuleID" json:"module,omitempty"`

	ClaimPeriod string          `gorm:"type:varchar(7);not null;index" json:"claim_period"` // YYYY-MM
	HoursWorked decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours_worked"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"hourly_rate"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"` // hours * rate, computed once at submission
	Notes       string          `gorm:"type:text" json:"notes"`

	Status       ClaimStatus `gorm:"type:varchar(20);not null;default:'SUBMITTED';index" json:"status"`
	SubmittedAt  time.Time   `gorm:"not null;index" json:"submitted_at"`
	LastModified *time.Time  `json:"last_modified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
