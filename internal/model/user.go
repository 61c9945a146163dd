package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleLecturer    = "lecturer"
	RoleCoordinator = "coordinator"
	RoleManager     = "manager"
	RoleHR          = "hr"
)

// User represents an actor in the claim workflow.
// HourlyRate is only meaningful for lecturers; it is copied onto each
// claim at submission time.
type User struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username   string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email      string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string          `gorm:"type:varchar(255);not null" json:"-"`   // Omit password from JSON requests/responses
	Role       string          `gorm:"type:varchar(50);not null" json:"role"` // lecturer, coordinator, manager, hr
	HourlyRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"hourly_rate"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
