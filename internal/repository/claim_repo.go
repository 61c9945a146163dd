package repository

import (
	"context"
	"time"

	"cmcs-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimFilter narrows claim listings for review queues and HR reporting.
type ClaimFilter struct {
	LecturerID *uuid.UUID
	Status     model.ClaimStatus // empty for all
	Period     string            // YYYY-MM, empty for all
	Page       int
	Limit      int
}

// ClaimRepository defines data access for Claim entities.
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	// FindByIDForUpdate locks the claim row for the duration of the enclosing
	// transaction so concurrent transitions serialize on it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	Update(ctx context.Context, claim *model.Claim) error
	List(ctx context.Context, filter ClaimFilter) ([]model.Claim, int64, error)
	CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error)
	CountByStatusSubmittedBefore(ctx context.Context, status model.ClaimStatus, cutoff time.Time) (int64, error)
	SumApprovedSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *model.Claim) error {
	return GetDB(ctx, r.db).Create(claim).Error
}

func (r *claimRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	if err := GetDB(ctx, r.db).First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	if err := GetDB(ctx, r.db).
		Preload("Lecturer").
		Preload("Module").
		First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) Update(ctx context.Context, claim *model.Claim) error {
	return GetDB(ctx, r.db).Save(claim).Error
}

func (r *claimRepository) List(ctx context.Context, filter ClaimFilter) ([]model.Claim, int64, error) {
	var claims []model.Claim
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.LecturerID != nil {
			q = q.Where("lecturer_id = ?", *filter.LecturerID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Period != "" {
			q = q.Where("claim_period = ?", filter.Period)
		}
		return q
	}

	if err := apply(db.Model(&model.Claim{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	if err := apply(db.Preload("Lecturer").Preload("Module")).
		Order("submitted_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&claims).Error; err != nil {
		return nil, 0, err
	}

	return claims, total, nil
}

func (r *claimRepository) CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *claimRepository) CountByStatusSubmittedBefore(ctx context.Context, status model.ClaimStatus, cutoff time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Where("status = ? AND submitted_at < ?", status, cutoff).
		Count(&count).Error
	return count, err
}

func (r *claimRepository) SumApprovedSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var result struct {
		Value string
	}
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Select("COALESCE(CAST(SUM(total_amount) AS TEXT), '0') as value").
		Where("status = ? AND last_modified >= ?", model.ClaimStatusApproved, since).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(result.Value)
}
