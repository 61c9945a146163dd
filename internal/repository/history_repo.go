package repository

import (
	"context"

	"cmcs-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository persists claim status transition records.
// Entries are append-only: there is deliberately no update or delete.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.ClaimStatusHistory) error
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]model.ClaimStatusHistory, error)
	List(ctx context.Context, page, limit int) ([]model.ClaimStatusHistory, int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, entry *model.ClaimStatusHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *historyRepository) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]model.ClaimStatusHistory, error) {
	var entries []model.ClaimStatusHistory
	if err := GetDB(ctx, r.db).
		Preload("Actor").
		Where("claim_id = ?", claimID).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) List(ctx context.Context, page, limit int) ([]model.ClaimStatusHistory, int64, error) {
	var entries []model.ClaimStatusHistory
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ClaimStatusHistory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Actor").Order("created_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
