package repository

import (
	"context"

	"cmcs-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.SupportingDocument) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SupportingDocument, error)
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]model.SupportingDocument, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.SupportingDocument) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SupportingDocument, error) {
	var doc model.SupportingDocument
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]model.SupportingDocument, error) {
	var docs []model.SupportingDocument
	if err := GetDB(ctx, r.db).
		Where("claim_id = ?", claimID).
		Order("created_at asc").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
