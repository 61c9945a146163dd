package repository

import (
	"context"

	"cmcs-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModuleRepository interface {
	Create(ctx context.Context, mod *model.Module) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Module, error)
	FindByCode(ctx context.Context, code string) (*model.Module, error)
	List(ctx context.Context, page, limit int) ([]model.Module, int64, error)
	Update(ctx context.Context, mod *model.Module) error
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, mod *model.Module) error {
	return GetDB(ctx, r.db).Create(mod).Error
}

func (r *moduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	var mod model.Module
	if err := GetDB(ctx, r.db).First(&mod, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

func (r *moduleRepository) FindByCode(ctx context.Context, code string) (*model.Module, error) {
	var mod model.Module
	if err := GetDB(ctx, r.db).First(&mod, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

func (r *moduleRepository) List(ctx context.Context, page, limit int) ([]model.Module, int64, error) {
	var modules []model.Module
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Module{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("code asc").Offset(offset).Limit(limit).Find(&modules).Error; err != nil {
		return nil, 0, err
	}

	return modules, total, nil
}

func (r *moduleRepository) Update(ctx context.Context, mod *model.Module) error {
	return GetDB(ctx, r.db).Save(mod).Error
}
