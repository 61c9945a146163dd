package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateModuleRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ModuleResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type ModuleService interface {
	CreateModule(ctx context.Context, req CreateModuleRequest) (ModuleResponse, error)
	GetModule(ctx context.Context, id uuid.UUID) (ModuleResponse, error)
	ListModules(ctx context.Context, page, limit int) ([]ModuleResponse, int64, error)
}

type moduleService struct {
	repo repository.ModuleRepository
}

func NewModuleService(repo repository.ModuleRepository) ModuleService {
	return &moduleService{repo: repo}
}

func (s *moduleService) CreateModule(ctx context.Context, req CreateModuleRequest) (ModuleResponse, error) {
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return ModuleResponse{}, errors.New("module code already exists")
	}

	mod := &model.Module{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, mod); err != nil {
		return ModuleResponse{}, fmt.Errorf("failed to create module: %w", err)
	}

	return toModuleResponse(*mod), nil
}

func (s *moduleService) GetModule(ctx context.Context, id uuid.UUID) (ModuleResponse, error) {
	mod, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ModuleResponse{}, errors.New("module not found")
		}
		return ModuleResponse{}, fmt.Errorf("failed to load module: %w", err)
	}
	return toModuleResponse(*mod), nil
}

func (s *moduleService) ListModules(ctx context.Context, page, limit int) ([]ModuleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	modules, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch modules: %w", err)
	}

	result := make([]ModuleResponse, 0, len(modules))
	for _, m := range modules {
		result = append(result, toModuleResponse(m))
	}
	return result, total, nil
}

func toModuleResponse(m model.Module) ModuleResponse {
	return ModuleResponse{
		ID:          m.ID.String(),
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}
