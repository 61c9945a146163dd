package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxClaimHours caps a single monthly claim. Anything <= 0 or > 180 is rejected.
var maxClaimHours = decimal.NewFromInt(180)

// --- DTOs ---

type SubmitClaimRequest struct {
	ModuleID    string `json:"module_id" binding:"required"`
	ClaimPeriod string `json:"claim_period" binding:"required"` // YYYY-MM
	HoursWorked string `json:"hours_worked" binding:"required"` // decimal string
	Notes       string `json:"notes"`
}

type ClaimResponse struct {
	ID           string  `json:"id"`
	LecturerID   string  `json:"lecturer_id"`
	LecturerName string  `json:"lecturer_name,omitempty"`
	ModuleID     string  `json:"module_id"`
	ModuleCode   string  `json:"module_code,omitempty"`
	ClaimPeriod  string  `json:"claim_period"`
	HoursWorked  string  `json:"hours_worked"`
	HourlyRate   string  `json:"hourly_rate"`
	TotalAmount  string  `json:"total_amount"`
	Notes        string  `json:"notes"`
	Status       string  `json:"status"`
	SubmittedAt  string  `json:"submitted_at"`
	LastModified *string `json:"last_modified"`
}

type HistoryEntryResponse struct {
	ID             string `json:"id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ActorID        string `json:"actor_id,omitempty"`
	ActorName      string `json:"actor_name,omitempty"`
	Comment        string `json:"comment"`
	CreatedAt      string `json:"created_at"`
}

// --- Interface ---

type ClaimService interface {
	SubmitClaim(ctx context.Context, lecturerID uuid.UUID, req SubmitClaimRequest) (ClaimResponse, error)
	GetClaim(ctx context.Context, id uuid.UUID) (ClaimResponse, error)
	GetHistory(ctx context.Context, claimID uuid.UUID) ([]HistoryEntryResponse, error)
	ListClaims(ctx context.Context, filter repository.ClaimFilter) ([]ClaimResponse, int64, error)
}

type claimService struct {
	txManager repository.TransactionManager
	claims    repository.ClaimRepository
	history   repository.HistoryRepository
	users     repository.UserRepository
	modules   repository.ModuleRepository
}

func NewClaimService(txManager repository.TransactionManager, claims repository.ClaimRepository, history repository.HistoryRepository, users repository.UserRepository, modules repository.ModuleRepository) ClaimService {
	return &claimService{
		txManager: txManager,
		claims:    claims,
		history:   history,
		users:     users,
		modules:   modules,
	}
}

// --- Implementation ---

// SubmitClaim validates the request, freezes the lecturer's current hourly
// rate onto the claim, computes the total once, and persists the claim in
// SUBMITTED together with its creation history row in one transaction.
func (s *claimService) SubmitClaim(ctx context.Context, lecturerID uuid.UUID, req SubmitClaimRequest) (ClaimResponse, error) {
	if _, err := time.Parse("2006-01", req.ClaimPeriod); err != nil {
		return ClaimResponse{}, errors.New("invalid claim period, expected YYYY-MM")
	}

	hours, err := decimal.NewFromString(req.HoursWorked)
	if err != nil {
		return ClaimResponse{}, fmt.Errorf("invalid hours worked: %w", err)
	}
	if !hours.IsPositive() || hours.GreaterThan(maxClaimHours) {
		return ClaimResponse{}, errors.New("hours worked must be greater than 0 and at most 180")
	}

	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		return ClaimResponse{}, fmt.Errorf("invalid module id: %w", err)
	}

	lecturer, err := s.users.GetByID(ctx, lecturerID.String())
	if err != nil {
		return ClaimResponse{}, errors.New("lecturer not found")
	}
	if lecturer.Role != model.RoleLecturer {
		return ClaimResponse{}, errors.New("only lecturers can submit claims")
	}
	if !lecturer.HourlyRate.IsPositive() {
		return ClaimResponse{}, errors.New("lecturer has no hourly rate configured")
	}

	if _, err := s.modules.FindByID(ctx, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClaimResponse{}, errors.New("module not found")
		}
		return ClaimResponse{}, fmt.Errorf("failed to load module: %w", err)
	}

	claim := &model.Claim{
		LecturerID:  lecturerID,
		ModuleID:    moduleID,
		ClaimPeriod: req.ClaimPeriod,
		HoursWorked: hours,
		HourlyRate:  lecturer.HourlyRate,
		TotalAmount: hours.Mul(lecturer.HourlyRate),
		Notes:       req.Notes,
		Status:      model.ClaimStatusSubmitted,
		SubmittedAt: time.Now(),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.claims.Create(txCtx, claim); createErr != nil {
			return fmt.Errorf("failed to create claim: %w", createErr)
		}

		// Creation walks the DRAFT -> SUBMITTED edge; record it like any
		// other transition so the audit trail starts at row one.
		entry := &model.ClaimStatusHistory{
			ClaimID:        claim.ID,
			PreviousStatus: model.ClaimStatusDraft,
			NewStatus:      model.ClaimStatusSubmitted,
			ActorID:        &lecturerID,
			Comment:        "",
		}
		if appendErr := s.history.Append(txCtx, entry); appendErr != nil {
			return fmt.Errorf("failed to append status history: %w", appendErr)
		}

		return nil
	})
	if err != nil {
		return ClaimResponse{}, err
	}

	// Reload with relations
	reloaded, err := s.claims.FindByIDWithRelations(ctx, claim.ID)
	if err != nil {
		return ClaimResponse{}, fmt.Errorf("failed to reload claim: %w", err)
	}

	return toClaimResponse(*reloaded), nil
}

func (s *claimService) GetClaim(ctx context.Context, id uuid.UUID) (ClaimResponse, error) {
	claim, err := s.claims.FindByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClaimResponse{}, ErrClaimNotFound
		}
		return ClaimResponse{}, fmt.Errorf("failed to load claim: %w", err)
	}
	return toClaimResponse(*claim), nil
}

func (s *claimService) GetHistory(ctx context.Context, claimID uuid.UUID) ([]HistoryEntryResponse, error) {
	if _, err := s.claims.FindByID(ctx, claimID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}

	entries, err := s.history.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claim history: %w", err)
	}

	result := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := HistoryEntryResponse{
			ID:             e.ID.String(),
			PreviousStatus: string(e.PreviousStatus),
			NewStatus:      string(e.NewStatus),
			Comment:        e.Comment,
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		}
		if e.ActorID != nil {
			item.ActorID = e.ActorID.String()
		}
		if e.Actor != nil {
			item.ActorName = e.Actor.Username
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *claimService) ListClaims(ctx context.Context, filter repository.ClaimFilter) ([]ClaimResponse, int64, error) {
	claims, total, err := s.claims.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch claims: %w", err)
	}

	result := make([]ClaimResponse, 0, len(claims))
	for _, c := range claims {
		result = append(result, toClaimResponse(c))
	}
	return result, total, nil
}

// --- Helpers ---

func toClaimResponse(c model.Claim) ClaimResponse {
	resp := ClaimResponse{
		ID:          c.ID.String(),
		LecturerID:  c.LecturerID.String(),
		ModuleID:    c.ModuleID.String(),
		ClaimPeriod: c.ClaimPeriod,
		HoursWorked: c.HoursWorked.StringFixed(2),
		HourlyRate:  c.HourlyRate.StringFixed(2),
		TotalAmount: c.TotalAmount.StringFixed(2),
		Notes:       c.Notes,
		Status:      string(c.Status),
		SubmittedAt: c.SubmittedAt.Format(time.RFC3339),
	}
	if c.Lecturer != nil {
		resp.LecturerName = c.Lecturer.Username
	}
	if c.Module != nil {
		resp.ModuleCode = c.Module.Code
	}
	if c.LastModified != nil {
		s := c.LastModified.Format(time.RFC3339)
		resp.LastModified = &s
	}
	return resp
}
