package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim lifecycle error taxonomy. Handlers map these to HTTP status codes;
// anything else is a persistence failure surfaced as a generic 500.
var (
	ErrClaimNotFound     = errors.New("claim not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingReason     = errors.New("rejection reason is required")
)

// legalTransitions is the full transition table of the claim workflow.
// DRAFT -> SUBMITTED is the creation edge (walked by ClaimService on intake);
// APPROVED, REJECTED and PAID are terminal.
var legalTransitions = map[model.ClaimStatus]map[model.ClaimStatus]bool{
	model.ClaimStatusDraft:       {model.ClaimStatusSubmitted: true},
	model.ClaimStatusSubmitted:   {model.ClaimStatusUnderReview: true, model.ClaimStatusRejected: true},
	model.ClaimStatusUnderReview: {model.ClaimStatusApproved: true, model.ClaimStatusRejected: true},
	model.ClaimStatusApproved:    {},
	model.ClaimStatusRejected:    {},
	model.ClaimStatusPaid:        {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to model.ClaimStatus) bool {
	targets, ok := legalTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// ClaimEvent is broadcast to websocket dashboards after each successful transition.
type ClaimEvent struct {
	ClaimID        string `json:"claim_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ActorID        string `json:"actor_id,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// EventPublisher pushes serialized claim events out to connected clients.
type EventPublisher interface {
	Publish(event []byte)
}

// LifecycleService is the single owner of claim status mutations. Every
// role-specific handler goes through ApplyTransition; the handler decides
// which target statuses its role may request, the engine decides whether
// the edge is legal for the claim's current status.
type LifecycleService interface {
	ApplyTransition(ctx context.Context, claimID uuid.UUID, target model.ClaimStatus, actorID *uuid.UUID, comment string) (*model.Claim, error)
	// ApplyTransitionBulk applies the same transition to each id independently,
	// each under its own transaction. Ids that fail their guard are skipped
	// silently; only the count of claims actually transitioned is returned.
	// Best-effort by design, not all-or-nothing.
	ApplyTransitionBulk(ctx context.Context, claimIDs []uuid.UUID, target model.ClaimStatus, actorID *uuid.UUID, comment string) (int, error)
}

type lifecycleService struct {
	txManager repository.TransactionManager
	claims    repository.ClaimRepository
	history   repository.HistoryRepository
	publisher EventPublisher // optional
}

func NewLifecycleService(txManager repository.TransactionManager, claims repository.ClaimRepository, history repository.HistoryRepository, publisher EventPublisher) LifecycleService {
	return &lifecycleService{
		txManager: txManager,
		claims:    claims,
		history:   history,
		publisher: publisher,
	}
}

func (s *lifecycleService) ApplyTransition(ctx context.Context, claimID uuid.UUID, target model.ClaimStatus, actorID *uuid.UUID, comment string) (*model.Claim, error) {
	if target == model.ClaimStatusRejected && strings.TrimSpace(comment) == "" {
		return nil, ErrMissingReason
	}

	var claim *model.Claim
	var previous model.ClaimStatus

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read under a row lock: the status checked here is the status
		// written against, so two racing transitions cannot both pass the guard.
		locked, err := s.claims.FindByIDForUpdate(txCtx, claimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimNotFound
			}
			return fmt.Errorf("failed to load claim: %w", err)
		}

		if !CanTransition(locked.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, locked.Status, target)
		}

		previous = locked.Status
		now := time.Now()
		locked.Status = target
		locked.LastModified = &now

		if err := s.claims.Update(txCtx, locked); err != nil {
			return fmt.Errorf("failed to update claim status: %w", err)
		}

		entry := &model.ClaimStatusHistory{
			ClaimID:        locked.ID,
			PreviousStatus: previous,
			NewStatus:      target,
			ActorID:        actorID,
			Comment:        comment,
		}
		if err := s.history.Append(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}

		claim = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(claim, previous, actorID)
	return claim, nil
}

func (s *lifecycleService) ApplyTransitionBulk(ctx context.Context, claimIDs []uuid.UUID, target model.ClaimStatus, actorID *uuid.UUID, comment string) (int, error) {
	transitioned := 0
	for _, id := range claimIDs {
		if _, err := s.ApplyTransition(ctx, id, target, actorID, comment); err != nil {
			continue
		}
		transitioned++
	}
	return transitioned, nil
}

// publishEvent runs after the transaction commits so dashboards never see
// a transition that was rolled back.
func (s *lifecycleService) publishEvent(claim *model.Claim, previous model.ClaimStatus, actorID *uuid.UUID) {
	if s.publisher == nil {
		return
	}

	event := ClaimEvent{
		ClaimID:        claim.ID.String(),
		PreviousStatus: string(previous),
		NewStatus:      string(claim.Status),
		OccurredAt:     time.Now().Format(time.RFC3339),
	}
	if actorID != nil {
		event.ActorID = actorID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	s.publisher.Publish(payload)
}
