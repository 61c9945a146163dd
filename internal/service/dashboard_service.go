package service

import (
	"context"
	"fmt"
	"time"

	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"
)

const (
	urgentAfter  = 5 * 24 * time.Hour // pending longer than this counts as urgent
	approvedSpan = 7 * 24 * time.Hour
)

// DashboardMetrics are the headline numbers per role dashboard.
type DashboardMetrics struct {
	PendingCount       int64  `json:"pending_count"`
	UrgentCount        int64  `json:"urgent_count"`
	WeekApprovedTotal  string `json:"week_approved_total"`
	PendingStatus      string `json:"pending_status"`
	UnderReviewPending int64  `json:"under_review_pending,omitempty"`
}

type DashboardService interface {
	GetMetrics(ctx context.Context, role string) (DashboardMetrics, error)
}

type dashboardService struct {
	claims repository.ClaimRepository
}

func NewDashboardService(claims repository.ClaimRepository) DashboardService {
	return &dashboardService{claims: claims}
}

// GetMetrics computes the role's pending queue size, how many of those have
// been waiting more than five days, and the total value approved in the last
// seven days. Coordinators watch SUBMITTED, managers watch UNDER_REVIEW; HR
// sees both queues.
func (s *dashboardService) GetMetrics(ctx context.Context, role string) (DashboardMetrics, error) {
	pendingStatus := model.ClaimStatusSubmitted
	if role == model.RoleManager {
		pendingStatus = model.ClaimStatusUnderReview
	}

	metrics := DashboardMetrics{PendingStatus: string(pendingStatus)}

	pending, err := s.claims.CountByStatus(ctx, pendingStatus)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("failed to count pending claims: %w", err)
	}
	metrics.PendingCount = pending

	cutoff := time.Now().Add(-urgentAfter)
	urgent, err := s.claims.CountByStatusSubmittedBefore(ctx, pendingStatus, cutoff)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("failed to count urgent claims: %w", err)
	}
	metrics.UrgentCount = urgent

	total, err := s.claims.SumApprovedSince(ctx, time.Now().Add(-approvedSpan))
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("failed to sum approved claims: %w", err)
	}
	metrics.WeekApprovedTotal = total.StringFixed(2)

	if role == model.RoleHR {
		underReview, err := s.claims.CountByStatus(ctx, model.ClaimStatusUnderReview)
		if err != nil {
			return DashboardMetrics{}, fmt.Errorf("failed to count under-review claims: %w", err)
		}
		metrics.UnderReviewPending = underReview
	}

	return metrics, nil
}
