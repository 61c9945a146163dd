package service

import (
	"context"
	"testing"
	"time"

	"cmcs-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func seedDashboardClaims(claims *mockClaimRepo) {
	now := time.Now()
	stale := now.Add(-6 * 24 * time.Hour)
	lastWeek := now.Add(-2 * 24 * time.Hour)
	longAgo := now.Add(-30 * 24 * time.Hour)

	add := func(status model.ClaimStatus, submittedAt time.Time, lastModified *time.Time, total int64) {
		claims.put(&model.Claim{
			ID:           uuid.New(),
			LecturerID:   uuid.New(),
			ModuleID:     uuid.New(),
			ClaimPeriod:  "2025-08",
			HoursWorked:  decimal.NewFromInt(10),
			HourlyRate:   decimal.NewFromInt(total / 10),
			TotalAmount:  decimal.NewFromInt(total),
			Status:       status,
			SubmittedAt:  submittedAt,
			LastModified: lastModified,
		})
	}

	// Two fresh submitted, one stale submitted (urgent for coordinators)
	add(model.ClaimStatusSubmitted, now, nil, 1000)
	add(model.ClaimStatusSubmitted, now, nil, 1500)
	add(model.ClaimStatusSubmitted, stale, nil, 2000)

	// One fresh under review, one stale under review (urgent for managers)
	add(model.ClaimStatusUnderReview, now, nil, 500)
	add(model.ClaimStatusUnderReview, stale, nil, 700)

	// Approved this week: 3000 + 1200; approved long ago must not count
	add(model.ClaimStatusApproved, longAgo, &lastWeek, 3000)
	add(model.ClaimStatusApproved, longAgo, &lastWeek, 1200)
	add(model.ClaimStatusApproved, longAgo, &longAgo, 9999)

	add(model.ClaimStatusRejected, longAgo, &longAgo, 400)
}

func TestGetMetrics_Coordinator(t *testing.T) {
	claims := newMockClaimRepo()
	seedDashboardClaims(claims)
	svc := NewDashboardService(claims)

	metrics, err := svc.GetMetrics(context.Background(), model.RoleCoordinator)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}

	if metrics.PendingCount != 3 {
		t.Errorf("coordinator pending = %d, want 3 submitted claims", metrics.PendingCount)
	}
	if metrics.UrgentCount != 1 {
		t.Errorf("coordinator urgent = %d, want 1 claim older than 5 days", metrics.UrgentCount)
	}
	if metrics.WeekApprovedTotal != "4200.00" {
		t.Errorf("week approved total = %s, want 4200.00", metrics.WeekApprovedTotal)
	}
	if metrics.PendingStatus != string(model.ClaimStatusSubmitted) {
		t.Errorf("coordinator pending status = %s, want SUBMITTED", metrics.PendingStatus)
	}
}

func TestGetMetrics_Manager(t *testing.T) {
	claims := newMockClaimRepo()
	seedDashboardClaims(claims)
	svc := NewDashboardService(claims)

	metrics, err := svc.GetMetrics(context.Background(), model.RoleManager)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}

	if metrics.PendingCount != 2 {
		t.Errorf("manager pending = %d, want 2 under-review claims", metrics.PendingCount)
	}
	if metrics.UrgentCount != 1 {
		t.Errorf("manager urgent = %d, want 1", metrics.UrgentCount)
	}
	if metrics.PendingStatus != string(model.ClaimStatusUnderReview) {
		t.Errorf("manager pending status = %s, want UNDER_REVIEW", metrics.PendingStatus)
	}
}

func TestGetMetrics_HRSeesBothQueues(t *testing.T) {
	claims := newMockClaimRepo()
	seedDashboardClaims(claims)
	svc := NewDashboardService(claims)

	metrics, err := svc.GetMetrics(context.Background(), model.RoleHR)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}

	if metrics.PendingCount != 3 {
		t.Errorf("hr pending = %d, want 3", metrics.PendingCount)
	}
	if metrics.UnderReviewPending != 2 {
		t.Errorf("hr under-review pending = %d, want 2", metrics.UnderReviewPending)
	}
}

func TestGetMetrics_EmptyDatabase(t *testing.T) {
	svc := NewDashboardService(newMockClaimRepo())

	metrics, err := svc.GetMetrics(context.Background(), model.RoleCoordinator)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if metrics.PendingCount != 0 || metrics.UrgentCount != 0 {
		t.Errorf("expected zero counts, got %+v", metrics)
	}
	if metrics.WeekApprovedTotal != "0.00" {
		t.Errorf("week approved total = %s, want 0.00", metrics.WeekApprovedTotal)
	}
}
