package service

import (
	"context"
	"testing"

	"cmcs-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupClaimService() (ClaimService, *mockClaimRepo, *mockHistoryRepo, *mockUserRepo, *mockModuleRepo) {
	claims := newMockClaimRepo()
	history := newMockHistoryRepo()
	users := newMockUserRepo()
	modules := newMockModuleRepo()
	svc := NewClaimService(&mockTxManager{}, claims, history, users, modules)
	return svc, claims, history, users, modules
}

func seedLecturer(users *mockUserRepo, rate string) *model.User {
	r, _ := decimal.NewFromString(rate)
	lecturer := &model.User{
		ID:         uuid.New(),
		Username:   "j.moyo",
		Email:      "j.moyo@campus.example",
		Role:       model.RoleLecturer,
		HourlyRate: r,
	}
	_ = users.Create(context.Background(), lecturer)
	return lecturer
}

func seedModule(modules *mockModuleRepo) *model.Module {
	mod := &model.Module{ID: uuid.New(), Code: "PROG6212", Name: "Programming 2B"}
	_ = modules.Create(context.Background(), mod)
	return mod
}

func TestSubmitClaim_Success(t *testing.T) {
	svc, claims, history, users, modules := setupClaimService()
	lecturer := seedLecturer(users, "350.50")
	mod := seedModule(modules)

	resp, err := svc.SubmitClaim(context.Background(), lecturer.ID, SubmitClaimRequest{
		ModuleID:    mod.ID.String(),
		ClaimPeriod: "2025-08",
		HoursWorked: "12.5",
		Notes:       "tutorials and marking",
	})
	if err != nil {
		t.Fatalf("SubmitClaim should succeed: %v", err)
	}

	if resp.Status != string(model.ClaimStatusSubmitted) {
		t.Errorf("new claim status = %s, want SUBMITTED", resp.Status)
	}
	// 12.5 * 350.50 = 4381.25
	if resp.TotalAmount != "4381.25" {
		t.Errorf("total amount = %s, want 4381.25", resp.TotalAmount)
	}
	if resp.HourlyRate != "350.50" {
		t.Errorf("hourly rate = %s, want 350.50", resp.HourlyRate)
	}

	claimID, _ := uuid.Parse(resp.ID)
	stored := claims.get(claimID)
	if stored == nil {
		t.Fatal("claim not persisted")
	}
	if !stored.TotalAmount.Equal(stored.HoursWorked.Mul(stored.HourlyRate)) {
		t.Error("total amount does not equal hours * rate")
	}

	entries := history.forClaim(claimID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 creation history row, got %d", len(entries))
	}
	if entries[0].PreviousStatus != model.ClaimStatusDraft || entries[0].NewStatus != model.ClaimStatusSubmitted {
		t.Errorf("creation history recorded %s -> %s, want DRAFT -> SUBMITTED",
			entries[0].PreviousStatus, entries[0].NewStatus)
	}
	if entries[0].ActorID == nil || *entries[0].ActorID != lecturer.ID {
		t.Error("creation history should record the lecturer as actor")
	}
}

func TestSubmitClaim_RateFrozenAtSubmission(t *testing.T) {
	svc, claims, _, users, modules := setupClaimService()
	lecturer := seedLecturer(users, "200")
	mod := seedModule(modules)

	resp, err := svc.SubmitClaim(context.Background(), lecturer.ID, SubmitClaimRequest{
		ModuleID:    mod.ID.String(),
		ClaimPeriod: "2025-08",
		HoursWorked: "10",
	})
	if err != nil {
		t.Fatalf("SubmitClaim should succeed: %v", err)
	}

	// Raising the lecturer's rate afterwards must not touch the claim
	lecturer.HourlyRate = decimal.NewFromInt(999)
	_ = users.Update(context.Background(), lecturer)

	claimID, _ := uuid.Parse(resp.ID)
	stored := claims.get(claimID)
	if !stored.HourlyRate.Equal(decimal.NewFromInt(200)) {
		t.Errorf("claim rate = %s, want the rate frozen at submission (200)", stored.HourlyRate)
	}
	if !stored.TotalAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("claim total = %s, want 2000", stored.TotalAmount)
	}
}

func TestSubmitClaim_HoursBounds(t *testing.T) {
	cases := []struct {
		hours string
		valid bool
	}{
		{"0", false},
		{"-4", false},
		{"180.01", false},
		{"500", false},
		{"0.25", true},
		{"180", true},
	}

	for _, tc := range cases {
		svc, _, _, users, modules := setupClaimService()
		lecturer := seedLecturer(users, "100")
		mod := seedModule(modules)

		_, err := svc.SubmitClaim(context.Background(), lecturer.ID, SubmitClaimRequest{
			ModuleID:    mod.ID.String(),
			ClaimPeriod: "2025-08",
			HoursWorked: tc.hours,
		})
		if tc.valid && err != nil {
			t.Errorf("hours %s should be accepted: %v", tc.hours, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("hours %s should be rejected", tc.hours)
		}
	}
}

func TestSubmitClaim_InvalidPeriod(t *testing.T) {
	svc, _, _, users, modules := setupClaimService()
	lecturer := seedLecturer(users, "100")
	mod := seedModule(modules)

	for _, period := range []string{"2025", "08-2025", "2025-13", "August 2025", ""} {
		_, err := svc.SubmitClaim(context.Background(), lecturer.ID, SubmitClaimRequest{
			ModuleID:    mod.ID.String(),
			ClaimPeriod: period,
			HoursWorked: "10",
		})
		if err == nil {
			t.Errorf("period %q should be rejected", period)
		}
	}
}

func TestSubmitClaim_UnknownModule(t *testing.T) {
	svc, _, _, users, _ := setupClaimService()
	lecturer := seedLecturer(users, "100")

	_, err := svc.SubmitClaim(context.Background(), lecturer.ID, SubmitClaimRequest{
		ModuleID:    uuid.NewString(),
		ClaimPeriod: "2025-08",
		HoursWorked: "10",
	})
	if err == nil {
		t.Fatal("submitting against a missing module should fail")
	}
}

func TestSubmitClaim_NonLecturerRejected(t *testing.T) {
	svc, _, _, users, modules := setupClaimService()
	mod := seedModule(modules)

	coordinator := &model.User{
		ID:         uuid.New(),
		Username:   "c.naidoo",
		Email:      "c.naidoo@campus.example",
		Role:       model.RoleCoordinator,
		HourlyRate: decimal.NewFromInt(100),
	}
	_ = users.Create(context.Background(), coordinator)

	_, err := svc.SubmitClaim(context.Background(), coordinator.ID, SubmitClaimRequest{
		ModuleID:    mod.ID.String(),
		ClaimPeriod: "2025-08",
		HoursWorked: "10",
	})
	if err == nil {
		t.Fatal("non-lecturer submission should fail")
	}
}

func TestSubmitClaim_LecturerWithoutRate(t *testing.T) {
	svc, _, _, users, modules := setupClaimService()
	lecturer := seedLecturer(users, "0")
	mod := seedModule(modules)

	_, err := svc.SubmitClaim(context.Background(), lecturer.ID, SubmitClaimRequest{
		ModuleID:    mod.ID.String(),
		ClaimPeriod: "2025-08",
		HoursWorked: "10",
	})
	if err == nil {
		t.Fatal("lecturer without a configured rate should not be able to submit")
	}
}
