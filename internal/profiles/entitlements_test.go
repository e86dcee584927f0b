package profiles

import (
	"testing"
	"time"
)

func TestEvaluateEntitlements(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trial := 7 * 24 * time.Hour
	started := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	cases := []struct {
		name       string
		started    *time.Time
		subscribed bool
		access     Access
		canCreate  bool
		daysLeft   int
	}{
		{name: "fresh trial", started: started(0), access: AccessTrial, canCreate: true, daysLeft: 7},
		{name: "mid trial", started: started(5*24*time.Hour + time.Hour), access: AccessTrial, canCreate: true, daysLeft: 2},
		{name: "trial over", started: started(8 * 24 * time.Hour), access: AccessExpired, daysLeft: 0},
		{name: "paid after trial", started: started(30 * 24 * time.Hour), subscribed: true, access: AccessActive, canCreate: true, daysLeft: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := evaluate(tc.started, tc.subscribed, trial, now)
			if got.Access != tc.access {
				t.Fatalf("expected access %s, got %s", tc.access, got.Access)
			}
			if got.CanCreateQuotes != tc.canCreate {
				t.Fatalf("expected can create %v, got %v", tc.canCreate, got.CanCreateQuotes)
			}
			if got.TrialDaysRemaining == nil || *got.TrialDaysRemaining != tc.daysLeft {
				t.Fatalf("expected %d days left, got %v", tc.daysLeft, got.TrialDaysRemaining)
			}
		})
	}
}

func TestEvaluateWithoutTrial(t *testing.T) {
	got := evaluate(nil, false, time.Hour, time.Now())
	if got.CanCreateQuotes || got.Access != AccessExpired || got.TrialEndsAt != nil {
		t.Fatalf("unexpected entitlements %+v", got)
	}
}
