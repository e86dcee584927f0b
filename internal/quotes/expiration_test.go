package quotes

import (
	"testing"
	"time"
)

func TestExpirationStatusWithoutExpiry(t *testing.T) {
	status := ExpirationStatus(nil, time.Now(), ExpiringSoonWindow)
	if status.IsExpired || status.IsExpiringSoon || status.Remaining != nil || status.ExpiresIn != nil {
		t.Fatalf("expected empty status, got %+v", status)
	}
}

func TestExpirationStatusWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		offset  time.Duration
		expired bool
		soon    bool
		label   string
	}{
		{name: "past", offset: -time.Minute, expired: true, label: "Expired"},
		{name: "exactly now", offset: 0, expired: true, label: "Expired"},
		{name: "one hour", offset: time.Hour, soon: true, label: "Expires in 1 hour"},
		{name: "partial hour rounds up", offset: 90 * time.Minute, soon: true, label: "Expires in 2 hours"},
		{name: "47 hours", offset: 47 * time.Hour, soon: true, label: "Expires in 47 hours"},
		{name: "just under 48 hours", offset: 47*time.Hour + 30*time.Minute, soon: true, label: "Expires in 2 days"},
		{name: "window edge", offset: 72 * time.Hour, soon: true, label: "Expires in 3 days"},
		{name: "past window", offset: 72*time.Hour + time.Millisecond, label: "Expires in 4 days"},
		{name: "fourteen days", offset: 14 * 24 * time.Hour, label: "Expires in 14 days"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expiresAt := now.Add(tc.offset)
			status := ExpirationStatus(&expiresAt, now, ExpiringSoonWindow)
			if status.IsExpired != tc.expired {
				t.Fatalf("expired: expected %v, got %v", tc.expired, status.IsExpired)
			}
			if status.IsExpiringSoon != tc.soon {
				t.Fatalf("expiring soon: expected %v, got %v", tc.soon, status.IsExpiringSoon)
			}
			if status.ExpiresIn == nil || *status.ExpiresIn != tc.label {
				t.Fatalf("expected label %q, got %v", tc.label, status.ExpiresIn)
			}
			if status.Remaining == nil || *status.Remaining != tc.offset {
				t.Fatalf("expected remaining %v, got %v", tc.offset, status.Remaining)
			}
		})
	}
}

func TestFormatExpiresInSingularDay(t *testing.T) {
	if got := FormatExpiresIn(-time.Hour); got != "Expired" {
		t.Fatalf("expected Expired, got %q", got)
	}
	if got := FormatExpiresIn(time.Nanosecond); got != "Expires in 1 hour" {
		t.Fatalf("expected 1 hour, got %q", got)
	}
}
