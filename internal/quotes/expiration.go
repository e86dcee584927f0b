package quotes

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultExpiration is how long a new quote stays valid.
	DefaultExpiration = 14 * 24 * time.Hour
	// ExpiringSoonWindow flags quotes close to their expiry.
	ExpiringSoonWindow = 72 * time.Hour
)

// Expiration describes where a quote sits relative to its expires_at.
type Expiration struct {
	ExpiresAt      *time.Time     `json:"expires_at"`
	IsExpired      bool           `json:"is_expired"`
	IsExpiringSoon bool           `json:"is_expiring_soon"`
	Remaining      *time.Duration `json:"-"`
	ExpiresIn      *string        `json:"expires_in"`
}

// ExpirationStatus evaluates expiresAt at now. A quote without an expiry never expires.
func ExpirationStatus(expiresAt *time.Time, now time.Time, window time.Duration) Expiration {
	if expiresAt == nil || expiresAt.IsZero() {
		return Expiration{}
	}
	remaining := expiresAt.Sub(now)
	expired := remaining <= 0
	status := Expiration{
		ExpiresAt:      expiresAt,
		IsExpired:      expired,
		IsExpiringSoon: !expired && remaining <= window,
		Remaining:      &remaining,
	}
	label := FormatExpiresIn(remaining)
	status.ExpiresIn = &label
	return status
}

// FormatExpiresIn renders the remaining time in whole hours, switching to
// days once 48 hours or more remain. Both units round up.
func FormatExpiresIn(remaining time.Duration) string {
	if remaining <= 0 {
		return "Expired"
	}
	hours := int(math.Ceil(float64(remaining) / float64(time.Hour)))
	if hours >= 48 {
		days := int(math.Ceil(float64(hours) / 24))
		return fmt.Sprintf("Expires in %d %s", days, plural(days, "day"))
	}
	return fmt.Sprintf("Expires in %d %s", hours, plural(hours, "hour"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
