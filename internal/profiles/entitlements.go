package profiles

import (
	"math"
	"time"
)

// Access summarizes the billing state shown to the contractor.
type Access string

const (
	AccessActive  Access = "active"
	AccessTrial   Access = "trial"
	AccessExpired Access = "expired"

	maxTrialDaysRemaining = 3650
)

type Entitlements struct {
	Access             Access     `json:"access"`
	TrialStartedAt     *time.Time `json:"trial_started_at"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	TrialDaysRemaining *int       `json:"trial_days_remaining"`
	InTrial            bool       `json:"in_trial"`
	IsPaid             bool       `json:"is_paid"`
	CanCreateQuotes    bool       `json:"can_create_quotes"`
}

func evaluate(trialStartedAt *time.Time, subscribed bool, trial time.Duration, now time.Time) Entitlements {
	out := Entitlements{IsPaid: subscribed, TrialStartedAt: trialStartedAt}
	if trialStartedAt != nil {
		ends := trialStartedAt.Add(trial)
		out.TrialEndsAt = &ends
		out.InTrial = ends.After(now)
		days := daysRemaining(ends.Sub(now))
		out.TrialDaysRemaining = &days
	}
	out.CanCreateQuotes = out.IsPaid || out.InTrial

	switch {
	case out.IsPaid:
		out.Access = AccessActive
	case out.InTrial:
		out.Access = AccessTrial
	default:
		out.Access = AccessExpired
	}
	return out
}

func daysRemaining(left time.Duration) int {
	if left <= 0 {
		return 0
	}
	days := int(math.Ceil(float64(left) / float64(24*time.Hour)))
	if days > maxTrialDaysRemaining {
		return maxTrialDaysRemaining
	}
	return days
}
