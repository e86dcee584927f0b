package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxContractorID  contextKey = "contractor_id"
	ctxEmailVerified contextKey = "email_verified"
)

// ContractorIDFromContext returns uuid.Nil when the request is unauthenticated.
func ContractorIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxContractorID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func EmailVerifiedFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(ctxEmailVerified).(bool)
	return v
}

// WithContractorID injects the contractor identifier into the context.
func WithContractorID(ctx context.Context, contractorID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxContractorID, contractorID)
}

func WithEmailVerified(ctx context.Context, verified bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxEmailVerified, verified)
}
