package middleware

import (
	"net/http"
	"strings"

	"github.com/leviwiederhold/forman/api/responses"
	pkgAuth "github.com/leviwiederhold/forman/pkg/auth"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
)

// TokenVerifier is satisfied by *auth.Manager.
type TokenVerifier interface {
	Parse(raw string) (*pkgAuth.AccessTokenClaims, error)
}

// Auth requires a valid access token and puts the contractor id and the
// email_verified flag on the request context. The "Bearer " prefix is optional.
func Auth(tokens TokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithEmailVerified(WithContractorID(r.Context(), claims.ContractorID), claims.EmailVerified)
			if logg != nil {
				ctx = logg.WithContractorID(ctx, claims.ContractorID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	return header
}
