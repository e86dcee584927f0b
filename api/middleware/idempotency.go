package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/leviwiederhold/forman/api/responses"
	"github.com/leviwiederhold/forman/api/validators"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
	pkgredis "github.com/leviwiederhold/forman/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	replayTTL         = 24 * time.Hour
	responseReplayTTL = 7 * 24 * time.Hour
	inFlightTTL       = 30 * time.Second
	maxKeyLength      = 255
)

// replayPolicy marks a mutating route whose response is recorded per key.
// When keyOptional is set, requests without a key pass straight through.
type replayPolicy struct {
	method      string
	path        *regexp.Regexp
	ttl         time.Duration
	keyOptional bool
}

var replayPolicies = []replayPolicy{
	{method: http.MethodPost, path: regexp.MustCompile(`^/api/v1/quotes$`), ttl: replayTTL},
	{method: http.MethodPost, path: regexp.MustCompile(`^/api/v1/quotes/[^/]+/duplicate$`), ttl: replayTTL},
	{method: http.MethodPost, path: regexp.MustCompile(`^/api/v1/quotes/[^/]+/share$`), ttl: replayTTL},
	{method: http.MethodPost, path: regexp.MustCompile(`^/api/public/quotes/share/[^/]+/respond$`), ttl: responseReplayTTL, keyOptional: true},
}

func policyFor(method, path string) (replayPolicy, bool) {
	path = strings.TrimSuffix(path, "/")
	for _, p := range replayPolicies {
		if p.method == method && p.path.MatchString(path) {
			return p, true
		}
	}
	return replayPolicy{}, false
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the first recorded response for a repeated key. A key
// reused with a different body, or while the first request is still running,
// is rejected with a conflict. Server errors are not recorded so the client
// can retry with the same key.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy, ok := policyFor(r.Method, r.URL.Path)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			switch {
			case clientKey == "" && policy.keyOptional:
				next.ServeHTTP(w, r)
				return
			case clientKey == "":
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, IdempotencyHeader+" header required"))
				return
			case len(clientKey) > maxKeyLength:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, IdempotencyHeader+" header is too long"))
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body could not be read or is too large"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := hex.EncodeToString(sum[:])
			key := store.IdempotencyKey(replayScope(r), clientKey)

			prior, err := lookup(r.Context(), store, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if prior != nil {
				if prior.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				prior.replay(w)
				return
			}

			claimKey := key + ":inflight"
			claimed, err := store.SetNX(r.Context(), claimKey, requestHash, inFlightTTL)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key"))
				return
			}
			if !claimed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "a request with this idempotency key is still in progress"))
				return
			}
			defer func() {
				if err := store.Del(context.WithoutCancel(r.Context()), claimKey); err != nil && logg != nil {
					logg.Error(r.Context(), "release idempotency claim", err)
				}
			}()

			capture := &bodyCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			status := capture.statusOrOK()
			if status >= http.StatusInternalServerError {
				return
			}
			payload, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.buf.Bytes(),
				RequestHash: requestHash,
			})
			if err == nil {
				_, err = store.SetNX(context.WithoutCancel(r.Context()), key, string(payload), policy.ttl)
			}
			if err != nil && logg != nil {
				logg.Error(r.Context(), "record idempotent response", err)
			}
		})
	}
}

// replayScope keeps keys from colliding across contractors and routes.
func replayScope(r *http.Request) string {
	owner := "public"
	if id := ContractorIDFromContext(r.Context()); id != uuid.Nil {
		owner = id.String()
	}
	return owner + "|" + r.Method + "|" + strings.TrimSuffix(r.URL.Path, "/")
}

func lookup(ctx context.Context, store pkgredis.IdempotencyStore, key string) (*storedResponse, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec storedResponse
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

type bodyCapture struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (c *bodyCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *bodyCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *bodyCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
