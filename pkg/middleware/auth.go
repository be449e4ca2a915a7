package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fkhayef/splitledger/internal/auth"
	"github.com/fkhayef/splitledger/pkg/apperror"
	"github.com/fkhayef/splitledger/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ActorIDKey is the context key for the acting member ID
	ActorIDKey ContextKey = "actor_id"

	// DevActorHeader names the header accepted in place of a token when enabled
	DevActorHeader = "X-Member-ID"
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate resolves the acting member from a bearer token, or from
// X-Member-ID when allowDevHeader is set (DEV ONLY). Requests without a
// resolvable actor get 401.
func Authenticate(tokens TokenParser, allowDevHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowDevHeader {
				if memberID := strings.TrimSpace(r.Header.Get(DevActorHeader)); memberID != "" {
					next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), memberID)))
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.FromError(w, r, apperror.ErrAuthRequired.WithMessage("authorization header required"))
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.FromError(w, r, apperror.ErrInvalidToken.WithMessage("invalid authorization header format"))
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					response.FromError(w, r, apperror.ErrInvalidToken.WithMessage("token has expired"))
					return
				}
				response.FromError(w, r, apperror.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Subject)))
		})
	}
}

// WithActor stores the acting member ID on ctx
func WithActor(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, ActorIDKey, memberID)
}

// ActorID extracts the acting member ID from the request context
func ActorID(ctx context.Context) (string, bool) {
	memberID, ok := ctx.Value(ActorIDKey).(string)
	return memberID, ok && memberID != ""
}

// RequireActor is ActorID for handlers: it returns AUTH_REQUIRED when no actor is set
func RequireActor(ctx context.Context) (string, error) {
	memberID, ok := ActorID(ctx)
	if !ok {
		return "", apperror.ErrAuthRequired
	}
	return memberID, nil
}
