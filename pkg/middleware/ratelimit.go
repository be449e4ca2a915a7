package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/fkhayef/splitledger/pkg/apperror"
	"github.com/fkhayef/splitledger/pkg/response"
)

// RateLimit allows requests per window for each client IP. Requests over
// the limit get 429 RATE_LIMITED in the usual error envelope.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.FromError(w, r, apperror.ErrRateLimited)
		}),
	)
}
