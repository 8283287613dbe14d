package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

const idempotencyTTL = 24 * time.Hour

type CachedResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       []byte `json:"body"`
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, error)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}

// responseRecorder captures what the handler writes so a repeated request
// can be answered with the identical response.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Store failures fail open: a duplicate transfer attempt is still caught
// by the ledger's unique posting reference, so availability wins here.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			cached, err := store.Get(ctx, key)
			if err != nil {
				logger.Error("idempotency middleware lookup failed", err, logger.Fields{
					"path": r.URL.Path,
				})
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				logger.Info("idempotency middleware replay", logger.Fields{
					"path": r.URL.Path,
				})
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			}

			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(recorder, r)

			// Server errors stay retryable, so never cache them.
			if recorder.statusCode < 500 {
				if err := store.Save(ctx, key, CachedResponse{
					StatusCode: recorder.statusCode,
					Body:       recorder.body.Bytes(),
				}, idempotencyTTL); err != nil {
					logger.Error("idempotency middleware save failed", err, logger.Fields{
						"path": r.URL.Path,
					})
				}
			}
		})
	}
}
