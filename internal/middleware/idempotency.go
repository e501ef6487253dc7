package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busreserve/internal/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	replayTTL         = 24 * time.Hour
)

// replayRecord is what a retried POST gets back instead of running again.
// Fingerprint ties the key to the request body that produced the outcome.
type replayRecord struct {
	Status      int             `json:"status"`
	Body        json.RawMessage `json:"body"`
	Fingerprint string          `json:"fingerprint"`
}

// bodyRecorder copies the JSON body written by the handler.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyMiddleware replays the stored outcome of a POST that carries an
// Idempotency-Key already seen on the same route, so a retried booking gets
// its original 201 instead of a seat conflict. Reusing a key with a different
// body is refused with 422. A nil store disables the middleware.
func IdempotencyMiddleware(store redis.ResponseStoreInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if store == nil || key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		storeKey := c.Request.URL.Path + "|" + key
		fingerprint := fingerprintOf(body)

		record, err := loadReplay(ctx, store, storeKey)
		if err != nil {
			// Store unavailable: serve the request without replay.
			c.Next()
			return
		}

		if record != nil {
			if record.Fingerprint != fingerprint {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
					"error": "idempotency key was already used with a different request",
				})
				return
			}
			c.Header(replayedHeader, "true")
			c.Data(record.Status, "application/json; charset=utf-8", record.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if !isFinalOutcome(rec.Status()) || !json.Valid(rec.buf.Bytes()) {
			return
		}
		data, err := json.Marshal(replayRecord{
			Status:      rec.Status(),
			Body:        rec.buf.Bytes(),
			Fingerprint: fingerprint,
		})
		if err != nil {
			return
		}
		_ = store.Set(ctx, storeKey, data, replayTTL)
	}
}

// isFinalOutcome reports whether a status settles the request: it succeeded,
// or its seats were refused. Other errors may succeed on retry.
func isFinalOutcome(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusConflict
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(body))
	return hex.EncodeToString(sum[:])
}

func loadReplay(ctx context.Context, store redis.ResponseStoreInterface, key string) (*replayRecord, error) {
	data, err := store.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}

	var record replayRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
