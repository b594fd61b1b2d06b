package internal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// randomHex returns n random bytes hex-encoded. crypto/rand is safe for
// concurrent use, so identifiers can be generated from any handler.
func randomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// NewTransactionUuid generates the one-time transaction_uuid for a signed
// payload: 128 bits of randomness, hex-encoded. Generation failure is
// surfaced rather than degraded, since a predictable transaction id weakens
// the one-time property of the payload.
func NewTransactionUuid() (string, error) {
	id, err := randomHex(16)
	if err != nil {
		return "", fmt.Errorf("generate transaction uuid: %w", err)
	}
	return id, nil
}

// GenerateRequestID creates a unique identifier for request tracing.
func GenerateRequestID() string {
	id, err := randomHex(16)
	if err != nil {
		// Tracing ids are not security sensitive; fall back to a timestamp.
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return id
}

// WithRequestID adds a request ID to the context.
// If the context already has a request ID, it returns the context unchanged.
func WithRequestID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(requestIDKey).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, GenerateRequestID())
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if no request ID is present.
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}
