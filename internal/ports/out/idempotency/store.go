package idempotency

import (
	"context"
	"time"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes.
//
// Strategy: key + staff subject + route + request body hash.
// Route is HTTP method + path template (e.g. "POST /api/v1/members/{memberId}/membership").
// A record stored with an empty BodyHash holds the hash first seen for the key, so reuse
// of a key with a different payload can be rejected.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying safe responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
