package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/idempotency"
)

const idempotencyHeader = "Idempotency-Key"

// idempotentCall runs a create-style operation at most once per
// (Idempotency-Key, subject, route, body). A retry with the same body replays the stored
// response. Reusing a key with a different body is a 409.
//
// exec returns the success status and payload, or an error for writeServiceError.
// Requests without the header, or when no store is configured, run exec directly.
func (s *Server) idempotentCall(w http.ResponseWriter, r *http.Request, operation string, raw []byte, exec func() (int, any, error)) {
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key == "" || s.Idem == nil {
		status, data, err := exec()
		if err != nil {
			writeServiceError(w, r, operation, err)
			return
		}
		writeData(w, r, status, data)
		return
	}

	ctx := r.Context()
	sub, _ := SubjectFromContext(ctx)
	sum := sha256.Sum256(raw)
	bodyHash := hex.EncodeToString(sum[:])

	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: domain.SubjectID(sub),
		Method:  r.Method,
		Route:   routePattern(r),
	}
	if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
		writeInternal(w, r, operation, err)
		return
	} else if ok {
		if string(meta.Body) != bodyHash {
			logHTTPOperationError(ctx, operation, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reused with a different request body", nil)
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "Idempotency-Key was already used with a different request body.", nil)
			return
		}
	} else if err := s.Idem.Put(ctx, metaFP, idempotency.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte(bodyHash),
	}); err != nil {
		writeInternal(w, r, operation, err)
		return
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
		writeInternal(w, r, operation, err)
		return
	} else if ok && rec.StatusCode >= 200 && rec.StatusCode < 300 && rec.ContentType == "application/json" {
		w.Header().Set("Idempotent-Replayed", "true")
		writeJSON(w, rec.StatusCode, rec.Body)
		return
	}

	status, data, err := exec()
	if err != nil {
		writeServiceError(w, r, operation, err)
		return
	}
	b, err := encodeData(data)
	if err != nil {
		writeInternal(w, r, operation, err)
		return
	}
	if err := s.Idem.Put(ctx, respFP, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        b,
	}); err != nil {
		// The operation already succeeded; the response is still returned.
		logHTTPOperationError(ctx, operation, http.StatusInternalServerError, "IDEMPOTENCY_STORE", "failed to store idempotent response", err)
	}
	writeJSON(w, status, b)
}
