package cache

import (
	"time"
)

// Entry is a cached response body with its validators.
type Entry struct {
	// Data is the raw response body.
	Data []byte `json:"data"`

	// ETag is sent back as If-None-Match when the entry goes stale.
	ETag string `json:"etag,omitempty"`

	// LastModified is sent back as If-Modified-Since when there is no ETag.
	LastModified time.Time `json:"last_modified,omitempty"`

	// Expires is when the entry stops being served without revalidation.
	Expires time.Time `json:"expires"`

	// StoredAt is when the entry was written.
	StoredAt time.Time `json:"stored_at"`
}

// IsFresh reports whether the entry can be served without revalidation.
func (e *Entry) IsFresh() bool {
	return time.Now().Before(e.Expires)
}

// CanRevalidate reports whether the entry carries a validator.
func (e *Entry) CanRevalidate() bool {
	return e.ETag != "" || !e.LastModified.IsZero()
}

// TTL returns the time until the entry goes stale, or 0 if it already has.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
