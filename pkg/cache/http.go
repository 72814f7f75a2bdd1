package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is used when the response carries neither max-age nor Expires.
const DefaultTTL = 5 * time.Minute

// EntryFromResponse builds an Entry from a 200 response and its already-read body.
func EntryFromResponse(resp *http.Response, body []byte) *Entry {
	now := time.Now()
	entry := &Entry{
		Data:     body,
		ETag:     resp.Header.Get("ETag"),
		Expires:  expiresFrom(resp.Header, now),
		StoredAt: now,
	}

	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		if t, err := http.ParseTime(lastMod); err == nil {
			entry.LastModified = t
		}
	}

	return entry
}

// expiresFrom derives the freshness deadline. Cache-Control max-age wins over
// Expires; no-store and no-cache yield an already stale entry.
func expiresFrom(headers http.Header, now time.Time) time.Time {
	if cc := headers.Get("Cache-Control"); cc != "" {
		for _, directive := range strings.Split(cc, ",") {
			directive = strings.TrimSpace(strings.ToLower(directive))
			switch {
			case directive == "no-store", directive == "no-cache":
				return now
			case strings.HasPrefix(directive, "max-age="):
				secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
				if err == nil && secs >= 0 {
					return now.Add(time.Duration(secs) * time.Second)
				}
			}
		}
	}

	if exp := headers.Get("Expires"); exp != "" {
		if t, err := http.ParseTime(exp); err == nil {
			if t.Before(now) {
				return now
			}
			return t
		}
	}

	return now.Add(DefaultTTL)
}

// AddConditionalHeaders adds If-None-Match or If-Modified-Since to req.
// ETag is preferred.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}

	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.UTC().Format(http.TimeFormat))
	}
}
