package backend

import (
	"bytes"
	"encoding/json"
	"strings"
)

// isBookingsPath reports whether a path belongs to the bookings endpoint
// family, whose responses are normalized before being handed to callers.
func isBookingsPath(path string) bool {
	p := path
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return strings.HasPrefix(p, "/admin/bookings")
}

// NormalizeBookings collapses the heterogeneous booking response shapes the
// backend has emitted over time into a single JSON array:
//
//  1. an array passes through as-is
//  2. an object with a "bookings" array field yields that array
//  3. any other object is wrapped into a one-element array
//  4. anything else yields an empty array
func NormalizeBookings(payload json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return json.RawMessage("[]")
	}

	switch trimmed[0] {
	case '[':
		return trimmed
	case '{':
		var envelope struct {
			Bookings json.RawMessage `json:"bookings"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			inner := bytes.TrimSpace(envelope.Bookings)
			if len(inner) > 0 && inner[0] == '[' {
				return inner
			}
		}
		wrapped := make([]byte, 0, len(trimmed)+2)
		wrapped = append(wrapped, '[')
		wrapped = append(wrapped, trimmed...)
		wrapped = append(wrapped, ']')
		return wrapped
	default:
		return json.RawMessage("[]")
	}
}
