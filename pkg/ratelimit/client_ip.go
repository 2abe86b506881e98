package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownIP is recorded when no forwarding header identifies the client.
const UnknownIP = "unknown"

// ClientIP derives the client address from forwarding headers: the first
// X-Forwarded-For entry, else X-Real-IP, else UnknownIP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			xff = xff[:idx]
		}
		if ip := strings.TrimSpace(xff); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return UnknownIP
}
