// Package shared holds helpers used across feature handlers.
package shared

import "net/http"

// CallerIDHeader carries the authenticated user's identity-provider ID,
// set by the edge proxy after it validates the session token.
const CallerIDHeader = "X-Clerk-User-Id"

// CallerID extracts the caller's identity from the request. The query
// fallback exists for local development without the proxy.
func CallerID(r *http.Request) string {
	if id := r.Header.Get(CallerIDHeader); id != "" {
		return id
	}
	return r.URL.Query().Get("clerk_id")
}
