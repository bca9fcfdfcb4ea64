package http

import (
	"net/http"
	"strconv"
)

// userIDHeader carries the caller's identity, set by the API gateway after
// token validation. Requests without it never reach this service in
// production; the check here is a guard for direct calls.
const userIDHeader = "X-User-Id"

func callerUserID(r *http.Request) (int64, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
