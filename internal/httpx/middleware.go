package httpx

import "net/http"

// HeaderUserID is set by the external API gateway after it verifies the
// caller's bearer token. Internal services trust it unconditionally, which
// is only safe because they are reachable from the gateway's network alone.
const HeaderUserID = "X-User-Id"

func UserID(r *http.Request) string { return r.Header.Get(HeaderUserID) }

// RequireUser rejects requests that arrive without a caller identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r) == "" {
			writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "missing user id"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
