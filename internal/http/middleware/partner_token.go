package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ioramishvili/GuestService/internal/http/response"
)

// PartnerToken rejects any request whose x-partner-token header does not
// match the configured token, before any handler logic runs.
func PartnerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-partner-token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				response.Unauthorized(w, "invalid partner token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
