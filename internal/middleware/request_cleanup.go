package middleware

import (
	"io"
	"net/http"
)

// DrainAndCloseRequest caps the request body at maxBytes (no cap when not
// positive) and, once the handler returns, reads whatever it left unread and
// closes the body so keep-alive connections can be reused.
func DrainAndCloseRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body := r.Body
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, body, maxBytes)
			}
			next.ServeHTTP(w, r)

			_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
			_ = body.Close()
		})
	}
}

// leftovers bigger than this are not worth draining, the connection is
// dropped instead
const maxDrainBytes = 256 << 10
