package middleware

import (
	"net/http"
)

// BodySizeLimit creates middleware that caps request bodies at maxBytes.
// A declared Content-Length over the limit is rejected up front; otherwise the
// body is wrapped in http.MaxBytesReader so chunked uploads fail on read.
// A non-positive maxBytes disables the limit.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
