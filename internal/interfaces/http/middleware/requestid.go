package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

const HeaderRequestID = "X-Request-ID"

// RequestID copies the request ID assigned by chi's RequestID middleware
// into the shared context key and echoes it in the response.  It must run
// after chimw.RequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id == "" {
			id = common.GenerateID("req")
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), common.ContextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom returns the request ID stored by RequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(common.ContextKeyRequestID).(string)
	return id
}

// MaxBodySize caps request bodies at n bytes.  n <= 0 disables the cap.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
