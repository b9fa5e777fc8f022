package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/oremont/rfp-service/internal/restapi/common"
)

// RequestIDHeader is read on incoming requests and forwarded on
// downstream calls.
const RequestIDHeader = "X-Request-Id"

var requestIDPattern = regexp.MustCompile("^[0-9a-f]{8}$")

// RequestID places a short correlation id in the context. A well formed
// id supplied by the caller is taken over, anything else is replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !requestIDPattern.MatchString(id) {
			id = freshRequestID()
		}

		ctx := context.WithValue(r.Context(), common.CtxKeyRequestID{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func freshRequestID() string {
	generated, err := uuid.NewRandom()
	if err != nil {
		// keep serving with a recognizable fallback id
		return "ffffffff"
	}

	return generated.String()[:8]
}
