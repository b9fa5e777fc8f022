package middleware

import (
	"net/http"

	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/restapi/common"
)

// RequestLogger attaches a logger tagged with the request id to the
// context, so all downstream log lines of the request carry it.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.CreateContextWithLoggerForRequestId(r.Context(), common.GetRequestID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
