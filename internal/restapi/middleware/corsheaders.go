package middleware

import (
	"net/http"

	"github.com/go-http-utils/headers"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/logging"
)

func createCorsHeadersHandler(next http.Handler, conf config.CorsConfig) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if conf.DisableCors {
			logging.LoggerFromContext(r.Context()).Warn("sending headers to disable CORS. This configuration is not intended for production use, only for local development!")
			w.Header().Set(headers.AccessControlAllowOrigin, conf.AllowOrigin)
			w.Header().Set(headers.AccessControlAllowMethods, "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set(headers.AccessControlAllowHeaders, "content-type, authorization, x-api-key")
			w.Header().Set(headers.AccessControlAllowCredentials, "true")
			w.Header().Set(headers.AccessControlExposeHeaders, "Location, X-Request-Id")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func CorsHeadersMiddleware(conf config.CorsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(createCorsHeadersHandler(next, conf))
	}
}
