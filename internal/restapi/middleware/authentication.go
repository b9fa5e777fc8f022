package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-http-utils/headers"
	"github.com/golang-jwt/jwt/v4"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/restapi/common"
)

const apiKeyHeader = "X-Api-Key"
const bearerPrefix = "Bearer"

func parseAuthCookie(r *http.Request, cookieName string) string {
	if cookieName == "" {
		return ""
	}

	authCookie, err := r.Cookie(cookieName)
	if err != nil && errors.Is(err, http.ErrNoCookie) {
		return ""
	}

	return fmt.Sprintf("%s %s", bearerPrefix, authCookie.Value)
}

func parseBearerToken(r *http.Request, conf *config.SecurityConfig) string {
	token := r.Header.Get(headers.Authorization)
	if token != "" {
		return token
	}

	return parseAuthCookie(r, conf.Oidc.TokenCookieName)
}

func getApiKeyFromHeader(r *http.Request) string {
	return r.Header.Get(apiKeyHeader)
}

func keyFuncForKey(rsaPublicKey *rsa.PublicKey) func(token *jwt.Token) (interface{}, error) {
	return func(token *jwt.Token) (interface{}, error) {
		return rsaPublicKey, nil
	}
}

// CheckRequestAuthorization validates the api key or jwt of a request and
// places the token and parsed claims in the context. Requests without
// credentials pass through without claims, the service layer decides what
// an anonymous caller may do.
func CheckRequestAuthorization(conf *config.SecurityConfig) func(http.Handler) http.Handler {
	parsedPEMs := make([]*rsa.PublicKey, len(conf.Oidc.TokenPublicKeysPEM))

	for i, publicKey := range conf.Oidc.TokenPublicKeysPEM {
		rsaKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKey))
		if err != nil {
			panic("Couldn't parse configured pem " + publicKey)
		}

		parsedPEMs[i] = rsaKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := common.GetRequestID(ctx)
			logger := logging.LoggerFromContext(ctx)

			// check for api key first
			if apiKey := getApiKeyFromHeader(r); apiKey != "" {
				if apiKey == conf.Fixed.Api {
					ctx = context.WithValue(ctx, common.CtxKeyAPIKey{}, apiKey)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				common.SendUnauthorizedResponse(w, reqID, logger, "invalid api key")
				return
			}

			bearerToken := parseBearerToken(r, conf)
			if bearerToken == "" {
				// no credentials provided at all
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(bearerToken, bearerPrefix+" ") {
				common.SendUnauthorizedResponse(w, reqID, logger, "value of Authorization header did not start with 'Bearer '")
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(bearerToken, bearerPrefix))

			claims := common.AllClaims{}

			var errorMessage string
			for _, key := range parsedPEMs {
				parsedToken, err := jwt.ParseWithClaims(tokenString, &claims, keyFuncForKey(key))
				if err == nil && parsedToken.Valid {
					parsedClaims, ok := parsedToken.Claims.(*common.AllClaims)
					if ok {
						ctx = context.WithValue(ctx, common.CtxKeyToken{}, tokenString)
						ctx = context.WithValue(ctx, common.CtxKeyClaims{}, parsedClaims)
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}

					errorMessage = "empty claims substructure"
				} else if err != nil {
					errorMessage = err.Error()
				}
			}

			logger.Error("token parsing failed. [error]: %s", errorMessage)
			common.SendUnauthorizedResponse(w, reqID, logger, "invalid bearer token")
		})
	}
}
