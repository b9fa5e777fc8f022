package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/interaction"
	"github.com/oremont/rfp-service/internal/restapi/middleware"
	v1health "github.com/oremont/rfp-service/internal/restapi/v1/health"
	v1requests "github.com/oremont/rfp-service/internal/restapi/v1/requests"
	v1suppliers "github.com/oremont/rfp-service/internal/restapi/v1/suppliers"
)

func NewServer(ctx context.Context, conf config.ServerConfig, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.BaseAddress, conf.Port),
		Handler:      router,
		ReadTimeout:  time.Second * time.Duration(conf.ReadTimeout),
		WriteTimeout: time.Second * time.Duration(conf.WriteTimeout),
		IdleTimeout:  time.Second * time.Duration(conf.IdleTimeout),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}
}

func CreateRouter(i interaction.Interactor, conf *config.SecurityConfig) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger)
	router.Use(middleware.CorsHeadersMiddleware(conf.Cors))

	setupV1Routes(router, i, conf)

	return router
}

func setupV1Routes(router chi.Router, i interaction.Interactor, conf *config.SecurityConfig) {
	v1health.Create(router)

	router.Route("/api/rest/v1", func(r chi.Router) {
		r.Use(middleware.CheckRequestAuthorization(conf))
		v1requests.Create(r, i)
		v1suppliers.Create(r, i)
	})
}
