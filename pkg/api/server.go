/*
msetd REST API

This is the REST API for msetd, a process serving an in-memory ordered
multiset of strings backed by a concurrent B-tree.

Version: 1.0.0
Host: localhost:8080
BasePath: /api/v1
*/
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ssargent/btreemset/pkg/service"
)

// NewRouter assembles the chi router for a multiset service: request
// logging, panic recovery, request-ID stamping, CORS, a Prometheus scrape
// endpoint, and the /api/v1 route group. Split out from StartServer so
// tests can exercise routing without binding a listener.
func NewRouter(svc *service.MultisetService, config ServerConfig, metrics *Metrics) *chi.Mux {
	server := NewServer(svc, config, metrics)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Post("/keys", metrics.InstrumentHandler("POST", "/api/v1/keys", server.handleInsert))
		r.Get("/keys", metrics.InstrumentHandler("GET", "/api/v1/keys", server.handleListKeys))
		r.Get("/keys/{key}", metrics.InstrumentHandler("GET", "/api/v1/keys/{key}", server.handleContains))
		r.Delete("/keys/{key}", metrics.InstrumentHandler("DELETE", "/api/v1/keys/{key}", server.handleRemove))

		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured. It blocks
// until the listener fails, at which point it logs the error and exits the
// process, matching the teacher's own StartServer.
func StartServer(svc *service.MultisetService, config ServerConfig) error {
	r := NewRouter(svc, config, NewMetrics())

	addr := fmt.Sprintf(":%d", config.Port)
	fmt.Printf("Starting msetd REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://localhost:%d/metrics\n", config.Port)
	log.Fatal(http.ListenAndServe(addr, r))

	return nil
}
