package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewRouter wires the public surface. CORS is wide open on purpose: the
// stats endpoint feeds a static landing page, and the USSD callback is
// origin-checked by IP, not by browser policy.
func NewRouter(handler *Handler, health *Health, stats *Stats) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ussd", handler.USSD).Methods(http.MethodPost)
	r.Handle("/health", health).Methods(http.MethodGet)
	r.Handle("/api/stats", stats).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}
