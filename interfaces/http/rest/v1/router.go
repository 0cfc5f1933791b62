package v1

import (
	"net/http"

	"kindra/interfaces/http/rest/handlers"

	"github.com/gorilla/mux"
)

// NewRouter creates the legacy v1 API router. It only exposes the read
// side: insights and advice.
func NewRouter(
	insightHandler *handlers.InsightHandler,
	authenticate func(http.Handler) http.Handler,
	adviceLimit func(http.Handler) http.Handler,
) *mux.Router {
	router := mux.NewRouter()
	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/health", healthCheck).Methods("GET")

	authed := v1.NewRoute().Subrouter()
	authed.Use(authenticate)
	authed.HandleFunc("/insights", insightHandler.GetInsights).Methods("GET")
	authed.Handle("/advice", adviceLimit(http.HandlerFunc(insightHandler.AskAdvice))).Methods("POST")

	return router
}

// healthCheck provides a health check endpoint
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","version":"v1"}`))
}
