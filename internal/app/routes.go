package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Clients
	r.HandleFunc("/api/clients", deps.ClientHandler.List).Methods("GET")
	r.HandleFunc("/api/clients", deps.ClientHandler.Create).Methods("POST")
	r.HandleFunc("/api/clients/{clientId}", deps.ClientHandler.Get).Methods("GET")
	r.HandleFunc("/api/clients/{clientId}", deps.ClientHandler.Update).Methods("PUT")

	// Projects
	r.HandleFunc("/api/projects", deps.ProjectHandler.List).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}", deps.ProjectHandler.Get).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/balance", deps.DashboardHandler.ProjectBalance).Methods("GET")

	// Payments
	r.HandleFunc("/api/payments", deps.PaymentHandler.List).Methods("GET")
	r.HandleFunc("/api/payments", deps.PaymentHandler.Create).Methods("POST")

	// Dashboard
	r.HandleFunc("/api/dashboard/summary", deps.DashboardHandler.Summary).Methods("GET")
	r.HandleFunc("/api/dashboard/overview", deps.DashboardHandler.Overview).Methods("GET")
	r.HandleFunc("/api/dashboard/calendar", deps.DashboardHandler.Calendar).Methods("GET")
	r.HandleFunc("/api/dashboard/timeline", deps.DashboardHandler.Timeline).Methods("GET")
}
