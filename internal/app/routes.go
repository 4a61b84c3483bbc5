package app

import (
	"net/http"

	"github.com/flexkonto/flexkonto/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Registration is the only call without a user
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireUser)

	// User
	api.HandleFunc("/user/current", deps.UserHandler.CurrentUser).Methods("GET")

	// Settings
	api.HandleFunc("/config", deps.ConfigHandler.GetConfig).Methods("GET")
	api.HandleFunc("/config", deps.ConfigHandler.UpdateConfig).Methods("POST")

	// Time entries
	api.HandleFunc("/entries", deps.EntryHandler.GetEntries).Methods("GET")
	api.HandleFunc("/entries", deps.EntryHandler.CreateEntries).Methods("POST")
	api.HandleFunc("/entries", deps.EntryHandler.DeleteAllEntries).Methods("DELETE")
	api.HandleFunc("/entries/deduplicate", deps.EntryHandler.Deduplicate).Methods("POST")
	api.HandleFunc("/entries/import", deps.EntryHandler.Import).Methods("POST")
	api.HandleFunc("/entries/{id:[0-9]+}", deps.EntryHandler.UpdateEntry).Methods("PUT")
	api.HandleFunc("/entries/{id:[0-9]+}", deps.EntryHandler.DeleteEntry).Methods("DELETE")

	// Balances
	api.HandleFunc("/balance", deps.BalanceHandler.GetBalance).Methods("GET")
	api.HandleFunc("/balance/ledger", deps.BalanceHandler.GetLedger).Methods("GET")
	api.HandleFunc("/calculator", deps.BalanceHandler.Calculate).Methods("POST")
}
