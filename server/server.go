// Package server provides the LLPred analysis server, an HTTP REST server that
// stores grammars for users, analyzes them, and derives inputs with them.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/llpred/server/api"
	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/llps"
	"github.com/go-chi/chi/v5"
)

// LLPredServer is an HTTP REST server that provides grammar analysis and
// associated resources. The zero-value of an LLPredServer should not be used
// directly; call New() to get one ready for use.
type LLPredServer struct {
	router chi.Router
	db     dao.Store
	api    api.API
}

// New creates a new LLPredServer from the given configuration. Unset values in
// cfg are replaced with their defaults before it is validated.
func New(cfg Config) (LLPredServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return LLPredServer{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return LLPredServer{}, fmt.Errorf("connect DB: %w", err)
	}

	lps := LLPredServer{
		db: db,
		api: api.API{
			Backend: llps.Service{
				DB:       db,
				HashCost: cfg.PasswordHashCost,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	lps.router = newRouter(lps.api)

	return lps, nil
}

// Handler returns the root handler of the server.
func (lps LLPredServer) Handler() http.Handler {
	return lps.router
}

// CreateUser creates a user directly in the server's persistence, bypassing
// the API. It is used to create the first users at startup.
func (lps LLPredServer) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	return lps.api.Backend.CreateUser(ctx, username, password, email, role)
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (lps LLPredServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, lps.router))
}

// Close releases the server's persistence layer.
func (lps LLPredServer) Close() error {
	return lps.db.Close()
}
