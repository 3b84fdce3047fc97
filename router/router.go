// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/handlers"
	"github.com/danielhkuo/ranked-pick/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	cycleHandler := handlers.NewCycleHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Cycle management (admin operations)
	mux.HandleFunc("POST /cycles", middleware.WithLogging(cycleHandler.CreateCycle))
	mux.HandleFunc("GET /cycles/{id}", middleware.WithLogging(cycleHandler.GetCycle))
	mux.HandleFunc("POST /cycles/{id}/phase", middleware.WithLogging(cycleHandler.SetPhase))
	mux.HandleFunc("POST /cycles/{id}/candidates", middleware.WithLogging(cycleHandler.AddCandidate))
	mux.HandleFunc("POST /cycles/{id}/candidates/{cid}/drop", middleware.WithLogging(cycleHandler.DropCandidate))

	// Voting operations
	mux.HandleFunc("POST /cycles/{id}/voters", middleware.WithLogging(votingHandler.RegisterVoter))
	mux.HandleFunc("POST /cycles/{id}/ballots", middleware.WithLogging(votingHandler.SubmitBallot))
	mux.HandleFunc("GET /cycles/{id}/my-ballot", middleware.WithLogging(votingHandler.GetMyBallot))

	// Counting and results (sealed until announcement)
	mux.HandleFunc("POST /cycles/{id}/results", middleware.WithLogging(resultsHandler.ComputeResults))
	mux.HandleFunc("GET /cycles/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /cycles/{id}/results/verify", middleware.WithLogging(resultsHandler.VerifyResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ranked-pick API v1"))
	})

	return mux
}
