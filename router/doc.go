// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ranked-pick API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Cycle management (admin, requires X-Admin-Key):

	POST /cycles                          - Create cycle
	GET  /cycles/{id}                     - Cycle and confirmed candidates (public)
	POST /cycles/{id}/phase               - Move to another phase
	POST /cycles/{id}/candidates          - Nominate candidate
	POST /cycles/{id}/candidates/{cid}/drop - Withdraw candidate

Voting (requires X-Voter-Token once registered):

	POST /cycles/{id}/voters    - Register and receive a voter token
	POST /cycles/{id}/ballots   - Submit ranking (voting phase, once)
	GET  /cycles/{id}/my-ballot - Read back own ballot

Results:

	POST /cycles/{id}/results        - Run the STV count (admin)
	GET  /cycles/{id}/results        - Stored result (public after announcement)
	GET  /cycles/{id}/results/verify - Recount and compare (admin)

All handlers receive the database connection and configuration.
*/
package router
