// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ranked-pick API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - CycleHandler: Cycle lifecycle, phases and candidate nomination
  - VotingHandler: Voter registration and ballot submission
  - ResultsHandler: STV counting, sealed results and verification

Handlers are created via constructor functions that accept *sql.DB and Config:

	cycleHandler := handlers.NewCycleHandler(db, cfg)

# Cycle Lifecycle

Cycles move through six phases:

	start → nomination → confirmation → finalization → voting → announcement

Candidates can be added or dropped until voting starts. Admin operations
require the X-Admin-Key header.

# Voting Flow

	POST /cycles/{id}/voters  → RegisterVoter (returns voter_token)
	POST /cycles/{id}/ballots → SubmitBallot (voting phase, once per voter)

Voter operations require the X-Voter-Token header. A ranking lists confirmed
candidate IDs, most preferred first; an empty ranking is accepted and counts
toward the quota.

# Counting

ComputeResults loads the confirmed candidates and every ballot, runs
stv.Count and replaces the cycle's stored snapshot in one transaction.
Input problems (no ballots, too many seats, a ballot naming a candidate
that has since been dropped) return 422.
*/
package handlers
