// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/middleware"
)

// isUniqueViolation reports whether err is a unique constraint failure from
// either PostgreSQL or SQLite
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// requireAdmin validates the X-Admin-Key header for cycleID and writes a 401
// when it does not match
func requireAdmin(w http.ResponseWriter, r *http.Request, cycleID, salt string) bool {
	adminKey := r.Header.Get(middleware.HeaderAdminKey)
	if err := auth.ValidateAdminKey(cycleID, adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}
