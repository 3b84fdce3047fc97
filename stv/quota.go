// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

// Quota returns the Droop quota: floor(totalBallots/(seats+1)) + 1
func Quota(totalBallots, seats int) int {
	return totalBallots/(seats+1) + 1
}
