// Package transitions defines the complaint lifecycle graph. The guard is a
// total function: pairs not listed in the edges table fall back to the admin
// default instead of panicking, so new statuses degrade safely.
package transitions

import "github.com/civictrack/civictrack-backend/pkg/enums"

type edge struct {
	from enums.Status
	to   enums.Status
}

// The canonical forward path. Kept as data so the guard can be tightened to
// reject entries outside this table without touching callers.
var forwardEdges = map[edge]bool{
	{enums.StatusPending, enums.StatusInProgress}:  true,
	{enums.StatusPending, enums.StatusResolved}:    true,
	{enums.StatusInProgress, enums.StatusResolved}: true,
}

// Allowed reports whether an actor may move a complaint from current to next.
// Admins may take any transition between valid statuses, including re-opening
// and no-op updates that only refresh remarks. Non-admins may not transition
// at all.
func Allowed(current, next enums.Status, isAdmin bool) bool {
	if !isAdmin {
		return false
	}
	if !current.IsValid() || !next.IsValid() {
		return false
	}
	return true
}

// IsForward reports whether the transition follows the canonical forward path.
func IsForward(current, next enums.Status) bool {
	return forwardEdges[edge{from: current, to: next}]
}
