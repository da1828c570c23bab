package transitions

import (
	"testing"

	"github.com/civictrack/civictrack-backend/pkg/enums"
)

func TestAllowedIsTotal(t *testing.T) {
	statuses := []enums.Status{enums.StatusPending, enums.StatusInProgress, enums.StatusResolved}

	for _, from := range statuses {
		for _, to := range statuses {
			if !Allowed(from, to, true) {
				t.Fatalf("admin transition %s -> %s must be allowed", from, to)
			}
			if Allowed(from, to, false) {
				t.Fatalf("non-admin transition %s -> %s must be rejected", from, to)
			}
		}
	}
}

func TestAllowedRejectsUnknownStatuses(t *testing.T) {
	if Allowed(enums.Status("Bogus"), enums.StatusResolved, true) {
		t.Fatal("unknown current status must be rejected")
	}
	if Allowed(enums.StatusPending, enums.Status("Bogus"), true) {
		t.Fatal("unknown next status must be rejected")
	}
}

func TestIsForward(t *testing.T) {
	if !IsForward(enums.StatusPending, enums.StatusInProgress) {
		t.Fatal("pending -> in progress is forward")
	}
	if !IsForward(enums.StatusInProgress, enums.StatusResolved) {
		t.Fatal("in progress -> resolved is forward")
	}
	if IsForward(enums.StatusResolved, enums.StatusPending) {
		t.Fatal("re-opening is not forward")
	}
}
