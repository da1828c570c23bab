package migrate_test

import (
	"testing"

	"github.com/civictrack/civictrack-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestValidateDirRejectsMissingDir(t *testing.T) {
	if err := migrate.ValidateDir("no-such-dir"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
