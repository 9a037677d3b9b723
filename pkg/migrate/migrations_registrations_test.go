package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mijnfegon/mijnfegon-backend/pkg/migrate"
)

func TestRegistrationsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_registrations.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no registrations migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS registrations",
		"status registration_status_enum NOT NULL DEFAULT 'pending'",
		"warning_reasons text[] NOT NULL DEFAULT ARRAY[]::text[]",
		"FOREIGN KEY (installer_uid) REFERENCES users(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS registrations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirectoryIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
