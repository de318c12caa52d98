package postgres

import (
	"strings"
	"testing"
)

func TestMigrationStartsUsersAtZeroReputation(t *testing.T) {
	raw, err := migrationFS.ReadFile("migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	schema := string(raw)
	// A user row created outside the repository path must still satisfy
	// sum(entries) == reputation, which means starting at zero.
	if !strings.Contains(schema, "reputation   BIGINT NOT NULL DEFAULT 0") {
		t.Fatalf("trust_users.reputation must default to 0")
	}
}

func TestMigrationNamesSortInApplyOrder(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	prev := ""
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if entry.Name() <= prev {
			t.Fatalf("migration %s does not sort after %s", entry.Name(), prev)
		}
		prev = entry.Name()
	}
}
