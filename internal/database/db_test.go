package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.local", "3306", "booking")
	if !strings.HasPrefix(got, "app:s3cret@tcp(db.local:3306)/booking?") {
		t.Fatalf("unexpected dsn prefix: %s", got)
	}
	// RowsAffected must report matched rows, or a same-second hold
	// re-acquisition (identical values, DATETIME second precision) reads
	// as a failed hold.
	for _, param := range []string{"clientFoundRows=true", "parseTime=true", "loc=UTC"} {
		if !strings.Contains(got, param) {
			t.Errorf("dsn missing %s: %s", param, got)
		}
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "booking")
	if !strings.HasPrefix(got, "app@tcp(localhost:3306)/booking?") {
		t.Fatalf("unexpected dsn: %s", got)
	}
}
