package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/labcheck/internal/config"
	"github.com/terraincognita07/labcheck/internal/db"
	"github.com/terraincognita07/labcheck/internal/services"
)

func newTestStore(t *testing.T, today string) *store {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "labcheck-cli.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	at, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatalf("parse today: %v", err)
	}
	s := newStore(database, services.FixedClock(at.Add(12*time.Hour), time.UTC))
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		DBPath:          filepath.Join(t.TempDir(), "labcheck.db"),
		Port:            "8080",
		Timezone:        "UTC",
		SecretKey:       "0123456789abcdef0123456789abcdef",
		DefaultLanguage: "en",
		AdminLogin:      "admin",
	}
}
