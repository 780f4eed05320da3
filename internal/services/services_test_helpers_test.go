package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/labcheck/internal/db"
)

type testStore struct {
	repositories *db.Repositories
	catalog      *CatalogService
	reports      *ReportService
	settings     *SettingsService
	legacy       *LegacyService
	auth         *AuthService
}

func newTestStore(t *testing.T, today string) testStore {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "labcheck-services.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	at, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatalf("parse today: %v", err)
	}
	clock := FixedClock(at.Add(12*time.Hour), time.UTC)

	repositories := db.NewRepositories(database)
	catalog := NewCatalogService(repositories.Doctors, repositories.Catalog, clock)
	reports := NewReportService(repositories.Reports, clock)
	return testStore{
		repositories: repositories,
		catalog:      catalog,
		reports:      reports,
		settings:     NewSettingsService(repositories.Settings),
		legacy:       NewLegacyService(catalog, reports),
		auth:         NewAuthService(repositories.Admins),
	}
}

func mustAddDoctor(t *testing.T, store testStore, name string, validFrom string) uint {
	t.Helper()

	doctor, err := store.catalog.AddDoctor(name, validFrom)
	if err != nil {
		t.Fatalf("add doctor %q: %v", name, err)
	}
	return doctor.ID
}

func mustAddBlock(t *testing.T, store testStore, label string, validFrom string) uint {
	t.Helper()

	block, err := store.catalog.AddBlock(label, 0, validFrom)
	if err != nil {
		t.Fatalf("add block %q: %v", label, err)
	}
	return block.ID
}

func mustAddTask(t *testing.T, store testStore, blockID uint, number int, label string, validFrom string) uint {
	t.Helper()

	task, err := store.catalog.AddTask(blockID, number, label, validFrom)
	if err != nil {
		t.Fatalf("add task %q: %v", label, err)
	}
	return task.ID
}
