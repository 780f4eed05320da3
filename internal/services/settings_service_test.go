package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/labcheck/internal/models"
)

func TestTitleDefaultsAndUpdates(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	title, err := store.settings.Title()
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	if title != models.DefaultDepartmentTitle {
		t.Fatalf("expected default title, got %q", title)
	}

	if err := store.settings.EnsureTitle("Лаборатория"); err != nil {
		t.Fatalf("ensure title: %v", err)
	}
	if err := store.settings.EnsureTitle("Другое"); err != nil {
		t.Fatalf("ensure title again: %v", err)
	}
	title, _ = store.settings.Title()
	if title != "Лаборатория" {
		t.Fatalf("expected first ensured title to stay, got %q", title)
	}

	if err := store.settings.SetTitle("  Отделение  "); err != nil {
		t.Fatalf("set title: %v", err)
	}
	title, _ = store.settings.Title()
	if title != "Отделение" {
		t.Fatalf("expected updated title, got %q", title)
	}
}

func TestSettingsRejectBlankKey(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	if err := store.settings.Set(" ", "x"); !errors.Is(err, ErrSettingKeyRequired) {
		t.Fatalf("expected ErrSettingKeyRequired, got %v", err)
	}
	value, err := store.settings.Get("missing", "fallback")
	if err != nil || value != "fallback" {
		t.Fatalf("expected fallback, got %q %v", value, err)
	}
}
