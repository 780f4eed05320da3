package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/labcheck/internal/models"
)

func TestAddDoctorValidatesInput(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	if _, err := store.catalog.AddDoctor("   ", ""); !errors.Is(err, ErrDoctorNameRequired) {
		t.Fatalf("expected ErrDoctorNameRequired, got %v", err)
	}
	_, err := store.catalog.AddDoctor("Ivanov", "2024-02-30")
	if !errors.Is(err, ErrInvalidDay) || KindOf(err) != KindInvalidInput {
		t.Fatalf("expected invalid day, got %v", err)
	}
}

func TestAddDoctorDefaultsToToday(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	doctor, err := store.catalog.AddDoctor("  Ivanov   I. I. ", "")
	if err != nil {
		t.Fatalf("add doctor: %v", err)
	}
	if doctor.Name != "Ivanov I. I." || doctor.ValidFrom != "2024-06-01" || doctor.ValidTo != nil {
		t.Fatalf("unexpected doctor %+v", doctor)
	}
}

func TestAddDoctorRejectsOverlappingName(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	doctorID := mustAddDoctor(t, store, "Ivanov", "2024-01-01")

	_, err := store.catalog.AddDoctor("Ivanov", "2024-03-01")
	if !errors.Is(err, ErrDoctorNameOverlap) || KindOf(err) != KindConflict {
		t.Fatalf("expected conflict for overlapping name, got %v", err)
	}

	if _, err := store.catalog.DeactivateDoctor(doctorID, "2024-04-30"); err != nil {
		t.Fatalf("deactivate doctor: %v", err)
	}
	if _, err := store.catalog.AddDoctor("Ivanov", "2024-05-01"); err != nil {
		t.Fatalf("expected re-adding after deactivation to succeed, got %v", err)
	}
}

func TestDeactivateDoctorErrorKinds(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	doctorID := mustAddDoctor(t, store, "Ivanov", "2024-01-01")

	if _, err := store.catalog.DeactivateDoctor(9999, ""); KindOf(err) != KindNotFound || !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected doctor not found, got %v", err)
	}
	if _, err := store.catalog.DeactivateDoctor(doctorID, "2023-12-31"); KindOf(err) != KindInvalidInput {
		t.Fatalf("expected invalid input before start, got %v", err)
	}

	changed, err := store.catalog.DeactivateDoctor(doctorID, "")
	if err != nil || !changed {
		t.Fatalf("expected deactivation today, changed=%v err=%v", changed, err)
	}
	changed, err = store.catalog.DeactivateDoctor(doctorID, "2024-06-01")
	if err != nil || changed {
		t.Fatalf("expected repeated deactivation to be a no-op, changed=%v err=%v", changed, err)
	}
	if _, err := store.catalog.DeactivateDoctor(doctorID, "2024-07-01"); KindOf(err) != KindConflict {
		t.Fatalf("expected conflict for a different close day, got %v", err)
	}

	active, err := store.catalog.ListActiveDoctors("2024-06-02")
	if err != nil {
		t.Fatalf("list doctors: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active doctors after deactivation, got %+v", active)
	}
}

func TestAddBlockAppendsAfterActiveBlocks(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	first, err := store.catalog.AddBlock("ROOMS", 0, "2024-01-01")
	if err != nil {
		t.Fatalf("add block: %v", err)
	}
	second, err := store.catalog.AddBlock("HALLS", 0, "2024-01-01")
	if err != nil {
		t.Fatalf("add block: %v", err)
	}
	if first.DisplayOrder != 1 || second.DisplayOrder != 2 {
		t.Fatalf("expected display orders 1 and 2, got %d and %d", first.DisplayOrder, second.DisplayOrder)
	}
	if _, err := store.catalog.AddBlock(" ", 1, ""); !errors.Is(err, ErrBlockLabelRequired) {
		t.Fatalf("expected ErrBlockLabelRequired, got %v", err)
	}
}

func TestAddTaskErrorKinds(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	blockID := mustAddBlock(t, store, "ROOMS", "2024-02-01")
	mustAddTask(t, store, blockID, 1, "RECEIVING BOX", "2024-02-01")

	if _, err := store.catalog.AddTask(blockID, 1, "DUPLICATE", "2024-02-01"); !errors.Is(err, ErrTaskNumberTaken) {
		t.Fatalf("expected ErrTaskNumberTaken, got %v", err)
	}
	if _, err := store.catalog.AddTask(blockID, 2, "EARLY", "2024-01-01"); !errors.Is(err, ErrBlockInactive) {
		t.Fatalf("expected ErrBlockInactive, got %v", err)
	}
	if _, err := store.catalog.AddTask(9999, 1, "ORPHAN", "2024-02-01"); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}

	next, err := store.catalog.AddTask(blockID, 0, "SHELVES", "")
	if err != nil {
		t.Fatalf("add task with generated number: %v", err)
	}
	if next.TaskNumber != 2 || next.ValidFrom != "2024-06-01" {
		t.Fatalf("expected task #2 from today, got %+v", next)
	}
}

func TestListActiveBlocksFollowsTaskValidity(t *testing.T) {
	store := newTestStore(t, "2024-09-01")
	blockID := mustAddBlock(t, store, "ROOMS", "2024-01-01")
	taskID := mustAddTask(t, store, blockID, 1, "RECEIVING BOX", "2024-01-01")

	if _, err := store.catalog.DeactivateTask(taskID, "2024-07-01"); err != nil {
		t.Fatalf("deactivate task: %v", err)
	}

	later, err := store.catalog.ListActiveBlocks("2024-08-01")
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(later) != 1 || len(later[0].Tasks) != 0 {
		t.Fatalf("expected task #1 to be gone on 2024-08-01, got %+v", later)
	}
	earlier, err := store.catalog.ListActiveBlocks("2024-06-15")
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(earlier) != 1 || len(earlier[0].Tasks) != 1 || earlier[0].Tasks[0].ID != taskID {
		t.Fatalf("expected task #1 on 2024-06-15, got %+v", earlier)
	}
}

func TestUpdateBlockKeepsOrderWhenNotGiven(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	mustAddBlock(t, store, "ROOMS", "2024-01-01")
	blockID := mustAddBlock(t, store, "HALLS", "2024-01-01")

	updated, err := store.catalog.UpdateBlock(blockID, "CORRIDORS", 0, "2024-03-01")
	if err != nil {
		t.Fatalf("update block: %v", err)
	}
	if updated.DisplayOrder != 2 || updated.Label != "CORRIDORS" || updated.ValidFrom != "2024-03-01" {
		t.Fatalf("unexpected block version %+v", updated)
	}
	if _, err := store.catalog.UpdateBlock(9999, "X", 0, ""); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestRenameDoctorRejectsChangesUnderLaterReports(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	doctorID := mustAddDoctor(t, store, "Ivanov", "2024-01-01")
	if _, err := store.reports.GetOrCreateReport("2024-05-10", doctorID); err != nil {
		t.Fatalf("create report: %v", err)
	}

	_, err := store.catalog.RenameDoctor(doctorID, "Ivanova", "2024-05-01")
	if !errors.Is(err, ErrReferencedByReports) || KindOf(err) != KindConflict {
		t.Fatalf("expected conflict with later reports, got %v", err)
	}

	renamed, err := store.catalog.RenameDoctor(doctorID, "Ivanova", "2024-05-11")
	if err != nil {
		t.Fatalf("rename doctor: %v", err)
	}
	if renamed.Name != "Ivanova" || renamed.ValidFrom != "2024-05-11" {
		t.Fatalf("unexpected renamed version %+v", renamed)
	}
}

func TestApplyCatalogRejectsInvalidDocuments(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	documents := []models.CatalogDocument{
		{Doctors: []models.CatalogDoctor{{Name: "Ivanov"}, {Name: " Ivanov "}}},
		{Blocks: []models.CatalogBlock{{Label: "ROOMS"}, {Label: "ROOMS"}}},
		{Blocks: []models.CatalogBlock{{Label: "ROOMS", Tasks: []models.CatalogTask{{Number: 1, Label: "A"}, {Number: 1, Label: "B"}}}}},
		{Blocks: []models.CatalogBlock{{Label: "ROOMS", Tasks: []models.CatalogTask{{Number: 1, Label: " "}}}}},
		{Doctors: []models.CatalogDoctor{{Name: ""}}},
	}
	for index, document := range documents {
		if _, err := store.catalog.ApplyCatalog(document, "", false); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("document %d: expected ErrInvalidDocument, got %v", index, err)
		}
	}
}

func TestApplyCatalogPruneWithdrawsVersionsStartingOnDay(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	kept := mustAddDoctor(t, store, "Ivanov", "2024-01-01")
	withdrawn := mustAddDoctor(t, store, "Sidorov", "2024-06-01")
	document := models.CatalogDocument{Doctors: []models.CatalogDoctor{{Name: "Ivanov"}}}

	result, err := store.catalog.ApplyCatalog(document, "2024-06-01", true)
	if err != nil {
		t.Fatalf("prune catalog: %v", err)
	}
	if result.DoctorsClosed != 1 {
		t.Fatalf("expected one doctor withdrawn, got %+v", result)
	}
	if _, err := store.catalog.FindDoctor(withdrawn); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected withdrawn doctor to be gone, got %v", err)
	}
	doctor, err := store.catalog.FindDoctor(kept)
	if err != nil {
		t.Fatalf("find kept doctor: %v", err)
	}
	if doctor.ValidTo != nil {
		t.Fatalf("expected listed doctor to stay open, got %+v", doctor)
	}
}

func TestApplyCatalogPruneRefusesReportedVersionStartingOnDay(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	doctorID := mustAddDoctor(t, store, "Sidorov", "2024-06-01")
	if _, err := store.reports.GetOrCreateReport("2024-06-01", doctorID); err != nil {
		t.Fatalf("create report: %v", err)
	}

	_, err := store.catalog.ApplyCatalog(models.CatalogDocument{}, "2024-06-01", true)
	if !errors.Is(err, ErrReferencedByReports) || KindOf(err) != KindConflict {
		t.Fatalf("expected conflict for a reported version, got %v", err)
	}
	doctor, err := store.catalog.FindDoctor(doctorID)
	if err != nil {
		t.Fatalf("expected doctor to survive the refused prune: %v", err)
	}
	if doctor.ValidTo != nil {
		t.Fatalf("expected doctor to stay open, got %+v", doctor)
	}
}

func TestDeactivateRefusesVersionsUsedByLaterReports(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	doctorID := mustAddDoctor(t, store, "Ivanov", "2024-01-01")
	blockID := mustAddBlock(t, store, "ROOMS", "2024-01-01")
	taskID := mustAddTask(t, store, blockID, 1, "SHELVES", "2024-01-01")
	if _, err := store.reports.SaveReport("2024-05-10", doctorID, []models.TaskOutcome{{TaskID: taskID, Status: models.TaskStatus{Complete: true}}}); err != nil {
		t.Fatalf("save report: %v", err)
	}

	if _, err := store.catalog.DeactivateDoctor(doctorID, "2024-05-01"); !errors.Is(err, ErrReferencedByReports) || KindOf(err) != KindConflict {
		t.Fatalf("expected doctor deactivation conflict, got %v", err)
	}
	if _, err := store.catalog.DeactivateTask(taskID, "2024-05-09"); !errors.Is(err, ErrReferencedByReports) {
		t.Fatalf("expected task deactivation conflict, got %v", err)
	}
	if _, err := store.catalog.DeactivateBlock(blockID, "2024-05-01"); !errors.Is(err, ErrReferencedByReports) {
		t.Fatalf("expected block deactivation conflict, got %v", err)
	}
	if _, err := store.catalog.UpdateTask(taskID, "SHELF", "2024-05-05"); !errors.Is(err, ErrReferencedByReports) {
		t.Fatalf("expected task relabel conflict, got %v", err)
	}

	changed, err := store.catalog.DeactivateDoctor(doctorID, "2024-05-10")
	if err != nil || !changed {
		t.Fatalf("expected deactivation on the report day to pass, changed=%v err=%v", changed, err)
	}
}

func TestGetCatalogReturnsDoctorsAndBlocks(t *testing.T) {
	store := newTestStore(t, "2024-06-01")
	document := models.CatalogDocument{
		Doctors: []models.CatalogDoctor{{Name: "Petrov"}, {Name: "Ivanov"}},
		Blocks: []models.CatalogBlock{
			{Label: "ROOMS", Tasks: []models.CatalogTask{{Label: "RECEIVING BOX"}, {Label: "SHELVES"}}},
		},
	}
	if _, err := store.catalog.ApplyCatalog(document, "2024-05-01", false); err != nil {
		t.Fatalf("apply catalog: %v", err)
	}

	snapshot, err := store.catalog.GetCatalog("")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if snapshot.Day != "2024-06-01" || len(snapshot.Doctors) != 2 || snapshot.Doctors[0].Name != "Ivanov" {
		t.Fatalf("unexpected snapshot doctors %+v", snapshot)
	}
	if len(snapshot.Blocks) != 1 || len(snapshot.Blocks[0].Tasks) != 2 || snapshot.Blocks[0].Tasks[1].TaskNumber != 2 {
		t.Fatalf("unexpected snapshot blocks %+v", snapshot.Blocks)
	}

	again, err := store.catalog.ApplyCatalog(document, "2024-05-01", false)
	if err != nil {
		t.Fatalf("repeat apply: %v", err)
	}
	if again.Changed() {
		t.Fatalf("expected repeated apply to be a no-op, got %+v", again)
	}
}

func TestSeedDefaultsOnlyFillsEmptyCatalog(t *testing.T) {
	store := newTestStore(t, "2024-06-01")

	seeded, err := store.catalog.SeedDefaults(nil)
	if err != nil || !seeded {
		t.Fatalf("expected defaults to be seeded, seeded=%v err=%v", seeded, err)
	}
	defaults, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	blocks, err := store.catalog.ListActiveBlocks("")
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(blocks) != len(defaults.Blocks) || len(blocks) == 0 {
		t.Fatalf("expected %d seeded blocks, got %d", len(defaults.Blocks), len(blocks))
	}

	seeded, err = store.catalog.SeedDefaults([]byte("doctors:\n  - name: Other\n"))
	if err != nil || seeded {
		t.Fatalf("expected seeding to skip a filled catalog, seeded=%v err=%v", seeded, err)
	}
}

func TestParseCatalogYAMLRejectsUnknownFields(t *testing.T) {
	if _, err := ParseCatalogYAML([]byte("doctors:\n  - nme: Ivanov\n")); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for unknown field, got %v", err)
	}
	if _, err := ParseCatalogYAML([]byte("   ")); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for empty document, got %v", err)
	}

	document, err := ParseCatalogYAML([]byte("blocks:\n  - label: ROOMS\n    tasks:\n      - number: 1\n        label: BOX\n"))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if len(document.Blocks) != 1 || document.Blocks[0].Tasks[0].Label != "BOX" {
		t.Fatalf("unexpected document %+v", document)
	}
}
