package services

import (
	"sort"

	"github.com/terraincognita07/labcheck/internal/models"
)

type LegacyImportResult struct {
	Catalog models.CatalogSyncResult `json:"catalog"`
	Reports int                      `json:"reports"`
}

// LegacyService converts between the store and the legacy JSON documents.
type LegacyService struct {
	catalog *CatalogService
	reports *ReportService
}

func NewLegacyService(catalog *CatalogService, reports *ReportService) *LegacyService {
	return &LegacyService{catalog: catalog, reports: reports}
}

// ExportDay renders every report saved for day in the day file layout.
func (service *LegacyService) ExportDay(day string) (LegacyDayFile, error) {
	resolved, err := ParseDay(day)
	if err != nil {
		return nil, err
	}
	sheets, err := service.reports.ReportsForDay(resolved)
	if err != nil {
		return nil, err
	}

	file := make(LegacyDayFile, len(sheets))
	for _, sheet := range sheets {
		doctor, err := service.catalog.FindDoctor(sheet.DoctorID)
		if err != nil {
			return nil, err
		}
		data := LegacyDayData{
			Doctors: []LegacyDoctor{{Name: doctor.Name}},
			Blocks:  make([]LegacyBlock, 0, len(sheet.Blocks)),
			Date:    resolved,
		}
		for _, block := range sheet.Blocks {
			legacyBlock := LegacyBlock{Label: block.Label, Tasks: make([]LegacyTask, 0, len(block.Tasks))}
			for _, task := range block.Tasks {
				legacyBlock.Tasks = append(legacyBlock.Tasks, LegacyTask{
					Number:      task.Number,
					Label:       task.Label,
					State:       task.Status,
					Description: task.Description,
				})
			}
			data.Blocks = append(data.Blocks, legacyBlock)
		}
		file[doctor.Name] = data
	}
	return file, nil
}

// ImportLegacyDay merges the catalog used in file into the catalog active on
// day and saves one report per doctor entry.
func (service *LegacyService) ImportLegacyDay(file LegacyDayFile, day string) (LegacyImportResult, error) {
	resolved, err := ParseDay(day)
	if err != nil {
		return LegacyImportResult{}, err
	}
	if resolved > service.reports.Today() {
		return LegacyImportResult{}, withDetail(ErrFutureReportDate, resolved)
	}

	names := make([]string, 0, len(file))
	for name, entry := range file {
		if entry.Date != "" && entry.Date != resolved {
			return LegacyImportResult{}, withDetail(ErrInvalidDocument, "entry for "+name+" is dated "+entry.Date)
		}
		if normalizeName(name) == "" {
			return LegacyImportResult{}, withDetail(ErrInvalidDocument, "doctor name is empty")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]LegacyDayData, 0, len(names))
	for _, name := range names {
		entries = append(entries, file[name])
	}
	for _, entry := range entries {
		if err := validateLegacyStates(entry); err != nil {
			return LegacyImportResult{}, err
		}
	}

	document := catalogFromLegacy(names, entries)
	syncResult, err := service.catalog.ApplyCatalog(document, resolved, false)
	if err != nil {
		return LegacyImportResult{}, err
	}
	result := LegacyImportResult{Catalog: syncResult}

	snapshot, err := service.catalog.GetCatalog(resolved)
	if err != nil {
		return result, err
	}
	doctorIDs := make(map[string]uint, len(snapshot.Doctors))
	for _, doctor := range snapshot.Doctors {
		doctorIDs[doctor.Name] = doctor.ID
	}
	taskIDs := make(map[string]map[int]uint, len(snapshot.Blocks))
	for _, block := range snapshot.Blocks {
		byNumber := make(map[int]uint, len(block.Tasks))
		for _, task := range block.Tasks {
			byNumber[task.TaskNumber] = task.ID
		}
		taskIDs[block.Label] = byNumber
	}

	for index, name := range names {
		doctorID, ok := doctorIDs[normalizeName(name)]
		if !ok {
			return result, withDetail(ErrDoctorNotFound, name)
		}
		outcomes := make([]models.TaskOutcome, 0)
		for _, block := range entries[index].Blocks {
			for _, task := range block.Tasks {
				taskID, ok := taskIDs[normalizeName(block.Label)][task.Number]
				if !ok {
					return result, withDetail(ErrTaskNotFound, block.Label)
				}
				outcomes = append(outcomes, models.TaskOutcome{
					TaskID:      taskID,
					Status:      task.State,
					Description: task.Description,
				})
			}
		}
		if _, err := service.reports.SaveReport(resolved, doctorID, outcomes); err != nil {
			return result, err
		}
		result.Reports++
	}
	return result, nil
}

// ImportLegacyInitial loads a state-initial document as the catalog from its
// date, or from today when the document has none.
func (service *LegacyService) ImportLegacyInitial(state LegacyDayData) (models.CatalogSyncResult, error) {
	day := state.Date
	if day != "" {
		if _, err := ParseDay(day); err != nil {
			return models.CatalogSyncResult{}, err
		}
	}
	document := catalogFromLegacy(nil, []LegacyDayData{state})
	return service.catalog.ApplyCatalog(document, day, false)
}

func validateLegacyStates(entry LegacyDayData) error {
	for _, block := range entry.Blocks {
		for _, task := range block.Tasks {
			if task.Number <= 0 {
				return withDetail(ErrInvalidDocument, "task number must be positive in block "+block.Label)
			}
			if task.State.Complete && task.State.NotComplete {
				return withDetail(ErrInvalidStatus, block.Label)
			}
		}
	}
	return nil
}
