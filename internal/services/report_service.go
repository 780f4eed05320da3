package services

import (
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/labcheck/internal/models"
)

// MaxDescriptionBytes bounds the free-text note stored per task outcome.
const MaxDescriptionBytes = 2000

type ReportRepository interface {
	FindByID(reportID uint) (models.Report, error)
	FindByDayAndDoctor(day string, doctorID uint) (models.Report, bool, error)
	ListByDay(day string) ([]models.Report, error)
	GetOrCreate(day string, doctorID uint) (models.Report, error)
	SaveOutcomes(reportID uint, outcomes []models.TaskOutcome) error
	Save(day string, doctorID uint, outcomes []models.TaskOutcome) (models.Report, error)
	Sheet(report models.Report) (models.ReportSheet, error)
}

type ReportService struct {
	reports ReportRepository
	clock   Clock
}

func NewReportService(reports ReportRepository, clock Clock) *ReportService {
	return &ReportService{reports: reports, clock: clock}
}

func (service *ReportService) Today() string {
	return service.clock.Today()
}

// reportDay resolves raw like dayOrToday and rejects days after today.
func (service *ReportService) reportDay(raw string) (string, error) {
	day, err := service.clock.dayOrToday(raw)
	if err != nil {
		return "", err
	}
	if day > service.clock.Today() {
		return "", withDetail(ErrFutureReportDate, day)
	}
	return day, nil
}

func (service *ReportService) GetOrCreateReport(day string, doctorID uint) (models.Report, error) {
	if doctorID == 0 {
		return models.Report{}, ErrInvalidID
	}
	resolved, err := service.reportDay(day)
	if err != nil {
		return models.Report{}, err
	}
	report, err := service.reports.GetOrCreate(resolved, doctorID)
	if err != nil {
		return models.Report{}, fromStorage(err, ErrDoctorNotFound)
	}
	return report, nil
}

// GetReportWithTasks returns nil without error when no report was saved for
// the pair yet.
func (service *ReportService) GetReportWithTasks(day string, doctorID uint) (*models.ReportSheet, error) {
	if doctorID == 0 {
		return nil, ErrInvalidID
	}
	resolved, err := ParseDay(day)
	if err != nil {
		return nil, err
	}
	report, found, err := service.reports.FindByDayAndDoctor(resolved, doctorID)
	if err != nil {
		return nil, fromStorage(err, nil)
	}
	if !found {
		return nil, nil
	}
	sheet, err := service.reports.Sheet(report)
	if err != nil {
		return nil, fromStorage(err, ErrReportNotFound)
	}
	return &sheet, nil
}

// SaveReportTasks upserts outcomes into an existing report.
func (service *ReportService) SaveReportTasks(reportID uint, outcomes []models.TaskOutcome) error {
	if reportID == 0 {
		return ErrInvalidID
	}
	normalized, err := NormalizeOutcomes(outcomes)
	if err != nil {
		return err
	}
	if _, err := service.reports.FindByID(reportID); err != nil {
		return fromStorage(err, ErrReportNotFound)
	}
	return fromStorage(service.reports.SaveOutcomes(reportID, normalized), ErrTaskNotFound)
}

// SaveReport creates the report when needed and stores outcomes in the same
// transaction.
func (service *ReportService) SaveReport(day string, doctorID uint, outcomes []models.TaskOutcome) (models.ReportSheet, error) {
	if doctorID == 0 {
		return models.ReportSheet{}, ErrInvalidID
	}
	resolved, err := service.reportDay(day)
	if err != nil {
		return models.ReportSheet{}, err
	}
	normalized, err := NormalizeOutcomes(outcomes)
	if err != nil {
		return models.ReportSheet{}, err
	}

	report, err := service.reports.Save(resolved, doctorID, normalized)
	if err != nil {
		return models.ReportSheet{}, fromStorage(err, ErrDoctorNotFound)
	}
	sheet, err := service.reports.Sheet(report)
	if err != nil {
		return models.ReportSheet{}, fromStorage(err, ErrReportNotFound)
	}
	return sheet, nil
}

// CheckAll marks every task active on day complete, or clears every mark
// when checked is false. Descriptions are kept.
func (service *ReportService) CheckAll(day string, doctorID uint, checked bool) (models.ReportSheet, error) {
	if doctorID == 0 {
		return models.ReportSheet{}, ErrInvalidID
	}
	resolved, err := service.reportDay(day)
	if err != nil {
		return models.ReportSheet{}, err
	}

	current, err := service.GetReportWithTasks(resolved, doctorID)
	if err != nil {
		return models.ReportSheet{}, err
	}
	if current == nil {
		report, err := service.GetOrCreateReport(resolved, doctorID)
		if err != nil {
			return models.ReportSheet{}, err
		}
		sheet, err := service.reports.Sheet(report)
		if err != nil {
			return models.ReportSheet{}, fromStorage(err, ErrReportNotFound)
		}
		current = &sheet
	}

	outcomes := make([]models.TaskOutcome, 0)
	for _, block := range current.Blocks {
		for _, task := range block.Tasks {
			outcomes = append(outcomes, models.TaskOutcome{
				TaskID:      task.ID,
				Status:      models.TaskStatus{Complete: checked},
				Description: task.Description,
			})
		}
	}
	return service.SaveReport(resolved, doctorID, outcomes)
}

// ReportsForDay lists every report stored for day.
func (service *ReportService) ReportsForDay(day string) ([]models.ReportSheet, error) {
	resolved, err := ParseDay(day)
	if err != nil {
		return nil, err
	}
	reports, err := service.reports.ListByDay(resolved)
	if err != nil {
		return nil, fromStorage(err, nil)
	}
	sheets := make([]models.ReportSheet, 0, len(reports))
	for _, report := range reports {
		sheet, err := service.reports.Sheet(report)
		if err != nil {
			return nil, fromStorage(err, ErrReportNotFound)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// NormalizeOutcomes trims descriptions and rejects contradictory statuses.
// A task listed twice keeps its last outcome.
func NormalizeOutcomes(outcomes []models.TaskOutcome) ([]models.TaskOutcome, error) {
	positions := make(map[uint]int, len(outcomes))
	normalized := make([]models.TaskOutcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.TaskID == 0 {
			return nil, withDetail(ErrInvalidID, "task id")
		}
		if outcome.Status.Complete && outcome.Status.NotComplete {
			return nil, ErrInvalidStatus
		}
		outcome.Description = trimDescription(outcome.Description)

		if index, seen := positions[outcome.TaskID]; seen {
			normalized[index] = outcome
			continue
		}
		positions[outcome.TaskID] = len(normalized)
		normalized = append(normalized, outcome)
	}
	return normalized, nil
}

func trimDescription(raw string) string {
	description := strings.TrimSpace(raw)
	if len(description) <= MaxDescriptionBytes {
		return description
	}
	cut := MaxDescriptionBytes
	for cut > 0 && !utf8.RuneStart(description[cut]) {
		cut--
	}
	return description[:cut]
}
