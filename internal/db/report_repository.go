package db

import (
	"time"

	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository struct {
	database *gorm.DB
}

func NewReportRepository(database *gorm.DB) *ReportRepository {
	return &ReportRepository{database: database}
}

func (repo *ReportRepository) FindByID(reportID uint) (models.Report, error) {
	var report models.Report
	if err := repo.database.First(&report, reportID).Error; err != nil {
		return models.Report{}, err
	}
	return report, nil
}

func (repo *ReportRepository) FindByDayAndDoctor(day string, doctorID uint) (models.Report, bool, error) {
	reports := make([]models.Report, 0, 1)
	if err := repo.database.
		Where("report_date = ? AND doctor_id = ?", day, doctorID).
		Limit(1).
		Find(&reports).Error; err != nil {
		return models.Report{}, false, err
	}
	if len(reports) == 0 {
		return models.Report{}, false, nil
	}
	return reports[0], true, nil
}

func (repo *ReportRepository) ListByDay(day string) ([]models.Report, error) {
	reports := make([]models.Report, 0)
	if err := repo.database.
		Select("reports.*").
		Joins("JOIN doctors ON doctors.id = reports.doctor_id").
		Where("reports.report_date = ?", day).
		Order("doctors.name ASC, reports.id ASC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// GetOrCreate returns the report for (day, doctorID), inserting it when
// missing. The unique (report_date, doctor_id) index makes repeated calls
// resolve to the same row.
func (repo *ReportRepository) GetOrCreate(day string, doctorID uint) (report models.Report, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		report, err = getOrCreateReport(tx, day, doctorID)
		return err
	})
	return report, err
}

// SaveOutcomes upserts one report task per outcome. The last write for a
// (report, task) pair wins.
func (repo *ReportRepository) SaveOutcomes(reportID uint, outcomes []models.TaskOutcome) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, reportID).Error; err != nil {
			return err
		}
		return upsertOutcomes(tx, report.ID, outcomes)
	})
}

// Save creates the report if needed and stores outcomes in one transaction.
func (repo *ReportRepository) Save(day string, doctorID uint, outcomes []models.TaskOutcome) (report models.Report, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		report, err = getOrCreateReport(tx, day, doctorID)
		if err != nil {
			return err
		}
		return upsertOutcomes(tx, report.ID, outcomes)
	})
	return report, err
}

// Sheet joins report against every block and task active on its date.
// Tasks without a stored outcome keep the zero status and an empty
// description.
func (repo *ReportRepository) Sheet(report models.Report) (models.ReportSheet, error) {
	var sheet models.ReportSheet
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		blocks, err := activeBlocksWithTasks(tx, report.ReportDate)
		if err != nil {
			return err
		}

		rows := make([]models.ReportTask, 0)
		if err := tx.Where("report_id = ?", report.ID).Find(&rows).Error; err != nil {
			return err
		}
		outcomes := make(map[uint]models.ReportTask, len(rows))
		for _, row := range rows {
			outcomes[row.TaskID] = row
		}

		sheet = models.ReportSheet{
			ID:         report.ID,
			ReportDate: report.ReportDate,
			DoctorID:   report.DoctorID,
			Blocks:     make([]models.SheetBlock, 0, len(blocks)),
		}
		for _, block := range blocks {
			sheetBlock := models.SheetBlock{
				ID:           block.ID,
				Label:        block.Label,
				DisplayOrder: block.DisplayOrder,
				Tasks:        make([]models.SheetTask, 0, len(block.Tasks)),
			}
			for _, task := range block.Tasks {
				row := outcomes[task.ID]
				sheetBlock.Tasks = append(sheetBlock.Tasks, models.SheetTask{
					ID:     task.ID,
					Number: task.TaskNumber,
					Label:  task.Label,
					Status: models.TaskStatus{
						Complete:    row.IsComplete,
						NotComplete: row.IsNotComplete,
					},
					Description: row.Description,
				})
			}
			sheet.Blocks = append(sheet.Blocks, sheetBlock)
		}
		return nil
	})
	return sheet, err
}

func getOrCreateReport(tx *gorm.DB, day string, doctorID uint) (models.Report, error) {
	candidate := models.Report{ReportDate: day, DoctorID: doctorID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return models.Report{}, classify(err)
	}

	var report models.Report
	if err := tx.Where("report_date = ? AND doctor_id = ?", day, doctorID).First(&report).Error; err != nil {
		return models.Report{}, err
	}
	return report, nil
}

func upsertOutcomes(tx *gorm.DB, reportID uint, outcomes []models.TaskOutcome) error {
	now := time.Now().UTC()
	for _, outcome := range outcomes {
		row := models.ReportTask{
			ReportID:      reportID,
			TaskID:        outcome.TaskID,
			IsComplete:    outcome.Status.Complete,
			IsNotComplete: outcome.Status.NotComplete,
			Description:   outcome.Description,
			UpdatedAt:     now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "report_id"}, {Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_complete", "is_not_complete", "description", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return classify(err)
		}
	}
	if len(outcomes) == 0 {
		return nil
	}
	return classify(tx.Model(&models.Report{}).Where("id = ?", reportID).Update("updated_at", now).Error)
}
