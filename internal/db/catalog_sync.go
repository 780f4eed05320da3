package db

import (
	"sort"

	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
)

// SyncCatalog makes the catalog active on day match document in one
// transaction. Missing entries are opened on day, changed labels and block
// positions are re-versioned from day, and with prune set entries absent from
// document stop being active on day.
func (repo *CatalogRepository) SyncCatalog(document models.CatalogDocument, day string, prune bool) (result models.CatalogSyncResult, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		result, err = syncCatalog(tx, document, day, prune)
		return err
	})
	return result, err
}

func syncCatalog(tx *gorm.DB, document models.CatalogDocument, day string, prune bool) (models.CatalogSyncResult, error) {
	result := models.CatalogSyncResult{}
	closeOn, err := models.ShiftDay(day, -1)
	if err != nil {
		return result, err
	}

	if err := syncDoctors(tx, document.Doctors, day, closeOn, prune, &result); err != nil {
		return result, err
	}

	blocks, err := activeBlocksWithTasks(tx, day)
	if err != nil {
		return result, err
	}
	byLabel := make(map[string]models.BlockWithTasks, len(blocks))
	for _, block := range blocks {
		if _, exists := byLabel[block.Label]; !exists {
			byLabel[block.Label] = block
		}
	}

	seen := make(map[uint]bool, len(document.Blocks))
	for index, entry := range document.Blocks {
		order := index + 1
		block, exists := byLabel[entry.Label]
		switch {
		case !exists:
			validTo, err := boundBeforeNext(tx, "task_blocks", day, "label = ?", entry.Label)
			if err != nil {
				return result, err
			}
			created := models.TaskBlock{
				Label:        entry.Label,
				DisplayOrder: order,
				Validity:     models.Validity{ValidFrom: day, ValidTo: validTo},
			}
			if err := tx.Create(&created).Error; err != nil {
				return result, classify(err)
			}
			block = models.BlockWithTasks{TaskBlock: created, Tasks: []models.Task{}}
			result.BlocksAdded++
		case block.DisplayOrder != order:
			updated, err := reversionBlock(tx, block.ID, block.Label, order, day)
			if err != nil {
				return result, err
			}
			tasks, err := activeBlockTasks(tx, updated.ID, day)
			if err != nil {
				return result, err
			}
			block = models.BlockWithTasks{TaskBlock: updated, Tasks: tasks}
			result.BlocksUpdated++
		}
		byLabel[entry.Label] = block
		seen[block.ID] = true

		if err := syncTasks(tx, block, entry.Tasks, day, closeOn, prune, &result); err != nil {
			return result, err
		}
	}

	if !prune {
		return result, nil
	}
	for _, block := range blocks {
		if seen[block.ID] {
			continue
		}
		if err := retireBlock(tx, block.TaskBlock, day, closeOn); err != nil {
			return result, err
		}
		result.BlocksClosed++
	}
	return result, nil
}

func syncDoctors(tx *gorm.DB, entries []models.CatalogDoctor, day string, closeOn string, prune bool, result *models.CatalogSyncResult) error {
	doctors, err := activeDoctors(tx, day)
	if err != nil {
		return err
	}
	active := make(map[string]bool, len(doctors))
	for _, doctor := range doctors {
		active[doctor.Name] = true
	}

	wanted := make(map[string]bool, len(entries))
	for _, entry := range entries {
		wanted[entry.Name] = true
		if active[entry.Name] {
			continue
		}
		validTo, err := boundBeforeNext(tx, "doctors", day, "name = ?", entry.Name)
		if err != nil {
			return err
		}
		doctor := models.Doctor{
			Name:     entry.Name,
			Validity: models.Validity{ValidFrom: day, ValidTo: validTo},
		}
		if err := tx.Create(&doctor).Error; err != nil {
			return classify(err)
		}
		active[entry.Name] = true
		result.DoctorsAdded++
	}

	if !prune {
		return nil
	}
	for _, doctor := range doctors {
		if wanted[doctor.Name] {
			continue
		}
		if err := retireDoctor(tx, doctor, day, closeOn); err != nil {
			return err
		}
		result.DoctorsClosed++
	}
	return nil
}

func syncTasks(tx *gorm.DB, block models.BlockWithTasks, entries []models.CatalogTask, day string, closeOn string, prune bool, result *models.CatalogSyncResult) error {
	byNumber := make(map[int]models.Task, len(block.Tasks))
	for _, task := range block.Tasks {
		byNumber[task.TaskNumber] = task
	}

	// Explicit numbers go first so generated ones never take them.
	ordered := make([]models.CatalogTask, 0, len(entries))
	for _, entry := range entries {
		if entry.Number > 0 {
			ordered = append(ordered, entry)
		}
	}
	for _, entry := range entries {
		if entry.Number <= 0 {
			ordered = append(ordered, entry)
		}
	}

	wanted := make(map[int]bool, len(entries))
	for _, entry := range ordered {
		number := entry.Number
		if number <= 0 {
			if matched, ok := unclaimedTaskByLabel(block.Tasks, wanted, entry.Label); ok {
				wanted[matched.TaskNumber] = true
				continue
			}
			next, err := nextTaskNumber(tx, block.ID, day)
			if err != nil {
				return err
			}
			number = next
		}
		wanted[number] = true

		existing, exists := byNumber[number]
		switch {
		case !exists:
			validTo, err := boundBeforeNext(tx, "tasks", day, "block_id = ? AND task_number = ?", block.ID, number)
			if err != nil {
				return err
			}
			task := models.Task{
				BlockID:    block.ID,
				TaskNumber: number,
				Label:      entry.Label,
				Validity:   models.Validity{ValidFrom: day, ValidTo: earlierEnd(validTo, block.ValidTo)},
			}
			if err := createTask(tx, &task); err != nil {
				return err
			}
			byNumber[number] = task
			result.TasksAdded++
		case existing.Label != entry.Label:
			updated, err := reversionTask(tx, existing.ID, entry.Label, day)
			if err != nil {
				return err
			}
			byNumber[number] = updated
			result.TasksRelabeled++
		}
	}

	if !prune {
		return nil
	}
	stale := make([]models.Task, 0)
	for _, task := range block.Tasks {
		if !wanted[task.TaskNumber] {
			stale = append(stale, task)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].TaskNumber < stale[j].TaskNumber })
	for _, task := range stale {
		if err := retireTask(tx, task, day, closeOn); err != nil {
			return err
		}
		result.TasksClosed++
	}
	return nil
}

func unclaimedTaskByLabel(tasks []models.Task, claimed map[int]bool, label string) (models.Task, bool) {
	for _, task := range tasks {
		if task.Label == label && !claimed[task.TaskNumber] {
			return task, true
		}
	}
	return models.Task{}, false
}

// retireDoctor ends the doctor before day. Versions that start on day and
// have no reports are withdrawn instead, since valid_to cannot precede
// valid_from.
func retireDoctor(tx *gorm.DB, doctor models.Doctor, day string, closeOn string) error {
	if doctor.ValidFrom < day {
		_, err := closeDoctor(tx, doctor.ID, closeOn)
		return err
	}
	referenced, err := doctorReportedFrom(tx, doctor.ID, day)
	if err != nil {
		return err
	}
	if referenced {
		return ErrReferencedAfter
	}
	return classify(tx.Delete(&models.Doctor{}, doctor.ID).Error)
}

func retireTask(tx *gorm.DB, task models.Task, day string, closeOn string) error {
	if task.ValidFrom < day {
		_, err := closeTask(tx, task.ID, closeOn)
		return err
	}
	referenced, err := tasksReportedFrom(tx, []uint{task.ID}, day)
	if err != nil {
		return err
	}
	if referenced {
		return ErrReferencedAfter
	}
	return classify(tx.Delete(&models.Task{}, task.ID).Error)
}

func retireBlock(tx *gorm.DB, block models.TaskBlock, day string, closeOn string) error {
	if block.ValidFrom < day {
		_, err := closeBlock(tx, block.ID, closeOn)
		return err
	}

	var scheduled int64
	if err := tx.Model(&models.Task{}).
		Where("block_id = ? AND valid_from > ?", block.ID, day).
		Count(&scheduled).Error; err != nil {
		return err
	}
	if scheduled > 0 {
		return ErrScheduledVersions
	}
	taskIDs, err := blockTaskIDs(tx, block.ID)
	if err != nil {
		return err
	}
	referenced, err := tasksReportedFrom(tx, taskIDs, day)
	if err != nil {
		return err
	}
	if referenced {
		return ErrReferencedAfter
	}
	if err := tx.Where("block_id = ?", block.ID).Delete(&models.Task{}).Error; err != nil {
		return classify(err)
	}
	return classify(tx.Delete(&models.TaskBlock{}, block.ID).Error)
}
