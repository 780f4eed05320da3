package db

import (
	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository stores task blocks and the tasks they own.
type CatalogRepository struct {
	database *gorm.DB
}

func NewCatalogRepository(database *gorm.DB) *CatalogRepository {
	return &CatalogRepository{database: database}
}

func (repo *CatalogRepository) ActiveBlocks(day string) ([]models.BlockWithTasks, error) {
	return activeBlocksWithTasks(repo.database, day)
}

func (repo *CatalogRepository) FindBlock(blockID uint) (models.TaskBlock, error) {
	var block models.TaskBlock
	if err := repo.database.First(&block, blockID).Error; err != nil {
		return models.TaskBlock{}, err
	}
	return block, nil
}

func (repo *CatalogRepository) FindTask(taskID uint) (models.Task, error) {
	var task models.Task
	if err := repo.database.First(&task, taskID).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (repo *CatalogRepository) CountBlocks() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.TaskBlock{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *CatalogRepository) CreateBlock(block *models.TaskBlock) error {
	return classify(repo.database.Create(block).Error)
}

// CreateTask inserts task. A non-positive TaskNumber is replaced by the next
// number after the block's tasks still open on the task's start day.
func (repo *CatalogRepository) CreateTask(task *models.Task) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		return createTask(tx, task)
	})
}

// CloseBlock closes the block and every task of the block still open after
// validTo.
func (repo *CatalogRepository) CloseBlock(blockID uint, validTo string) (changed bool, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		changed, err = closeBlock(tx, blockID, validTo)
		return err
	})
	return changed, err
}

// UpdateBlock opens a new block version from effective and moves the tasks
// active on effective under it.
func (repo *CatalogRepository) UpdateBlock(blockID uint, label string, displayOrder int, effective string) (block models.TaskBlock, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		block, err = reversionBlock(tx, blockID, label, displayOrder, effective)
		return err
	})
	return block, err
}

func (repo *CatalogRepository) CloseTask(taskID uint, validTo string) (changed bool, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		changed, err = closeTask(tx, taskID, validTo)
		return err
	})
	return changed, err
}

func (repo *CatalogRepository) UpdateTask(taskID uint, label string, effective string) (task models.Task, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		task, err = reversionTask(tx, taskID, label, effective)
		return err
	})
	return task, err
}

func activeBlocksWithTasks(tx *gorm.DB, day string) ([]models.BlockWithTasks, error) {
	blocks := make([]models.TaskBlock, 0)
	if err := tx.Scopes(activeOn("task_blocks", day)).
		Order("display_order ASC, id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	result := make([]models.BlockWithTasks, 0, len(blocks))
	if len(blocks) == 0 {
		return result, nil
	}

	blockIDs := make([]uint, 0, len(blocks))
	for _, block := range blocks {
		blockIDs = append(blockIDs, block.ID)
	}
	tasks := make([]models.Task, 0)
	if err := tx.Scopes(activeOn("tasks", day)).
		Where("block_id IN ?", blockIDs).
		Order("task_number ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	tasksByBlock := make(map[uint][]models.Task, len(blocks))
	for _, task := range tasks {
		tasksByBlock[task.BlockID] = append(tasksByBlock[task.BlockID], task)
	}
	for _, block := range blocks {
		blockTasks := tasksByBlock[block.ID]
		if blockTasks == nil {
			blockTasks = []models.Task{}
		}
		result = append(result, models.BlockWithTasks{TaskBlock: block, Tasks: blockTasks})
	}
	return result, nil
}

func activeBlockTasks(tx *gorm.DB, blockID uint, day string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := tx.Scopes(activeOn("tasks", day)).
		Where("block_id = ?", blockID).
		Order("task_number ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func nextTaskNumber(tx *gorm.DB, blockID uint, day string) (int, error) {
	var highest int
	row := tx.Model(&models.Task{}).
		Select("COALESCE(MAX(task_number), 0)").
		Where("block_id = ? AND (valid_to IS NULL OR valid_to >= ?)", blockID, day).
		Row()
	if err := row.Scan(&highest); err != nil {
		return 0, err
	}
	return highest + 1, nil
}

func createTask(tx *gorm.DB, task *models.Task) error {
	if task.TaskNumber <= 0 {
		number, err := nextTaskNumber(tx, task.BlockID, task.ValidFrom)
		if err != nil {
			return err
		}
		task.TaskNumber = number
	}
	return classify(tx.Create(task).Error)
}

func blockTaskIDs(tx *gorm.DB, blockID uint) ([]uint, error) {
	taskIDs := make([]uint, 0)
	if err := tx.Model(&models.Task{}).Where("block_id = ?", blockID).Pluck("id", &taskIDs).Error; err != nil {
		return nil, err
	}
	return taskIDs, nil
}

func closeBlock(tx *gorm.DB, blockID uint, validTo string) (bool, error) {
	var block models.TaskBlock
	if err := tx.First(&block, blockID).Error; err != nil {
		return false, err
	}
	if block.IsClosed() || validTo < block.ValidFrom {
		return closeVersion(tx, "task_blocks", block.ID, block.Validity, validTo)
	}

	var scheduled int64
	if err := tx.Model(&models.Task{}).
		Where("block_id = ? AND valid_from > ?", block.ID, validTo).
		Count(&scheduled).Error; err != nil {
		return false, err
	}
	if scheduled > 0 {
		return false, ErrScheduledVersions
	}

	taskIDs, err := blockTaskIDs(tx, block.ID)
	if err != nil {
		return false, err
	}
	after, err := dayAfter(validTo)
	if err != nil {
		return false, err
	}
	referenced, err := tasksReportedFrom(tx, taskIDs, after)
	if err != nil {
		return false, err
	}
	if referenced {
		return false, ErrReferencedAfter
	}

	changed, err := closeVersion(tx, "task_blocks", block.ID, block.Validity, validTo)
	if err != nil {
		return false, err
	}
	if err := tx.Model(&models.Task{}).
		Where("block_id = ? AND (valid_to IS NULL OR valid_to > ?)", block.ID, validTo).
		Update("valid_to", validTo).Error; err != nil {
		return false, classify(err)
	}
	return changed, nil
}

func reversionBlock(tx *gorm.DB, blockID uint, label string, displayOrder int, effective string) (models.TaskBlock, error) {
	var current models.TaskBlock
	if err := tx.First(&current, blockID).Error; err != nil {
		return models.TaskBlock{}, err
	}
	if current.Label == label && current.DisplayOrder == displayOrder && current.ActiveOn(effective) {
		return current, nil
	}

	inPlace, closeOn, err := prepareReversion(current.Validity, effective)
	if err != nil {
		return models.TaskBlock{}, err
	}

	tasks := make([]models.Task, 0)
	if err := tx.Where("block_id = ?", current.ID).Order("task_number ASC, id ASC").Find(&tasks).Error; err != nil {
		return models.TaskBlock{}, err
	}
	taskIDs := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		if !inPlace && task.ValidFrom > effective {
			return models.TaskBlock{}, ErrScheduledVersions
		}
		taskIDs = append(taskIDs, task.ID)
	}
	referenced, err := tasksReportedFrom(tx, taskIDs, effective)
	if err != nil {
		return models.TaskBlock{}, err
	}
	if referenced {
		return models.TaskBlock{}, ErrReferencedAfter
	}

	if inPlace {
		if err := tx.Model(&current).Updates(map[string]any{
			"label":         label,
			"display_order": displayOrder,
		}).Error; err != nil {
			return models.TaskBlock{}, classify(err)
		}
		current.Label = label
		current.DisplayOrder = displayOrder
		return current, nil
	}

	if err := tx.Model(&models.TaskBlock{}).Where("id = ?", current.ID).Update("valid_to", closeOn).Error; err != nil {
		return models.TaskBlock{}, classify(err)
	}
	next := models.TaskBlock{
		Label:        label,
		DisplayOrder: displayOrder,
		Validity:     models.Validity{ValidFrom: effective, ValidTo: current.ValidTo},
	}
	if err := tx.Create(&next).Error; err != nil {
		return models.TaskBlock{}, classify(err)
	}

	for _, task := range tasks {
		if !task.ActiveOn(effective) {
			continue
		}
		if task.ValidFrom == effective {
			if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Update("block_id", next.ID).Error; err != nil {
				return models.TaskBlock{}, classify(err)
			}
			continue
		}
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Update("valid_to", closeOn).Error; err != nil {
			return models.TaskBlock{}, classify(err)
		}
		moved := models.Task{
			BlockID:    next.ID,
			TaskNumber: task.TaskNumber,
			Label:      task.Label,
			Validity:   models.Validity{ValidFrom: effective, ValidTo: task.ValidTo},
		}
		if err := createTask(tx, &moved); err != nil {
			return models.TaskBlock{}, err
		}
	}
	return next, nil
}

func closeTask(tx *gorm.DB, taskID uint, validTo string) (bool, error) {
	var task models.Task
	if err := tx.First(&task, taskID).Error; err != nil {
		return false, err
	}
	if task.IsClosed() || validTo < task.ValidFrom {
		return closeVersion(tx, "tasks", task.ID, task.Validity, validTo)
	}

	after, err := dayAfter(validTo)
	if err != nil {
		return false, err
	}
	referenced, err := tasksReportedFrom(tx, []uint{task.ID}, after)
	if err != nil {
		return false, err
	}
	if referenced {
		return false, ErrReferencedAfter
	}
	return closeVersion(tx, "tasks", task.ID, task.Validity, validTo)
}

func reversionTask(tx *gorm.DB, taskID uint, label string, effective string) (models.Task, error) {
	var current models.Task
	if err := tx.First(&current, taskID).Error; err != nil {
		return models.Task{}, err
	}
	if current.Label == label && current.ActiveOn(effective) {
		return current, nil
	}

	inPlace, closeOn, err := prepareReversion(current.Validity, effective)
	if err != nil {
		return models.Task{}, err
	}
	referenced, err := tasksReportedFrom(tx, []uint{current.ID}, effective)
	if err != nil {
		return models.Task{}, err
	}
	if referenced {
		return models.Task{}, ErrReferencedAfter
	}

	if inPlace {
		if err := tx.Model(&current).Update("label", label).Error; err != nil {
			return models.Task{}, classify(err)
		}
		current.Label = label
		return current, nil
	}

	if err := tx.Model(&models.Task{}).Where("id = ?", current.ID).Update("valid_to", closeOn).Error; err != nil {
		return models.Task{}, classify(err)
	}
	next := models.Task{
		BlockID:    current.BlockID,
		TaskNumber: current.TaskNumber,
		Label:      label,
		Validity:   models.Validity{ValidFrom: effective, ValidTo: current.ValidTo},
	}
	if err := createTask(tx, &next); err != nil {
		return models.Task{}, err
	}
	return next, nil
}
