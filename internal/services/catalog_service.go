package services

import (
	"strings"

	"github.com/terraincognita07/labcheck/internal/models"
)

type CatalogDoctorRepository interface {
	ListActiveOn(day string) ([]models.Doctor, error)
	FindByID(doctorID uint) (models.Doctor, error)
	Count() (int64, error)
	Create(doctor *models.Doctor) error
	Close(doctorID uint, validTo string) (bool, error)
	Rename(doctorID uint, name string, effective string) (models.Doctor, error)
}

type CatalogBlockRepository interface {
	ActiveBlocks(day string) ([]models.BlockWithTasks, error)
	FindBlock(blockID uint) (models.TaskBlock, error)
	CountBlocks() (int64, error)
	CreateBlock(block *models.TaskBlock) error
	CreateTask(task *models.Task) error
	CloseBlock(blockID uint, validTo string) (bool, error)
	UpdateBlock(blockID uint, label string, displayOrder int, effective string) (models.TaskBlock, error)
	CloseTask(taskID uint, validTo string) (bool, error)
	UpdateTask(taskID uint, label string, effective string) (models.Task, error)
	SyncCatalog(document models.CatalogDocument, day string, prune bool) (models.CatalogSyncResult, error)
}

// CatalogService edits and reads the effective-dated doctor and block
// catalog. Blank day arguments mean today on the service clock.
type CatalogService struct {
	doctors CatalogDoctorRepository
	blocks  CatalogBlockRepository
	clock   Clock
}

func NewCatalogService(doctors CatalogDoctorRepository, blocks CatalogBlockRepository, clock Clock) *CatalogService {
	return &CatalogService{doctors: doctors, blocks: blocks, clock: clock}
}

func (service *CatalogService) Today() string {
	return service.clock.Today()
}

func (service *CatalogService) ListActiveDoctors(day string) ([]models.Doctor, error) {
	resolved, err := service.clock.dayOrToday(day)
	if err != nil {
		return nil, err
	}
	doctors, err := service.doctors.ListActiveOn(resolved)
	if err != nil {
		return nil, fromStorage(err, nil)
	}
	return doctors, nil
}

func (service *CatalogService) AddDoctor(name string, validFrom string) (models.Doctor, error) {
	name = normalizeName(name)
	if name == "" {
		return models.Doctor{}, ErrDoctorNameRequired
	}
	from, err := service.clock.dayOrToday(validFrom)
	if err != nil {
		return models.Doctor{}, err
	}

	doctor := models.Doctor{Name: name, Validity: models.Validity{ValidFrom: from}}
	if err := service.doctors.Create(&doctor); err != nil {
		return models.Doctor{}, fromStorage(err, nil)
	}
	return doctor, nil
}

// DeactivateDoctor closes the doctor on validTo inclusive. changed is false
// when the doctor was already closed on that day.
func (service *CatalogService) DeactivateDoctor(doctorID uint, validTo string) (changed bool, err error) {
	if doctorID == 0 {
		return false, ErrInvalidID
	}
	to, err := service.clock.dayOrToday(validTo)
	if err != nil {
		return false, err
	}
	changed, err = service.doctors.Close(doctorID, to)
	return changed, fromStorage(err, ErrDoctorNotFound)
}

func (service *CatalogService) RenameDoctor(doctorID uint, name string, effective string) (models.Doctor, error) {
	if doctorID == 0 {
		return models.Doctor{}, ErrInvalidID
	}
	name = normalizeName(name)
	if name == "" {
		return models.Doctor{}, ErrDoctorNameRequired
	}
	from, err := service.clock.dayOrToday(effective)
	if err != nil {
		return models.Doctor{}, err
	}
	doctor, err := service.doctors.Rename(doctorID, name, from)
	if err != nil {
		return models.Doctor{}, fromStorage(err, ErrDoctorNotFound)
	}
	return doctor, nil
}

func (service *CatalogService) ListActiveBlocks(day string) ([]models.BlockWithTasks, error) {
	resolved, err := service.clock.dayOrToday(day)
	if err != nil {
		return nil, err
	}
	blocks, err := service.blocks.ActiveBlocks(resolved)
	if err != nil {
		return nil, fromStorage(err, nil)
	}
	return blocks, nil
}

// AddBlock opens a block on validFrom. A non-positive displayOrder places the
// block after the blocks active on that day.
func (service *CatalogService) AddBlock(label string, displayOrder int, validFrom string) (models.TaskBlock, error) {
	label = normalizeName(label)
	if label == "" {
		return models.TaskBlock{}, ErrBlockLabelRequired
	}
	from, err := service.clock.dayOrToday(validFrom)
	if err != nil {
		return models.TaskBlock{}, err
	}

	if displayOrder <= 0 {
		active, err := service.blocks.ActiveBlocks(from)
		if err != nil {
			return models.TaskBlock{}, fromStorage(err, nil)
		}
		displayOrder = 1
		for _, block := range active {
			if block.DisplayOrder >= displayOrder {
				displayOrder = block.DisplayOrder + 1
			}
		}
	}

	block := models.TaskBlock{Label: label, DisplayOrder: displayOrder, Validity: models.Validity{ValidFrom: from}}
	if err := service.blocks.CreateBlock(&block); err != nil {
		return models.TaskBlock{}, fromStorage(err, nil)
	}
	return block, nil
}

func (service *CatalogService) DeactivateBlock(blockID uint, validTo string) (changed bool, err error) {
	if blockID == 0 {
		return false, ErrInvalidID
	}
	to, err := service.clock.dayOrToday(validTo)
	if err != nil {
		return false, err
	}
	changed, err = service.blocks.CloseBlock(blockID, to)
	return changed, fromStorage(err, ErrBlockNotFound)
}

func (service *CatalogService) UpdateBlock(blockID uint, label string, displayOrder int, effective string) (models.TaskBlock, error) {
	if blockID == 0 {
		return models.TaskBlock{}, ErrInvalidID
	}
	label = normalizeName(label)
	if label == "" {
		return models.TaskBlock{}, ErrBlockLabelRequired
	}
	from, err := service.clock.dayOrToday(effective)
	if err != nil {
		return models.TaskBlock{}, err
	}
	if displayOrder <= 0 {
		current, err := service.blocks.FindBlock(blockID)
		if err != nil {
			return models.TaskBlock{}, fromStorage(err, ErrBlockNotFound)
		}
		displayOrder = current.DisplayOrder
	}

	block, err := service.blocks.UpdateBlock(blockID, label, displayOrder, from)
	if err != nil {
		return models.TaskBlock{}, fromStorage(err, ErrBlockNotFound)
	}
	return block, nil
}

// AddTask opens a task in the block on validFrom. A non-positive number takes
// the next free number in the block.
func (service *CatalogService) AddTask(blockID uint, number int, label string, validFrom string) (models.Task, error) {
	if blockID == 0 {
		return models.Task{}, ErrInvalidID
	}
	label = normalizeName(label)
	if label == "" {
		return models.Task{}, ErrTaskLabelRequired
	}
	from, err := service.clock.dayOrToday(validFrom)
	if err != nil {
		return models.Task{}, err
	}
	if number < 0 {
		number = 0
	}

	task := models.Task{BlockID: blockID, TaskNumber: number, Label: label, Validity: models.Validity{ValidFrom: from}}
	if err := service.blocks.CreateTask(&task); err != nil {
		return models.Task{}, fromStorage(err, ErrBlockNotFound)
	}
	return task, nil
}

func (service *CatalogService) DeactivateTask(taskID uint, validTo string) (changed bool, err error) {
	if taskID == 0 {
		return false, ErrInvalidID
	}
	to, err := service.clock.dayOrToday(validTo)
	if err != nil {
		return false, err
	}
	changed, err = service.blocks.CloseTask(taskID, to)
	return changed, fromStorage(err, ErrTaskNotFound)
}

func (service *CatalogService) UpdateTask(taskID uint, label string, effective string) (models.Task, error) {
	if taskID == 0 {
		return models.Task{}, ErrInvalidID
	}
	label = normalizeName(label)
	if label == "" {
		return models.Task{}, ErrTaskLabelRequired
	}
	from, err := service.clock.dayOrToday(effective)
	if err != nil {
		return models.Task{}, err
	}
	task, err := service.blocks.UpdateTask(taskID, label, from)
	if err != nil {
		return models.Task{}, fromStorage(err, ErrTaskNotFound)
	}
	return task, nil
}

func (service *CatalogService) GetCatalog(day string) (models.CatalogSnapshot, error) {
	resolved, err := service.clock.dayOrToday(day)
	if err != nil {
		return models.CatalogSnapshot{}, err
	}
	doctors, err := service.doctors.ListActiveOn(resolved)
	if err != nil {
		return models.CatalogSnapshot{}, fromStorage(err, nil)
	}
	blocks, err := service.blocks.ActiveBlocks(resolved)
	if err != nil {
		return models.CatalogSnapshot{}, fromStorage(err, nil)
	}
	return models.CatalogSnapshot{Day: resolved, Doctors: doctors, Blocks: blocks}, nil
}

// ApplyCatalog brings the catalog active on day in line with document. With
// prune set, doctors, blocks and tasks missing from document stop on day-1.
// Versions starting on day are withdrawn instead, unless a report uses them.
func (service *CatalogService) ApplyCatalog(document models.CatalogDocument, day string, prune bool) (models.CatalogSyncResult, error) {
	normalized, err := NormalizeCatalogDocument(document)
	if err != nil {
		return models.CatalogSyncResult{}, err
	}
	resolved, err := service.clock.dayOrToday(day)
	if err != nil {
		return models.CatalogSyncResult{}, err
	}
	result, err := service.blocks.SyncCatalog(normalized, resolved, prune)
	if err != nil {
		return models.CatalogSyncResult{}, fromStorage(err, nil)
	}
	return result, nil
}

// IsEmpty reports whether no doctor or block version was ever stored.
func (service *CatalogService) IsEmpty() (bool, error) {
	doctors, err := service.doctors.Count()
	if err != nil {
		return false, fromStorage(err, nil)
	}
	blocks, err := service.blocks.CountBlocks()
	if err != nil {
		return false, fromStorage(err, nil)
	}
	return doctors == 0 && blocks == 0, nil
}

// NormalizeCatalogDocument trims names and rejects blank or repeated entries.
func NormalizeCatalogDocument(document models.CatalogDocument) (models.CatalogDocument, error) {
	normalized := models.CatalogDocument{
		Doctors: make([]models.CatalogDoctor, 0, len(document.Doctors)),
		Blocks:  make([]models.CatalogBlock, 0, len(document.Blocks)),
	}

	doctorNames := make(map[string]bool, len(document.Doctors))
	for _, doctor := range document.Doctors {
		name := normalizeName(doctor.Name)
		if name == "" {
			return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "doctor name is empty")
		}
		if doctorNames[name] {
			return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "doctor "+name+" is listed twice")
		}
		doctorNames[name] = true
		normalized.Doctors = append(normalized.Doctors, models.CatalogDoctor{Name: name})
	}

	blockLabels := make(map[string]bool, len(document.Blocks))
	for _, block := range document.Blocks {
		label := normalizeName(block.Label)
		if label == "" {
			return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "block label is empty")
		}
		if blockLabels[label] {
			return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "block "+label+" is listed twice")
		}
		blockLabels[label] = true

		tasks := make([]models.CatalogTask, 0, len(block.Tasks))
		numbers := make(map[int]bool, len(block.Tasks))
		for _, task := range block.Tasks {
			taskLabel := normalizeName(task.Label)
			if taskLabel == "" {
				return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "task label is empty in block "+label)
			}
			number := task.Number
			if number < 0 {
				number = 0
			}
			if number > 0 && numbers[number] {
				return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "task number repeats in block "+label)
			}
			numbers[number] = true
			tasks = append(tasks, models.CatalogTask{Number: number, Label: taskLabel})
		}
		normalized.Blocks = append(normalized.Blocks, models.CatalogBlock{Label: label, Tasks: tasks})
	}
	return normalized, nil
}

func normalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func (service *CatalogService) FindDoctor(doctorID uint) (models.Doctor, error) {
	if doctorID == 0 {
		return models.Doctor{}, ErrInvalidID
	}
	doctor, err := service.doctors.FindByID(doctorID)
	if err != nil {
		return models.Doctor{}, fromStorage(err, ErrDoctorNotFound)
	}
	return doctor, nil
}
