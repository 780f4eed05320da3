package models

import "time"

type Doctor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Validity
	CreatedAt time.Time `json:"-"`
}

type TaskBlock struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Label        string `gorm:"not null" json:"label"`
	DisplayOrder int    `gorm:"not null" json:"display_order"`
	Validity
	CreatedAt time.Time `json:"-"`
}

type Task struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BlockID    uint   `gorm:"not null;uniqueIndex:uidx_tasks_block_number_from" json:"block_id"`
	TaskNumber int    `gorm:"not null;uniqueIndex:uidx_tasks_block_number_from" json:"number"`
	Label      string `gorm:"not null" json:"label"`
	Validity
	CreatedAt time.Time `json:"-"`
}

// BlockWithTasks is a block version together with the tasks active on the
// same day.
type BlockWithTasks struct {
	TaskBlock
	Tasks []Task `json:"tasks"`
}

// CatalogDocument is the editable shape of the catalog used by bulk sync,
// seeding and legacy import. Blocks are ordered; their index is the display
// order.
type CatalogDocument struct {
	Doctors []CatalogDoctor `json:"doctors" yaml:"doctors"`
	Blocks  []CatalogBlock  `json:"blocks" yaml:"blocks"`
}

type CatalogDoctor struct {
	Name string `json:"name" yaml:"name"`
}

type CatalogBlock struct {
	Label string        `json:"label" yaml:"label"`
	Tasks []CatalogTask `json:"tasks" yaml:"tasks"`
}

type CatalogTask struct {
	Number int    `json:"number" yaml:"number"`
	Label  string `json:"label" yaml:"label"`
}

type CatalogSyncResult struct {
	DoctorsAdded   int `json:"doctors_added"`
	DoctorsClosed  int `json:"doctors_closed"`
	BlocksAdded    int `json:"blocks_added"`
	BlocksUpdated  int `json:"blocks_updated"`
	BlocksClosed   int `json:"blocks_closed"`
	TasksAdded     int `json:"tasks_added"`
	TasksRelabeled int `json:"tasks_relabeled"`
	TasksClosed    int `json:"tasks_closed"`
}

func (result CatalogSyncResult) Changed() bool {
	return result != CatalogSyncResult{}
}

// CatalogSnapshot is the catalog as it stood on one day.
type CatalogSnapshot struct {
	Day     string           `json:"day"`
	Doctors []Doctor         `json:"doctors"`
	Blocks  []BlockWithTasks `json:"blocks"`
}
