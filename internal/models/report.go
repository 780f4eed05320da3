package models

import "time"

type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportDate string    `gorm:"type:text;not null;uniqueIndex:uidx_reports_date_doctor" json:"report_date"`
	DoctorID   uint      `gorm:"not null;uniqueIndex:uidx_reports_date_doctor" json:"doctor_id"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

type ReportTask struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ReportID      uint      `gorm:"not null;uniqueIndex:uidx_report_tasks_report_task" json:"report_id"`
	TaskID        uint      `gorm:"not null;uniqueIndex:uidx_report_tasks_report_task" json:"task_id"`
	IsComplete    bool      `gorm:"not null;default:false" json:"is_complete"`
	IsNotComplete bool      `gorm:"not null;default:false" json:"is_not_complete"`
	Description   string    `gorm:"not null;default:''" json:"description"`
	UpdatedAt     time.Time `json:"-"`
}

// TaskOutcome is one task result submitted for a report.
type TaskOutcome struct {
	TaskID      uint       `json:"id"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description"`
}

type TaskStatus struct {
	Complete    bool `json:"complete"`
	NotComplete bool `json:"notComplete"`
}

// ReportSheet is a report joined against the catalog active on its date.
type ReportSheet struct {
	ID         uint         `json:"id"`
	ReportDate string       `json:"report_date"`
	DoctorID   uint         `json:"doctor_id"`
	Blocks     []SheetBlock `json:"blocks"`
}

type SheetBlock struct {
	ID           uint        `json:"id"`
	Label        string      `json:"label"`
	DisplayOrder int         `json:"display_order"`
	Tasks        []SheetTask `json:"tasks"`
}

type SheetTask struct {
	ID          uint       `json:"id"`
	Number      int        `json:"number"`
	Label       string     `json:"label"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description"`
}
