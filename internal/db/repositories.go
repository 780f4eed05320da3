package db

import "gorm.io/gorm"

type Repositories struct {
	Doctors  *DoctorRepository
	Catalog  *CatalogRepository
	Reports  *ReportRepository
	Settings *SettingRepository
	Admins   *AdminRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Doctors:  NewDoctorRepository(database),
		Catalog:  NewCatalogRepository(database),
		Reports:  NewReportRepository(database),
		Settings: NewSettingRepository(database),
		Admins:   NewAdminRepository(database),
	}
}
