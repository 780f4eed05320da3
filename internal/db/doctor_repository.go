package db

import (
	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	database *gorm.DB
}

func NewDoctorRepository(database *gorm.DB) *DoctorRepository {
	return &DoctorRepository{database: database}
}

func (repo *DoctorRepository) ListActiveOn(day string) ([]models.Doctor, error) {
	return activeDoctors(repo.database, day)
}

func (repo *DoctorRepository) FindByID(doctorID uint) (models.Doctor, error) {
	var doctor models.Doctor
	if err := repo.database.First(&doctor, doctorID).Error; err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (repo *DoctorRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Doctor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *DoctorRepository) Create(doctor *models.Doctor) error {
	return classify(repo.database.Create(doctor).Error)
}

// Close sets valid_to on the doctor. changed is false when the doctor was
// already closed on the same day.
func (repo *DoctorRepository) Close(doctorID uint, validTo string) (changed bool, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		changed, err = closeDoctor(tx, doctorID, validTo)
		return err
	})
	return changed, err
}

// Rename opens a new version of the doctor named name starting at effective.
func (repo *DoctorRepository) Rename(doctorID uint, name string, effective string) (doctor models.Doctor, err error) {
	err = repo.database.Transaction(func(tx *gorm.DB) error {
		doctor, err = renameDoctor(tx, doctorID, name, effective)
		return err
	})
	return doctor, err
}

func activeDoctors(tx *gorm.DB, day string) ([]models.Doctor, error) {
	doctors := make([]models.Doctor, 0)
	if err := tx.Scopes(activeOn("doctors", day)).
		Order("name ASC, id ASC").
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func closeDoctor(tx *gorm.DB, doctorID uint, validTo string) (bool, error) {
	var doctor models.Doctor
	if err := tx.First(&doctor, doctorID).Error; err != nil {
		return false, err
	}
	if doctor.IsClosed() || validTo < doctor.ValidFrom {
		return closeVersion(tx, "doctors", doctor.ID, doctor.Validity, validTo)
	}

	after, err := dayAfter(validTo)
	if err != nil {
		return false, err
	}
	referenced, err := doctorReportedFrom(tx, doctor.ID, after)
	if err != nil {
		return false, err
	}
	if referenced {
		return false, ErrReferencedAfter
	}
	return closeVersion(tx, "doctors", doctor.ID, doctor.Validity, validTo)
}

func renameDoctor(tx *gorm.DB, doctorID uint, name string, effective string) (models.Doctor, error) {
	var current models.Doctor
	if err := tx.First(&current, doctorID).Error; err != nil {
		return models.Doctor{}, err
	}
	if current.Name == name && current.ActiveOn(effective) {
		return current, nil
	}

	inPlace, closeOn, err := prepareReversion(current.Validity, effective)
	if err != nil {
		return models.Doctor{}, err
	}
	referenced, err := doctorReportedFrom(tx, current.ID, effective)
	if err != nil {
		return models.Doctor{}, err
	}
	if referenced {
		return models.Doctor{}, ErrReferencedAfter
	}

	if inPlace {
		if err := tx.Model(&current).Update("name", name).Error; err != nil {
			return models.Doctor{}, classify(err)
		}
		current.Name = name
		return current, nil
	}

	next := models.Doctor{
		Name:     name,
		Validity: models.Validity{ValidFrom: effective, ValidTo: current.ValidTo},
	}
	if err := tx.Model(&models.Doctor{}).Where("id = ?", current.ID).Update("valid_to", closeOn).Error; err != nil {
		return models.Doctor{}, classify(err)
	}
	if err := tx.Create(&next).Error; err != nil {
		return models.Doctor{}, classify(err)
	}
	return next, nil
}
