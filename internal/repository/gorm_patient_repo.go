package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-records-server/internal/models"
)

// GormPatientRepository is the PostgreSQL-backed PatientRepository.
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository.
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

func (r *GormPatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return translate(r.db.WithContext(ctx).Create(patient).Error)
}

func (r *GormPatientRepository) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

func (r *GormPatientRepository) FindByDocument(ctx context.Context, documentNumber string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Where("document_number = ?", documentNumber).First(&patient).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

func (r *GormPatientRepository) List(ctx context.Context, companyID string) ([]models.Patient, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	var patients []models.Patient
	if err := q.Find(&patients).Error; err != nil {
		return nil, translate(err)
	}
	return patients, nil
}

func (r *GormPatientRepository) Save(ctx context.Context, patient *models.Patient) error {
	return translate(r.db.WithContext(ctx).Save(patient).Error)
}

// DeleteCascade removes the patient's medical records, then the patient.
// Both deletes commit or roll back together.
func (r *GormPatientRepository) DeleteCascade(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", id).Delete(&models.MedicalRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&patient).Error
	})
	return translate(err)
}
