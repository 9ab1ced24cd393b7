package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-records-server/internal/models"
)

// GormMedicalRecordRepository is the PostgreSQL-backed MedicalRecordRepository.
type GormMedicalRecordRepository struct {
	db *gorm.DB
}

// NewGormMedicalRecordRepository creates a new GormMedicalRecordRepository.
func NewGormMedicalRecordRepository(db *gorm.DB) *GormMedicalRecordRepository {
	return &GormMedicalRecordRepository{db: db}
}

func (r *GormMedicalRecordRepository) Create(ctx context.Context, record *models.MedicalRecord) error {
	return translate(r.db.WithContext(ctx).Create(record).Error)
}

func (r *GormMedicalRecordRepository) FindByID(ctx context.Context, id string) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *GormMedicalRecordRepository) ListByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	return records, nil
}
