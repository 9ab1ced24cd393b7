package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"clinic-records-server/internal/models"
)

// GormCompanyRepository is the PostgreSQL-backed CompanyRepository.
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository.
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

func (r *GormCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

func (r *GormCompanyRepository) FindByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *GormCompanyRepository) List(ctx context.Context, nameFilter string) ([]models.Company, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if nameFilter != "" {
		q = q.Where("name ILIKE ?", "%"+nameFilter+"%")
	}
	var companies []models.Company
	if err := q.Find(&companies).Error; err != nil {
		return nil, translate(err)
	}
	return companies, nil
}

func (r *GormCompanyRepository) Save(ctx context.Context, company *models.Company) error {
	return translate(r.db.WithContext(ctx).Save(company).Error)
}

// DeleteCascade removes the company's medical records, then its patients,
// then the company itself. All three deletes commit or roll back together.
func (r *GormCompanyRepository) DeleteCascade(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id IN (?)",
			tx.Model(&models.Patient{}).Select("id").Where("company_id = ?", id),
		).Delete(&models.MedicalRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Patient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&company).Error
	})
	return translate(err)
}

// AggregateRecords runs the dispatch read inside one repeatable-read
// transaction: every statement sees the same snapshot, so a write landing
// mid-aggregation cannot produce a patient list and record lists from
// different points in time.
func (r *GormCompanyRepository) AggregateRecords(ctx context.Context, companyID string) ([]PatientRecords, error) {
	var sections []PatientRecords
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patients []models.Patient
		if err := tx.Where("company_id = ?", companyID).
			Order("last_name ASC, first_name ASC").
			Find(&patients).Error; err != nil {
			return err
		}
		sections = make([]PatientRecords, 0, len(patients))
		for _, p := range patients {
			var records []models.MedicalRecord
			if err := tx.Where("patient_id = ?", p.ID).
				Order("created_at ASC").
				Find(&records).Error; err != nil {
				return err
			}
			sections = append(sections, PatientRecords{Patient: p, Records: records})
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, translate(err)
	}
	return sections, nil
}

func (r *GormCompanyRepository) ListWithRecordsOn(ctx context.Context, day time.Time) ([]models.Company, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var companies []models.Company
	err := r.db.WithContext(ctx).
		Distinct("companies.*").
		Joins("JOIN patients ON patients.company_id = companies.id").
		Joins("JOIN medical_records ON medical_records.patient_id = patients.id").
		Where("medical_records.created_at >= ? AND medical_records.created_at < ?", start, end).
		Order("companies.created_at ASC").
		Find(&companies).Error
	if err != nil {
		return nil, translate(err)
	}
	return companies, nil
}
