// Package repository persists clinic entities behind narrow interfaces so
// services and the dispatch workflow can be exercised against mocks.
package repository

import (
	"context"
	"time"

	"clinic-records-server/internal/models"
)

// UserRepository manages staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *models.User) error
}

// RefreshTokenRepository manages persisted staff session tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// PatientRecords pairs a patient with their medical records, the unit of
// dispatch aggregation.
type PatientRecords struct {
	Patient models.Patient
	Records []models.MedicalRecord
}

// CompanyRepository manages client organizations.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id string) (*models.Company, error)
	// List returns companies ordered by creation time ascending. A non-empty
	// nameFilter restricts the result to names containing the substring.
	List(ctx context.Context, nameFilter string) ([]models.Company, error)
	Save(ctx context.Context, company *models.Company) error
	// DeleteCascade removes a company together with its patients and their
	// medical records in a single transaction.
	DeleteCascade(ctx context.Context, id string) error
	// ListWithRecordsOn returns companies that own at least one medical
	// record created on the given calendar day.
	ListWithRecordsOn(ctx context.Context, day time.Time) ([]models.Company, error)
	// AggregateRecords reads a company's patients (ordered by last name then
	// first name) and each patient's records (ordered by creation time) in a
	// single repeatable-read transaction, so the caller sees a consistent
	// snapshot even under concurrent writes.
	AggregateRecords(ctx context.Context, companyID string) ([]PatientRecords, error)
}

// PatientRepository manages patients.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	FindByDocument(ctx context.Context, documentNumber string) (*models.Patient, error)
	// List returns patients ordered by creation time ascending, optionally
	// restricted to one company.
	List(ctx context.Context, companyID string) ([]models.Patient, error)
	Save(ctx context.Context, patient *models.Patient) error
	// DeleteCascade removes a patient together with their medical records
	// in a single transaction.
	DeleteCascade(ctx context.Context, id string) error
}

// MedicalRecordRepository manages append-only medical records.
type MedicalRecordRepository interface {
	Create(ctx context.Context, record *models.MedicalRecord) error
	FindByID(ctx context.Context, id string) (*models.MedicalRecord, error)
	// ListByPatient returns a patient's records ordered by creation time
	// ascending.
	ListByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error)
}
