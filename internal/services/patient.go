package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-records-server/internal/apperrors"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
)

// PatientInput carries the recognized fields for creating or updating a
// patient. CompanyID, FirstName and LastName are required.
type PatientInput struct {
	CompanyID      string
	FirstName      string
	LastName       string
	DateOfBirth    *time.Time
	DocumentNumber string
	Phone          string
	Email          string
}

// PatientService manages patients under companies.
type PatientService struct {
	patients  repository.PatientRepository
	companies repository.CompanyRepository
}

// NewPatientService creates a new PatientService.
func NewPatientService(patients repository.PatientRepository, companies repository.CompanyRepository) *PatientService {
	return &PatientService{patients: patients, companies: companies}
}

func (in *PatientInput) validate() error {
	if strings.TrimSpace(in.CompanyID) == "" {
		return apperrors.Validationf("a company must be selected")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return apperrors.Validationf("patient first and last name are required")
	}
	return nil
}

// Create validates the input, verifies the company reference exists and
// persists a new patient. A dangling company id fails with ErrIntegrity
// and commits nothing.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.companies.FindByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Integrityf("company %s does not exist", in.CompanyID)
		}
		return nil, err
	}
	patient := &models.Patient{
		CompanyID:      in.CompanyID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		DateOfBirth:    in.DateOfBirth,
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Phone:          in.Phone,
		Email:          in.Email,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Get returns a patient by id.
func (s *PatientService) Get(ctx context.Context, id string) (*models.Patient, error) {
	return s.patients.FindByID(ctx, id)
}

// GetByDocument returns a patient by document number.
func (s *PatientService) GetByDocument(ctx context.Context, documentNumber string) (*models.Patient, error) {
	if strings.TrimSpace(documentNumber) == "" {
		return nil, apperrors.Validationf("document number is required")
	}
	return s.patients.FindByDocument(ctx, documentNumber)
}

// List returns patients ordered by creation time, optionally restricted to
// one company.
func (s *PatientService) List(ctx context.Context, companyID string) ([]models.Patient, error) {
	return s.patients.List(ctx, companyID)
}

// Update re-validates and persists an existing patient. Reassigning the
// patient to another company re-checks that the target company exists.
func (s *PatientService) Update(ctx context.Context, id string, in PatientInput) (*models.Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.CompanyID != in.CompanyID {
		if _, err := s.companies.FindByID(ctx, in.CompanyID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.Integrityf("company %s does not exist", in.CompanyID)
			}
			return nil, err
		}
	}
	patient.CompanyID = in.CompanyID
	patient.FirstName = strings.TrimSpace(in.FirstName)
	patient.LastName = strings.TrimSpace(in.LastName)
	patient.DateOfBirth = in.DateOfBirth
	patient.DocumentNumber = strings.TrimSpace(in.DocumentNumber)
	patient.Phone = in.Phone
	patient.Email = in.Email
	if err := s.patients.Save(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes a patient together with their medical records.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	return s.patients.DeleteCascade(ctx, id)
}
