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

// MedicalRecordInput carries the recognized fields for creating a medical
// record. PatientID and Notes are required; records are append-only, so
// there is no update input.
type MedicalRecordInput struct {
	PatientID  string
	Notes      string
	Diagnosis  string
	Medication string
	VisitDate  *time.Time
}

// MedicalRecordService manages append-only medical records.
type MedicalRecordService struct {
	records  repository.MedicalRecordRepository
	patients repository.PatientRepository
}

// NewMedicalRecordService creates a new MedicalRecordService.
func NewMedicalRecordService(records repository.MedicalRecordRepository, patients repository.PatientRepository) *MedicalRecordService {
	return &MedicalRecordService{records: records, patients: patients}
}

// Create validates the input, verifies the patient reference exists and
// persists a new record. A dangling patient id fails with ErrIntegrity and
// commits nothing.
func (s *MedicalRecordService) Create(ctx context.Context, in MedicalRecordInput) (*models.MedicalRecord, error) {
	if strings.TrimSpace(in.PatientID) == "" {
		return nil, apperrors.Validationf("a patient must be selected")
	}
	if strings.TrimSpace(in.Notes) == "" {
		return nil, apperrors.Validationf("clinical notes are required")
	}
	if _, err := s.patients.FindByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Integrityf("patient %s does not exist", in.PatientID)
		}
		return nil, err
	}
	record := &models.MedicalRecord{
		PatientID:  in.PatientID,
		Notes:      in.Notes,
		Diagnosis:  in.Diagnosis,
		Medication: in.Medication,
		VisitDate:  in.VisitDate,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns a record by id.
func (s *MedicalRecordService) Get(ctx context.Context, id string) (*models.MedicalRecord, error) {
	return s.records.FindByID(ctx, id)
}

// ListByPatient returns a patient's records ordered by creation time.
func (s *MedicalRecordService) ListByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, apperrors.Validationf("a patient must be selected")
	}
	return s.records.ListByPatient(ctx, patientID)
}

// CompanyOf resolves the company a record belongs to, transitively through
// its patient. The relationship is always computed, never stored.
func (s *MedicalRecordService) CompanyOf(ctx context.Context, recordID string) (string, error) {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	patient, err := s.patients.FindByID(ctx, record.PatientID)
	if err != nil {
		return "", err
	}
	return patient.CompanyID, nil
}
