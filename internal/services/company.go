// Package services holds the entity services. Each service validates its
// input, enforces referential integrity against the store, and returns
// errors from the apperrors taxonomy. Cross-entity composition
// (company → patients → records) is the dispatch package's job, not
// the services'.
package services

import (
	"context"
	"strings"
	"time"

	"clinic-records-server/internal/apperrors"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
)

// CompanyInput carries the recognized fields for creating or updating a
// company. Name and Email are required.
type CompanyInput struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

// CompanyService manages client organizations.
type CompanyService struct {
	companies repository.CompanyRepository
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companies repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

func (in *CompanyInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.Validationf("company name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return apperrors.Validationf("company contact email is required")
	}
	return nil
}

// Create validates the input and persists a new company. A duplicate name
// surfaces as ErrIntegrity from the store's unique index.
func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (*models.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	company := &models.Company{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Address: in.Address,
		Phone:   in.Phone,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Get returns a company by id.
func (s *CompanyService) Get(ctx context.Context, id string) (*models.Company, error) {
	return s.companies.FindByID(ctx, id)
}

// List returns companies ordered by creation time, optionally filtered by
// a name substring.
func (s *CompanyService) List(ctx context.Context, nameFilter string) ([]models.Company, error) {
	return s.companies.List(ctx, nameFilter)
}

// Update re-validates and persists an existing company.
func (s *CompanyService) Update(ctx context.Context, id string, in CompanyInput) (*models.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	company.Name = strings.TrimSpace(in.Name)
	company.Email = strings.TrimSpace(in.Email)
	company.Address = in.Address
	company.Phone = in.Phone
	if err := s.companies.Save(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes a company together with its patients and their records.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	return s.companies.DeleteCascade(ctx, id)
}

// DispatchCandidates returns companies owning at least one record created
// on the given day.
func (s *CompanyService) DispatchCandidates(ctx context.Context, day time.Time) ([]models.Company, error) {
	return s.companies.ListWithRecordsOn(ctx, day)
}
