package models

import (
	"strings"
	"time"
)

// Patient represents an individual tracked under exactly one company.
type Patient struct {
	BaseModel
	CompanyID      string     `gorm:"size:36;index;not null" json:"companyId"`
	FirstName      string     `gorm:"size:100;not null" json:"firstName"`
	LastName       string     `gorm:"size:100;not null" json:"lastName"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	DocumentNumber string     `gorm:"size:64;uniqueIndex:idx_patients_document,where:document_number <> ''" json:"documentNumber,omitempty"`
	Phone          string     `gorm:"size:50" json:"phone,omitempty"`
	Email          string     `gorm:"size:255" json:"email,omitempty"`

	Company        Company         `gorm:"foreignKey:CompanyID" json:"-"`
	MedicalRecords []MedicalRecord `gorm:"foreignKey:PatientID" json:"-"`
}

// FullName returns the patient's display name as used in listings and
// dispatched summaries.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
