package models

import (
	"time"
)

// MedicalRecord represents one clinical visit entry for a patient. Records
// are append-only: once created they are never updated or deleted, and the
// company a record belongs to is always derived through its patient rather
// than stored on the row, so a patient reassignment can never leave a
// record pointing at a stale company.
type MedicalRecord struct {
	BaseModel
	PatientID  string     `gorm:"size:36;index;not null" json:"patientId"`
	Notes      string     `gorm:"type:text;not null" json:"notes"`
	Diagnosis  string     `gorm:"size:255" json:"diagnosis,omitempty"`
	Medication string     `gorm:"size:255" json:"medication,omitempty"`
	VisitDate  *time.Time `json:"visitDate,omitempty"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
