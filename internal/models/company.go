package models

// Company represents a client organization whose patients the clinic
// tracks. It is the unit of granularity for the dispatch workflow: record
// summaries are compiled and emailed per company.
type Company struct {
	BaseModel
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	// Email may hold a comma-separated list of contact addresses.
	Email   string `gorm:"size:512;not null" json:"email"`
	Address string `gorm:"size:255" json:"address,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`

	Patients []Patient `gorm:"foreignKey:CompanyID" json:"-"`
}
