package dispatch

import (
	"fmt"
	"strings"
	"time"

	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
)

const dateLayout = "2006-01-02"

// renderCompanyDocument builds the self-contained plain-text summary for
// one company. Patients with no records get a per-patient notice and a
// company with nothing on file gets an explicit no-records notice, so the
// recipient always receives a response for a selection the staff made.
func renderCompanyDocument(company models.Company, sections []repository.PatientRecords) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Medical record summary for %s\n", company.Name)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(dateLayout))

	recordCount := 0
	for _, sec := range sections {
		recordCount += len(sec.Records)
	}
	if recordCount == 0 {
		fmt.Fprintf(&b, "No medical records are on file for %s.\n", company.Name)
		return b.String()
	}

	for _, sec := range sections {
		fmt.Fprintf(&b, "Patient: %s", sec.Patient.FullName())
		if sec.Patient.DocumentNumber != "" {
			fmt.Fprintf(&b, " (document %s)", sec.Patient.DocumentNumber)
		}
		b.WriteString("\n")
		if sec.Patient.DateOfBirth != nil {
			fmt.Fprintf(&b, "Date of birth: %s\n", sec.Patient.DateOfBirth.Format(dateLayout))
		}

		if len(sec.Records) == 0 {
			b.WriteString("  No records on file.\n\n")
			continue
		}
		for _, rec := range sec.Records {
			fmt.Fprintf(&b, "  - %s", recordDate(rec).Format(dateLayout))
			if rec.Diagnosis != "" {
				fmt.Fprintf(&b, " | Diagnosis: %s", rec.Diagnosis)
			}
			if rec.Medication != "" {
				fmt.Fprintf(&b, " | Medication: %s", rec.Medication)
			}
			fmt.Fprintf(&b, "\n    %s\n", rec.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// recordDate prefers the clinical visit date and falls back to the row's
// creation time.
func recordDate(rec models.MedicalRecord) time.Time {
	if rec.VisitDate != nil {
		return *rec.VisitDate
	}
	return rec.CreatedAt
}

// RenderSingleRecord builds the summary for one record, used when staff
// email an individual record to the patient's company.
func RenderSingleRecord(company models.Company, patient models.Patient, rec models.MedicalRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Medical record for %s\n\n", patient.FullName())
	fmt.Fprintf(&b, "Company: %s\n", company.Name)
	fmt.Fprintf(&b, "Date: %s\n", recordDate(rec).Format(dateLayout))
	if rec.Diagnosis != "" {
		fmt.Fprintf(&b, "Diagnosis: %s\n", rec.Diagnosis)
	}
	if rec.Medication != "" {
		fmt.Fprintf(&b, "Medication: %s\n", rec.Medication)
	}
	fmt.Fprintf(&b, "\nNotes:\n%s\n", rec.Notes)
	return b.String()
}
