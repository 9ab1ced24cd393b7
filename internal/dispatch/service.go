// Package dispatch implements the selective-recipient record dispatch
// workflow: a staff-selected set of companies is resolved, each company's
// patients and records are aggregated, a plain-text summary is rendered
// per company, and one email per company is delivered independently.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"clinic-records-server/internal/apperrors"
	"clinic-records-server/internal/mailer"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
)

// Status tracks a per-company dispatch unit through the pipeline.
// Terminal states are StatusSent, StatusSkippedEmpty and StatusFailed;
// there is no automatic transition out of StatusFailed.
type Status string

const (
	StatusPending      Status = "Pending"
	StatusAggregated   Status = "Aggregated"
	StatusRendered     Status = "Rendered"
	StatusSent         Status = "Sent"
	StatusSkippedEmpty Status = "SkippedEmpty"
	StatusFailed       Status = "Failed"
)

// Outcome is the terminal result for one company.
type Outcome struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Result maps company id to its delivery outcome.
type Result map[string]Outcome

// Service runs the dispatch workflow. Aggregation is read-only; running
// the same dispatch twice sends twice and alters no stored data.
type Service struct {
	companies repository.CompanyRepository
	patients  repository.PatientRepository
	mailer    mailer.Mailer

	sender      string
	sendTimeout time.Duration
	workers     int
}

// NewService creates a dispatch Service. workers bounds the per-company
// delivery concurrency; 1 means sequential.
func NewService(
	companies repository.CompanyRepository,
	patients repository.PatientRepository,
	m mailer.Mailer,
	sender string,
	sendTimeout time.Duration,
	workers int,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		companies:   companies,
		patients:    patients,
		mailer:      m,
		sender:      sender,
		sendTimeout: sendTimeout,
		workers:     workers,
	}
}

// Dispatch resolves the selection, then processes each company through
// aggregation, rendering and delivery. Selection errors fail the whole
// call before any aggregation; everything after that is captured
// per-company and never aborts the remaining companies.
func (s *Service) Dispatch(ctx context.Context, companyIDs []string) (Result, error) {
	if len(companyIDs) == 0 {
		return nil, apperrors.Validationf("at least one company must be selected")
	}

	// Stage 1: resolve the whole selection atomically.
	seen := make(map[string]bool, len(companyIDs))
	selected := make([]models.Company, 0, len(companyIDs))
	for _, id := range companyIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		company, err := s.companies.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.Validationf("selected company %s does not exist", id)
			}
			return nil, err
		}
		selected = append(selected, *company)
	}

	result := make(Result, len(selected))
	var mu sync.Mutex

	jobs := make(chan models.Company)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for company := range jobs {
				outcome := s.process(ctx, company)
				mu.Lock()
				result[company.ID] = outcome
				mu.Unlock()
			}
		}()
	}
	for _, company := range selected {
		jobs <- company
	}
	close(jobs)
	wg.Wait()

	return result, nil
}

// process runs one company through Pending → Aggregated → Rendered →
// {Sent | SkippedEmpty | Failed}.
func (s *Service) process(ctx context.Context, company models.Company) Outcome {
	// Stage 2: aggregation. One snapshot read per company, patients
	// ordered by name and records by creation time, so rendered
	// documents are reproducible.
	sections, err := s.companies.AggregateRecords(ctx, company.ID)
	if err != nil {
		return Outcome{Status: StatusFailed, Reason: "aggregation failed: " + err.Error()}
	}
	empty := true
	for _, sec := range sections {
		if len(sec.Records) > 0 {
			empty = false
			break
		}
	}

	// Stage 3: rendering. A company with nothing on file still gets an
	// explicit notice rather than being silently omitted.
	doc := renderCompanyDocument(company, sections)

	// Stage 4: delivery, bounded by the per-send timeout.
	recipients := mailer.SplitRecipients(company.Email)
	if len(recipients) == 0 {
		return Outcome{Status: StatusFailed, Reason: "company has no contact address"}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	err = s.mailer.Send(sendCtx, mailer.Message{
		From:    s.sender,
		To:      recipients,
		Subject: "Medical record summary - " + company.Name,
		Body:    doc,
	})
	if err != nil {
		if mailer.IsTimeout(err) {
			return Outcome{Status: StatusFailed, Reason: "timeout"}
		}
		return Outcome{Status: StatusFailed, Reason: err.Error()}
	}

	if empty {
		return Outcome{Status: StatusSkippedEmpty}
	}
	return Outcome{Status: StatusSent}
}

// SendRecord emails a single record's summary to the company owning the
// record's patient. The company is resolved transitively through the
// patient on every call.
func (s *Service) SendRecord(ctx context.Context, record *models.MedicalRecord) error {
	patient, err := s.patients.FindByID(ctx, record.PatientID)
	if err != nil {
		return err
	}
	company, err := s.companies.FindByID(ctx, patient.CompanyID)
	if err != nil {
		return err
	}
	recipients := mailer.SplitRecipients(company.Email)
	if len(recipients) == 0 {
		return &apperrors.DeliveryError{CompanyID: company.ID, Reason: "company has no contact address"}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	err = s.mailer.Send(sendCtx, mailer.Message{
		From:    s.sender,
		To:      recipients,
		Subject: "Medical record - " + patient.FullName(),
		Body:    RenderSingleRecord(*company, *patient, *record),
	})
	if err != nil {
		reason := err.Error()
		if mailer.IsTimeout(err) {
			reason = "timeout"
		}
		return &apperrors.DeliveryError{CompanyID: company.ID, Reason: reason}
	}
	return nil
}
