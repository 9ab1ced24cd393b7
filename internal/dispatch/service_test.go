package dispatch

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic-records-server/internal/apperrors"
	"clinic-records-server/internal/mailer"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
)

// --- mocks ---

type mockCompanyRepo struct {
	mu             sync.Mutex
	findByIDFn     func(ctx context.Context, id string) (*models.Company, error)
	aggregateFn    func(ctx context.Context, companyID string) ([]repository.PatientRecords, error)
	aggregateCalls int
}

func (m *mockCompanyRepo) Create(ctx context.Context, c *models.Company) error { return nil }
func (m *mockCompanyRepo) FindByID(ctx context.Context, id string) (*models.Company, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockCompanyRepo) List(ctx context.Context, nameFilter string) ([]models.Company, error) {
	return nil, nil
}
func (m *mockCompanyRepo) Save(ctx context.Context, c *models.Company) error { return nil }
func (m *mockCompanyRepo) DeleteCascade(ctx context.Context, id string) error {
	return nil
}
func (m *mockCompanyRepo) ListWithRecordsOn(ctx context.Context, day time.Time) ([]models.Company, error) {
	return nil, nil
}
func (m *mockCompanyRepo) AggregateRecords(ctx context.Context, companyID string) ([]repository.PatientRecords, error) {
	m.mu.Lock()
	m.aggregateCalls++
	m.mu.Unlock()
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, companyID)
	}
	return nil, nil
}

type mockPatientRepo struct {
	findByIDFn func(ctx context.Context, id string) (*models.Patient, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, p *models.Patient) error { return nil }
func (m *mockPatientRepo) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}
func (m *mockPatientRepo) FindByDocument(ctx context.Context, doc string) (*models.Patient, error) {
	return nil, apperrors.ErrNotFound
}
func (m *mockPatientRepo) List(ctx context.Context, companyID string) ([]models.Patient, error) {
	return nil, nil
}
func (m *mockPatientRepo) Save(ctx context.Context, p *models.Patient) error { return nil }
func (m *mockPatientRepo) DeleteCascade(ctx context.Context, id string) error {
	return nil
}

// fakeMailer records every send and can be told to fail for specific
// recipients.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failFn func(msg mailer.Message) error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.failFn != nil {
		if err := f.failFn(msg); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) sentTo(addr string) []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []mailer.Message
	for _, msg := range f.sent {
		for _, to := range msg.To {
			if to == addr {
				out = append(out, msg)
			}
		}
	}
	return out
}

// --- helpers ---

func company(id, name, email string) *models.Company {
	c := &models.Company{Name: name, Email: email}
	c.ID = id
	return c
}

func patient(id, companyID, first, last string) models.Patient {
	p := models.Patient{CompanyID: companyID, FirstName: first, LastName: last}
	p.ID = id
	return p
}

func record(id, patientID, notes string, visit time.Time) models.MedicalRecord {
	r := models.MedicalRecord{PatientID: patientID, Notes: notes, VisitDate: &visit}
	r.ID = id
	return r
}

func section(p models.Patient, recs ...models.MedicalRecord) repository.PatientRecords {
	return repository.PatientRecords{Patient: p, Records: recs}
}

func newTestService(companies *mockCompanyRepo, patients *mockPatientRepo, m mailer.Mailer, workers int) *Service {
	return NewService(companies, patients, m, "clinic@example.com", 5*time.Second, workers)
}

// --- tests ---

func TestDispatch_EmptySelection(t *testing.T) {
	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			t.Fatal("company lookup must not run for an empty selection")
			return nil, nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	_, err := svc.Dispatch(context.Background(), nil)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if companies.aggregateCalls != 0 {
		t.Errorf("aggregation ran %d times, want 0", companies.aggregateCalls)
	}
	if len(fm.sent) != 0 {
		t.Errorf("mail was sent for an empty selection")
	}
}

func TestDispatch_UnknownCompanyFailsWholeRequest(t *testing.T) {
	known := company("c1", "Acme Clinic", "acme@example.com")
	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			if id == known.ID {
				return known, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	_, err := svc.Dispatch(context.Background(), []string{"c1", "missing"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(fm.sent) != 0 {
		t.Errorf("no dispatch should proceed past a failed selection, but %d mails were sent", len(fm.sent))
	}
}

func TestDispatch_AcmeScenario(t *testing.T) {
	acme := company("c-acme", "Acme Clinic", "acme@example.com")
	jane := patient("p-jane", acme.ID, "Jane", "Doe")
	visit := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			if id == acme.ID {
				return acme, nil
			}
			return nil, apperrors.ErrNotFound
		},
		aggregateFn: func(ctx context.Context, companyID string) ([]repository.PatientRecords, error) {
			return []repository.PatientRecords{
				section(jane, record("r1", jane.ID, "routine checkup", visit)),
			}, nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	result, err := svc.Dispatch(context.Background(), []string{acme.ID})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if got := result[acme.ID].Status; got != StatusSent {
		t.Fatalf("outcome for acme = %s, want %s", got, StatusSent)
	}
	if companies.aggregateCalls != 1 {
		t.Errorf("aggregation ran %d times, want one snapshot read per company", companies.aggregateCalls)
	}

	msgs := fm.sentTo("acme@example.com")
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one email to acme@example.com, got %d", len(msgs))
	}
	body := msgs[0].Body
	if !strings.Contains(body, "Jane Doe") {
		t.Errorf("body does not mention the patient:\n%s", body)
	}
	if !strings.Contains(body, "routine checkup") {
		t.Errorf("body does not contain the clinical notes:\n%s", body)
	}
	if !strings.Contains(body, "2024-01-10") {
		t.Errorf("body does not contain the visit date:\n%s", body)
	}
}

func TestDispatch_PartialFailureIsIndependent(t *testing.T) {
	byID := map[string]*models.Company{
		"a": company("a", "Alpha", "alpha@example.com"),
		"b": company("b", "Beta", "beta@example.com"),
		"c": company("c", "Gamma", "gamma@example.com"),
	}
	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			if c, ok := byID[id]; ok {
				return c, nil
			}
			return nil, apperrors.ErrNotFound
		},
		aggregateFn: func(ctx context.Context, companyID string) ([]repository.PatientRecords, error) {
			p := patient("p-"+companyID, companyID, "Pat", strings.ToUpper(companyID))
			return []repository.PatientRecords{
				section(p, record("r-"+companyID, p.ID, "notes", time.Now())),
			}, nil
		},
	}
	fm := &fakeMailer{
		failFn: func(msg mailer.Message) error {
			for _, to := range msg.To {
				if to == "beta@example.com" {
					return errors.New("550 mailbox unavailable")
				}
			}
			return nil
		},
	}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	result, err := svc.Dispatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result["a"].Status != StatusSent {
		t.Errorf("a = %+v, want Sent", result["a"])
	}
	if result["c"].Status != StatusSent {
		t.Errorf("c = %+v, want Sent", result["c"])
	}
	if result["b"].Status != StatusFailed {
		t.Errorf("b = %+v, want Failed", result["b"])
	}
	if !strings.Contains(result["b"].Reason, "550") {
		t.Errorf("b reason = %q, want the transport error captured", result["b"].Reason)
	}
}

func TestDispatch_EmptyCompanyGetsNotice(t *testing.T) {
	empty := company("c-empty", "Empty Co", "empty@example.com")
	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			return empty, nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	result, err := svc.Dispatch(context.Background(), []string{empty.ID})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result[empty.ID].Status != StatusSkippedEmpty {
		t.Fatalf("outcome = %+v, want SkippedEmpty", result[empty.ID])
	}
	msgs := fm.sentTo("empty@example.com")
	if len(msgs) != 1 {
		t.Fatalf("the no-records notice was not sent, got %d mails", len(msgs))
	}
	if !strings.Contains(msgs[0].Body, "No medical records are on file") {
		t.Errorf("notice body missing the explicit no-records wording:\n%s", msgs[0].Body)
	}
}

func TestDispatch_TimeoutRecordedAsFailed(t *testing.T) {
	cases := map[string]error{
		"context deadline":    context.DeadlineExceeded,
		"connection deadline": &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded},
	}
	for name, sendErr := range cases {
		t.Run(name, func(t *testing.T) {
			slow := company("c-slow", "Slow Co", "slow@example.com")
			companies := &mockCompanyRepo{
				findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
					return slow, nil
				},
			}
			fm := &fakeMailer{
				failFn: func(msg mailer.Message) error {
					return sendErr
				},
			}
			svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

			result, err := svc.Dispatch(context.Background(), []string{slow.ID})
			if err != nil {
				t.Fatalf("Dispatch returned error: %v", err)
			}
			if result[slow.ID].Status != StatusFailed || result[slow.ID].Reason != "timeout" {
				t.Fatalf("outcome = %+v, want Failed(timeout)", result[slow.ID])
			}
		})
	}
}

func TestDispatch_TwiceSendsTwice(t *testing.T) {
	acme := company("c-acme", "Acme Clinic", "acme@example.com")
	jane := patient("p-jane", acme.ID, "Jane", "Doe")

	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			return acme, nil
		},
		aggregateFn: func(ctx context.Context, companyID string) ([]repository.PatientRecords, error) {
			return []repository.PatientRecords{
				section(jane, record("r1", jane.ID, "notes", time.Now())),
			}, nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	for i := 0; i < 2; i++ {
		result, err := svc.Dispatch(context.Background(), []string{acme.ID})
		if err != nil {
			t.Fatalf("Dispatch %d returned error: %v", i+1, err)
		}
		if result[acme.ID].Status != StatusSent {
			t.Fatalf("Dispatch %d outcome = %+v, want Sent", i+1, result[acme.ID])
		}
	}
	if len(fm.sent) != 2 {
		t.Errorf("expected two independent sends, got %d", len(fm.sent))
	}
}

func TestDispatch_BoundedConcurrency(t *testing.T) {
	byID := make(map[string]*models.Company)
	ids := []string{"w1", "w2", "w3", "w4", "w5"}
	for _, id := range ids {
		byID[id] = company(id, "Co "+id, id+"@example.com")
	}
	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			return byID[id], nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 3)

	result, err := svc.Dispatch(context.Background(), ids)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if len(result) != len(ids) {
		t.Fatalf("result has %d entries, want %d", len(result), len(ids))
	}
	for _, id := range ids {
		if result[id].Status != StatusSkippedEmpty {
			t.Errorf("%s = %+v, want SkippedEmpty", id, result[id])
		}
	}
	if len(fm.sent) != len(ids) {
		t.Errorf("%d notices sent, want %d", len(fm.sent), len(ids))
	}
	if companies.aggregateCalls != len(ids) {
		t.Errorf("aggregation ran %d times, want one snapshot read per company", companies.aggregateCalls)
	}
}

func TestDispatch_MissingContactAddressFails(t *testing.T) {
	blank := company("c-blank", "Blank Co", "  ")
	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			return blank, nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, &mockPatientRepo{}, fm, 1)

	result, err := svc.Dispatch(context.Background(), []string{blank.ID})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result[blank.ID].Status != StatusFailed {
		t.Fatalf("outcome = %+v, want Failed", result[blank.ID])
	}
	if len(fm.sent) != 0 {
		t.Errorf("no mail should be attempted without a contact address")
	}
}

func TestSendRecord_ResolvesCompanyThroughPatient(t *testing.T) {
	acme := company("c-acme", "Acme Clinic", "acme@example.com, hr@example.com")
	jane := patient("p-jane", acme.ID, "Jane", "Doe")
	visit := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	rec := record("r1", jane.ID, "routine checkup", visit)

	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			if id != acme.ID {
				t.Errorf("company lookup used id %q, want the patient's company %q", id, acme.ID)
			}
			return acme, nil
		},
	}
	patients := &mockPatientRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Patient, error) {
			return &jane, nil
		},
	}
	fm := &fakeMailer{}
	svc := newTestService(companies, patients, fm, 1)

	if err := svc.SendRecord(context.Background(), &rec); err != nil {
		t.Fatalf("SendRecord returned error: %v", err)
	}
	if len(fm.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(fm.sent))
	}
	msg := fm.sent[0]
	if len(msg.To) != 2 {
		t.Errorf("recipients = %v, want both comma-separated addresses", msg.To)
	}
	if !strings.Contains(msg.Body, "routine checkup") {
		t.Errorf("body missing notes:\n%s", msg.Body)
	}
}

func TestSendRecord_TimeoutSurfacesAsDeliveryError(t *testing.T) {
	acme := company("c-acme", "Acme Clinic", "acme@example.com")
	jane := patient("p-jane", acme.ID, "Jane", "Doe")
	rec := record("r1", jane.ID, "notes", time.Now())

	companies := &mockCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Company, error) {
			return acme, nil
		},
	}
	patients := &mockPatientRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Patient, error) {
			return &jane, nil
		},
	}
	fm := &fakeMailer{
		failFn: func(msg mailer.Message) error {
			return &net.OpError{Op: "write", Net: "tcp", Err: os.ErrDeadlineExceeded}
		},
	}
	svc := newTestService(companies, patients, fm, 1)

	err := svc.SendRecord(context.Background(), &rec)
	var delivery *apperrors.DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("error = %v, want DeliveryError", err)
	}
	if delivery.Reason != "timeout" {
		t.Errorf("reason = %q, want timeout", delivery.Reason)
	}
}
