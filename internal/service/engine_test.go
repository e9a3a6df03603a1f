package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dealerhub/outflow/internal/domain"
)

// fakeWorkflowRepo serves a fixed workflow list.
type fakeWorkflowRepo struct {
	workflows []domain.WorkflowConfig
}

func (f *fakeWorkflowRepo) Create(ctx context.Context, wf *domain.WorkflowConfig) error { return nil }
func (f *fakeWorkflowRepo) Update(ctx context.Context, wf *domain.WorkflowConfig) error { return nil }
func (f *fakeWorkflowRepo) Delete(ctx context.Context, id string) error                 { return nil }
func (f *fakeWorkflowRepo) GetByID(ctx context.Context, id string) (*domain.WorkflowConfig, error) {
	for i := range f.workflows {
		if f.workflows[i].ID == id {
			return &f.workflows[i], nil
		}
	}
	return nil, context.Canceled
}
func (f *fakeWorkflowRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.WorkflowConfig, error) {
	return f.workflows, nil
}
func (f *fakeWorkflowRepo) ListActive(ctx context.Context, companyID, schemaType string) ([]domain.WorkflowConfig, error) {
	var out []domain.WorkflowConfig
	for _, wf := range f.workflows {
		if wf.IsActive() && wf.CompanyID == companyID && wf.TargetSchema.SchemaType == schemaType {
			out = append(out, wf)
		}
	}
	return out, nil
}
func (f *fakeWorkflowRepo) UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	return nil
}

// fakeStatsRepo mirrors the single-UPDATE increment semantics in memory.
type fakeStatsRepo struct {
	mu    sync.Mutex
	stats map[string]*domain.ExecutionStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: make(map[string]*domain.ExecutionStats)}
}

func (f *fakeStatsRepo) Create(ctx context.Context, workflowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats[workflowID] = &domain.ExecutionStats{WorkflowID: workflowID}
	return nil
}

func (f *fakeStatsRepo) Get(ctx context.Context, workflowID string) (*domain.ExecutionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *f.stats[workflowID]
	return &s, nil
}

func (f *fakeStatsRepo) RecordOutcome(ctx context.Context, workflowID string, success bool, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[workflowID]
	if !ok {
		s = &domain.ExecutionStats{WorkflowID: workflowID}
		f.stats[workflowID] = s
	}
	now := time.Now().UTC()
	s.TotalExecutions++
	s.LastExecution = &now
	if success {
		s.SuccessfulExecutions++
		s.LastExecutionStatus = domain.ExecutionStatusSuccess
		s.LastExecutionError = ""
	} else {
		s.FailedExecutions++
		s.LastExecutionStatus = domain.ExecutionStatusFailed
		s.LastExecutionError = errorMessage
	}
	return nil
}

func (f *fakeStatsRepo) Delete(ctx context.Context, workflowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stats, workflowID)
	return nil
}

// fakeDeliveryRepo collects created delivery records.
type fakeDeliveryRepo struct {
	mu      sync.Mutex
	records []domain.DeliveryRecord
}

func (f *fakeDeliveryRepo) Create(ctx context.Context, rec *domain.DeliveryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeDeliveryRepo) ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]domain.DeliveryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DeliveryRecord(nil), f.records...), nil
}

func activeWorkflow(id, endpoint string) domain.WorkflowConfig {
	return domain.WorkflowConfig{
		ID:        id,
		CompanyID: "company-1",
		Name:      "Stock feed",
		Status:    domain.WorkflowStatusActive,
		TargetSchema: domain.TargetSchemaConfig{
			SchemaType:      "vehicle",
			TriggerField:    "status",
			TriggerOperator: domain.OpEquals,
			TriggerValue:    "pricing_ready",
		},
		ExportFields: domain.ExportFieldsConfig{
			SelectedFields: []string{"vehicle_stock_id", "make"},
		},
		DataMapping: domain.DataMappingConfig{
			Mappings: []domain.FieldMappingRow{
				{SourceField: "vehicle_id", TargetField: "vehicle_stock_id"},
			},
		},
		Auth: domain.AuthConfig{APIEndpoint: endpoint},
		Notification: domain.NotificationConfig{
			Recipients: domain.StringArray{"ops@dealer.example"},
		},
	}
}

func triggeringRecord() domain.RecordSnapshot {
	return domain.RecordSnapshot{
		"vehicle_stock_id": float64(100022),
		"make":             "Alfa Romeo",
		"status":           "pricing_ready",
	}
}

// runEngine starts the engine, runs fn, then drains queued executions.
func runEngine(t *testing.T, e *Engine, fn func()) {
	t.Helper()
	e.Start(context.Background())
	fn()
	e.Stop()
}

func TestEngineSuccessfulDelivery(t *testing.T) {
	var mu sync.Mutex
	var gotPayload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		mu.Lock()
		gotPayload = string(buf)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	workflows := &fakeWorkflowRepo{workflows: []domain.WorkflowConfig{activeWorkflow("wf-1", srv.URL)}}
	stats := newFakeStatsRepo()
	stats.Create(context.Background(), "wf-1")
	deliveries := &fakeDeliveryRepo{}
	mailer := &captureMailer{}

	e := NewEngine(workflows, stats, deliveries, NewDispatchService(nil), NewNotifier(mailer), nil,
		&EngineConfig{Workers: 1, QueueSize: 8})

	runEngine(t, e, func() {
		queued, err := e.HandleRecordChange(context.Background(), "company-1", "vehicle", triggeringRecord())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if queued != 1 {
			t.Fatalf("expected 1 queued execution, got %d", queued)
		}
	})

	s, _ := stats.Get(context.Background(), "wf-1")
	if s.TotalExecutions != 1 || s.SuccessfulExecutions != 1 || s.FailedExecutions != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.LastExecutionStatus != domain.ExecutionStatusSuccess {
		t.Errorf("expected success status, got %q", s.LastExecutionStatus)
	}

	// Mapped payload reached the endpoint with the renamed key.
	mu.Lock()
	payload := gotPayload
	mu.Unlock()
	if !strings.Contains(payload, `"vehicle_id":100022`) {
		t.Errorf("expected mapped payload, got %s", payload)
	}
	if strings.Contains(payload, "vehicle_stock_id") {
		t.Errorf("internal key must be renamed, got %s", payload)
	}

	if len(deliveries.records) != 1 || !deliveries.records[0].Success {
		t.Errorf("expected one successful delivery record, got %+v", deliveries.records)
	}
	if len(mailer.sent()) != 1 {
		t.Errorf("expected success notification, got %d messages", len(mailer.sent()))
	}
}

func TestEngineFailedDelivery(t *testing.T) {
	workflows := &fakeWorkflowRepo{workflows: []domain.WorkflowConfig{
		activeWorkflow("wf-1", "http://127.0.0.1:1/outbound"),
	}}
	stats := newFakeStatsRepo()
	stats.Create(context.Background(), "wf-1")
	deliveries := &fakeDeliveryRepo{}
	mailer := &captureMailer{}

	e := NewEngine(workflows, stats, deliveries,
		NewDispatchService(&DispatchConfig{RequestTimeout: 2 * time.Second}),
		NewNotifier(mailer), nil, &EngineConfig{Workers: 1, QueueSize: 8})

	runEngine(t, e, func() {
		e.HandleRecordChange(context.Background(), "company-1", "vehicle", triggeringRecord())
	})

	s, _ := stats.Get(context.Background(), "wf-1")
	if s.TotalExecutions != 1 || s.FailedExecutions != 1 || s.SuccessfulExecutions != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.LastExecutionError == "" {
		t.Error("expected captured error message in stats")
	}

	msgs := mailer.sent()
	if len(msgs) != 1 {
		t.Fatalf("expected error notification, got %d messages", len(msgs))
	}
	if !strings.Contains(msgs[0].Subject, "FAILED") {
		t.Errorf("expected error template variant, got subject %q", msgs[0].Subject)
	}
	if !strings.Contains(msgs[0].Body, s.LastExecutionError) {
		t.Errorf("expected notification to carry the dispatch error %q, got %q", s.LastExecutionError, msgs[0].Body)
	}
}

func TestEngineTriggerNotMetIsSilentSkip(t *testing.T) {
	workflows := &fakeWorkflowRepo{workflows: []domain.WorkflowConfig{
		activeWorkflow("wf-1", "http://127.0.0.1:1/outbound"),
	}}
	stats := newFakeStatsRepo()
	stats.Create(context.Background(), "wf-1")

	e := NewEngine(workflows, stats, &fakeDeliveryRepo{}, NewDispatchService(nil),
		NewNotifier(&captureMailer{}), nil, &EngineConfig{Workers: 1, QueueSize: 8})

	record := triggeringRecord()
	record["status"] = "draft"

	runEngine(t, e, func() {
		queued, err := e.HandleRecordChange(context.Background(), "company-1", "vehicle", record)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if queued != 0 {
			t.Errorf("expected no queued executions, got %d", queued)
		}
	})

	s, _ := stats.Get(context.Background(), "wf-1")
	if s.TotalExecutions != 0 {
		t.Errorf("trigger-not-met must not touch stats, got %+v", s)
	}
}

func TestEngineMissingEndpointSkipsStatsAndNotifier(t *testing.T) {
	workflows := &fakeWorkflowRepo{workflows: []domain.WorkflowConfig{activeWorkflow("wf-1", "")}}
	stats := newFakeStatsRepo()
	stats.Create(context.Background(), "wf-1")
	deliveries := &fakeDeliveryRepo{}
	mailer := &captureMailer{}

	e := NewEngine(workflows, stats, deliveries, NewDispatchService(nil), NewNotifier(mailer), nil,
		&EngineConfig{Workers: 1, QueueSize: 8})

	runEngine(t, e, func() {
		queued, _ := e.HandleRecordChange(context.Background(), "company-1", "vehicle", triggeringRecord())
		if queued != 1 {
			t.Fatalf("triggered workflow still queues, got %d", queued)
		}
	})

	s, _ := stats.Get(context.Background(), "wf-1")
	if s.TotalExecutions != 0 {
		t.Errorf("skipped dispatch must not touch stats, got %+v", s)
	}
	if len(deliveries.records) != 0 {
		t.Errorf("skipped dispatch must not create delivery records, got %+v", deliveries.records)
	}
	if len(mailer.sent()) != 0 {
		t.Errorf("skipped dispatch must not notify, got %d messages", len(mailer.sent()))
	}
}

func TestEngineInactiveWorkflowNotMatched(t *testing.T) {
	wf := activeWorkflow("wf-1", "")
	wf.Status = domain.WorkflowStatusInactive
	workflows := &fakeWorkflowRepo{workflows: []domain.WorkflowConfig{wf}}

	e := NewEngine(workflows, newFakeStatsRepo(), &fakeDeliveryRepo{}, NewDispatchService(nil),
		NewNotifier(&captureMailer{}), nil, nil)

	runEngine(t, e, func() {
		queued, _ := e.HandleRecordChange(context.Background(), "company-1", "vehicle", triggeringRecord())
		if queued != 0 {
			t.Errorf("inactive workflows must not match, got %d", queued)
		}
	})
}

func TestRecordOutcomeInvariantUnderConcurrency(t *testing.T) {
	stats := newFakeStatsRepo()
	stats.Create(context.Background(), "wf-1")

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats.RecordOutcome(context.Background(), "wf-1", i%3 != 0, "boom")
		}(i)
	}
	wg.Wait()

	s, _ := stats.Get(context.Background(), "wf-1")
	if s.TotalExecutions != n {
		t.Errorf("expected %d total executions, got %d", n, s.TotalExecutions)
	}
	if s.TotalExecutions != s.SuccessfulExecutions+s.FailedExecutions {
		t.Errorf("invariant violated: total=%d successful=%d failed=%d",
			s.TotalExecutions, s.SuccessfulExecutions, s.FailedExecutions)
	}
}

func TestEngineTestRunDoesNotTouchStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wf := activeWorkflow("wf-1", srv.URL)
	stats := newFakeStatsRepo()
	stats.Create(context.Background(), "wf-1")

	e := NewEngine(&fakeWorkflowRepo{}, stats, &fakeDeliveryRepo{}, NewDispatchService(nil),
		NewNotifier(&captureMailer{}), nil, nil)

	triggered, payload, result := e.TestRun(context.Background(), &wf, triggeringRecord())
	if !triggered {
		t.Fatal("expected trigger to fire")
	}
	if payload["vehicle_id"] != float64(100022) {
		t.Errorf("expected mapped payload, got %v", payload)
	}
	if !result.Success {
		t.Errorf("expected successful test dispatch, got %+v", result)
	}

	s, _ := stats.Get(context.Background(), "wf-1")
	if s.TotalExecutions != 0 {
		t.Errorf("test runs must not touch stats, got %+v", s)
	}
}
