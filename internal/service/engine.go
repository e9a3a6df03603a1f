package service

import (
	"context"
	"time"

	"github.com/dealerhub/outflow/internal/archive"
	"github.com/dealerhub/outflow/internal/domain"
	"github.com/dealerhub/outflow/internal/logger"
	"github.com/dealerhub/outflow/internal/repository"
	"github.com/google/uuid"
)

// Engine orchestrates the outbound pipeline: for each record mutation it
// finds matching active workflows, gates them on their trigger condition,
// and queues the project/map/dispatch/track/notify sequence.
type Engine struct {
	workflows  repository.WorkflowRepository
	stats      repository.StatsRepository
	deliveries repository.DeliveryRepository
	dispatcher *DispatchService
	notifier   *Notifier
	archive    archive.Archive // nil disables archiving

	evaluator *TriggerEvaluator
	projector *FieldProjector
	queue     *dispatchQueue
}

// EngineConfig holds engine worker settings.
type EngineConfig struct {
	Workers   int
	QueueSize int
}

// NewEngine creates the pipeline engine.
// Parameters:
//   - workflows, stats, deliveries: persistence collaborators.
//   - dispatcher: delivery dispatcher.
//   - notifier: outcome notifier.
//   - arch: delivery archive; nil disables archiving.
//   - cfg: worker settings; nil uses defaults.
// Returns:
//   - *Engine: initialized engine; call Start before ingesting mutations.
func NewEngine(
	workflows repository.WorkflowRepository,
	stats repository.StatsRepository,
	deliveries repository.DeliveryRepository,
	dispatcher *DispatchService,
	notifier *Notifier,
	arch archive.Archive,
	cfg *EngineConfig,
) *Engine {
	if cfg == nil {
		cfg = &EngineConfig{Workers: 4, QueueSize: 256}
	}
	e := &Engine{
		workflows:  workflows,
		stats:      stats,
		deliveries: deliveries,
		dispatcher: dispatcher,
		notifier:   notifier,
		archive:    arch,
		evaluator:  NewTriggerEvaluator(),
		projector:  NewFieldProjector(),
	}
	e.queue = newDispatchQueue(cfg.Workers, cfg.QueueSize, e.execute)
	return e
}

// Start launches the dispatch workers.
func (e *Engine) Start(ctx context.Context) {
	e.queue.Start(ctx)
}

// Stop drains queued executions and stops the workers.
func (e *Engine) Stop() {
	e.queue.Stop()
}

// HandleRecordChange is the pipeline entry point for a mutated record. It
// enqueues one execution per matching triggered workflow and returns the
// queued count. Workflows whose trigger is not met are skipped silently.
// Errors from queued executions never surface here: the record mutation must
// succeed regardless of dispatch outcomes.
func (e *Engine) HandleRecordChange(ctx context.Context, companyID, schemaType string, record domain.RecordSnapshot) (int, error) {
	wfs, err := e.workflows.ListActive(ctx, companyID, schemaType)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, wf := range wfs {
		ts := wf.TargetSchema
		if !e.evaluator.Evaluate(record, ts.TriggerField, ts.TriggerOperator, ts.TriggerValue) {
			logger.CtxDebug(ctx, "trigger not met for workflow %s, skipping", wf.ID)
			continue
		}
		if e.queue.Enqueue(ctx, executionJob{workflow: wf, record: record}) {
			queued++
		}
	}

	if queued > 0 {
		logger.With(logger.Fields{logger.FieldCount: queued}).
			Info(ctx, "queued outbound executions for record %s", record.Identity())
	}
	return queued, nil
}

// execute runs one triggered workflow to completion: project, map, dispatch,
// then record stats, delivery evidence, archive, and notify. Called by queue
// workers; all failures are contained here.
func (e *Engine) execute(ctx context.Context, wf *domain.WorkflowConfig, record domain.RecordSnapshot) {
	deliveryID := uuid.New().String()
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldWorkflowID: wf.ID,
		logger.FieldDeliveryID: deliveryID,
	})

	start := time.Now()
	payload := e.buildPayload(wf, record)
	result := e.dispatcher.Dispatch(ctx, wf.Auth, payload)

	if result.Skipped {
		// No endpoint configured: not a failure, and neither stats nor
		// notifications are recorded.
		logger.CtxDebug(ctx, "no endpoint configured for workflow %s, dispatch skipped", wf.ID)
		return
	}

	if err := e.stats.RecordOutcome(ctx, wf.ID, result.Success, result.Error); err != nil {
		logger.CtxError(ctx, "failed to record execution stats: %v", err)
	}

	archiveKey := e.storeSnapshot(ctx, deliveryID, wf.ID, record, payload, result)

	if e.deliveries != nil {
		rec := &domain.DeliveryRecord{
			ID:           deliveryID,
			WorkflowID:   wf.ID,
			RecordID:     record.Identity(),
			Success:      result.Success,
			StatusCode:   result.StatusCode,
			Error:        result.Error,
			ArchiveKey:   archiveKey,
			DispatchedAt: start.UTC(),
		}
		if err := e.deliveries.Create(ctx, rec); err != nil {
			logger.CtxError(ctx, "failed to persist delivery record: %v", err)
		}
	}

	e.notifier.Notify(ctx, wf, record, payload, result)

	status := "success"
	if !result.Success {
		status = "failed"
	}
	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldStatus:     status,
	}).Info(ctx, "outbound execution completed for workflow %s", wf.ID)
}

// buildPayload projects the configured fields and applies the outbound
// rename rules.
func (e *Engine) buildPayload(wf *domain.WorkflowConfig, record domain.RecordSnapshot) map[string]interface{} {
	projected := e.projector.Project(record, wf.ExportFields.SelectedFields)
	return MapFields(projected, wf.DataMapping.OutboundRules())
}

// storeSnapshot archives delivery evidence when an archive is configured.
// Archive failures are logged and swallowed.
func (e *Engine) storeSnapshot(ctx context.Context, deliveryID, workflowID string, record domain.RecordSnapshot, payload map[string]interface{}, result DispatchResult) string {
	if e.archive == nil {
		return ""
	}
	key, err := e.archive.Store(ctx, &archive.Snapshot{
		DeliveryID: deliveryID,
		WorkflowID: workflowID,
		RecordID:   record.Identity(),
		Payload:    payload,
		Success:    result.Success,
		StatusCode: result.StatusCode,
		Error:      result.Error,
		ArchivedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.CtxWarn(ctx, "delivery archive write failed (ignored): %v", err)
		return ""
	}
	return key
}

// TestRun executes the pipeline synchronously for a sample record without
// touching stats, delivery records, archive, or notifications. Used by the
// builder UI to verify a workflow configuration.
func (e *Engine) TestRun(ctx context.Context, wf *domain.WorkflowConfig, record domain.RecordSnapshot) (bool, map[string]interface{}, DispatchResult) {
	ts := wf.TargetSchema
	triggered := e.evaluator.Evaluate(record, ts.TriggerField, ts.TriggerOperator, ts.TriggerValue)
	payload := e.buildPayload(wf, record)
	if !triggered {
		return false, payload, DispatchResult{Skipped: true}
	}
	return true, payload, e.dispatcher.Dispatch(ctx, wf.Auth, payload)
}
