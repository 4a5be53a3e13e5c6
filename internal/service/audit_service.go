package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/models"
	"github.com/noah-isme/madaris-ops-api/pkg/jobs"
)

type auditSink interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// AuditService records audit trail entries asynchronously so that
// request latency is not tied to the audit write.
type AuditService struct {
	sink   auditSink
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService creates an AuditService backed by a single-worker queue.
func NewAuditService(sink auditSink, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{
		sink:   sink,
		logger: logger,
	}
	s.queue = jobs.NewQueue("audit", s.persist, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return s
}

// Start launches the queue workers. Must be called before Record.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues an audit entry. Failures are logged, never surfaced to
// the caller: an audit write must not fail the audited request.
func (s *AuditService) Record(entry *models.AuditLog) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      entry.ID,
		Type:    entry.Action,
		Payload: entry,
	})
	if err != nil {
		s.logger.Sugar().Warnw("audit entry dropped", "action", entry.Action, "error", err)
	}
}

func (s *AuditService) persist(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Sugar().Errorw("audit job carried unexpected payload", "job_id", job.ID)
		return nil
	}
	if err := s.sink.Create(ctx, entry); err != nil {
		return fmt.Errorf("persist audit entry: %w", err)
	}
	return nil
}
