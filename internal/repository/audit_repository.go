package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// AuditRepository appends audit trail records for mutating operations.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends one audit record.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_logs (id, action, resource, resource_id, new_values, ip_address, user_agent, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		entry.ID, entry.Action, entry.Resource, entry.ResourceID, entry.NewValues, entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	return err
}
