package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// TeacherMappingRepository persists the link between source teacher ids and
// application user accounts.
type TeacherMappingRepository struct {
	db *sqlx.DB
}

// NewTeacherMappingRepository constructs a TeacherMappingRepository.
func NewTeacherMappingRepository(db *sqlx.DB) *TeacherMappingRepository {
	return &TeacherMappingRepository{db: db}
}

// Get returns the mapping for one source teacher id.
func (r *TeacherMappingRepository) Get(ctx context.Context, sourceTeacherID string) (*models.TeacherMapping, error) {
	var m models.TeacherMapping
	err := r.db.GetContext(ctx, &m,
		"SELECT source_teacher_id, user_id, user_name FROM teacher_mappings WHERE source_teacher_id = $1",
		sourceTeacherID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all mappings ordered by user name.
func (r *TeacherMappingRepository) List(ctx context.Context) ([]models.TeacherMapping, error) {
	var mappings []models.TeacherMapping
	err := r.db.SelectContext(ctx, &mappings,
		"SELECT source_teacher_id, user_id, user_name FROM teacher_mappings ORDER BY user_name")
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// Upsert creates or replaces the mapping for a source teacher id.
func (r *TeacherMappingRepository) Upsert(ctx context.Context, m *models.TeacherMapping) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teacher_mappings (source_teacher_id, user_id, user_name, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (source_teacher_id) DO UPDATE SET user_id = EXCLUDED.user_id, user_name = EXCLUDED.user_name, updated_at = EXCLUDED.updated_at`,
		m.SourceTeacherID, m.UserID, m.UserName, time.Now().UTC())
	return err
}

// Delete removes the mapping for a source teacher id.
func (r *TeacherMappingRepository) Delete(ctx context.Context, sourceTeacherID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM teacher_mappings WHERE source_teacher_id = $1", sourceTeacherID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
