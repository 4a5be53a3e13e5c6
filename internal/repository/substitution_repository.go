package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// SubstitutionRepository persists substitutions with their criteria and
// assignments.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

// Create stores a substitution together with its criteria and assignments in
// one transaction.
func (r *SubstitutionRepository) Create(ctx context.Context, sub *models.Substitution) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO substitutions (id, absent_teacher_id, start_date, end_date, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		sub.ID, sub.AbsentTeacherID, sub.StartDate, sub.EndDate, sub.IsActive, sub.CreatedAt, sub.UpdatedAt,
	); err != nil {
		return err
	}

	for _, c := range sub.Criteria {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO substitution_criteria (id, substitution_id, name, value) VALUES ($1, $2, $3, $4)",
			c.ID, sub.ID, c.Name, c.Value,
		); err != nil {
			return err
		}
	}
	if err := insertAssignments(ctx, tx, sub.ID, sub.Assignments); err != nil {
		return err
	}

	return tx.Commit()
}

// FindByID loads a substitution with its criteria and assignments.
func (r *SubstitutionRepository) FindByID(ctx context.Context, id string) (*models.Substitution, error) {
	var sub models.Substitution
	if err := r.db.GetContext(ctx, &sub,
		"SELECT id, absent_teacher_id, start_date, end_date, is_active, created_at, updated_at FROM substitutions WHERE id = $1",
		id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &sub.Criteria,
		"SELECT id, substitution_id, name, value FROM substitution_criteria WHERE substitution_id = $1",
		id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &sub.Assignments,
		"SELECT id, substitution_id, slot_id, day_id, period_id, class_id, class_name, subject_id, substitute_teacher_id, assignment_date, reason FROM substitution_assignments WHERE substitution_id = $1",
		id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateAssignments replaces the assignment set of a substitution; the last
// writer wins.
func (r *SubstitutionRepository) UpdateAssignments(ctx context.Context, id string, assignments []models.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM substitution_assignments WHERE substitution_id = $1", id); err != nil {
		return err
	}
	if err := insertAssignments(ctx, tx, id, assignments); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE substitutions SET updated_at = $2 WHERE id = $1", id, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

// activeAssignmentQuery joins assignments with their parent substitution and
// resolves the absent teacher's display name from the active timetable.
const activeAssignmentQuery = `SELECT a.id, a.substitution_id, a.slot_id, a.day_id, a.period_id, a.class_id, a.class_name, a.subject_id, a.substitute_teacher_id, a.assignment_date, a.reason, s.start_date, s.end_date, COALESCE(tt.name, s.absent_teacher_id) AS absent_teacher_name
FROM substitution_assignments a
JOIN substitutions s ON s.id = a.substitution_id
LEFT JOIN timetables t ON t.is_active = TRUE
LEFT JOIN timetable_teachers tt ON tt.timetable_id = t.id AND tt.teacher_id = s.absent_teacher_id
WHERE s.is_active = TRUE`

// ListActiveForTeacher returns assignments in active substitutions where the
// given teacher is the substitute.
func (r *SubstitutionRepository) ListActiveForTeacher(ctx context.Context, teacherID string) ([]models.ActiveAssignment, error) {
	var rows []models.ActiveAssignment
	err := r.db.SelectContext(ctx, &rows,
		activeAssignmentQuery+" AND a.substitute_teacher_id = $1 ORDER BY s.start_date, a.day_id, a.period_id",
		teacherID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveForAbsentTeacher returns assignments in active substitutions where
// the given teacher is the absentee.
func (r *SubstitutionRepository) ListActiveForAbsentTeacher(ctx context.Context, absentTeacherID string) ([]models.ActiveAssignment, error) {
	var rows []models.ActiveAssignment
	err := r.db.SelectContext(ctx, &rows,
		activeAssignmentQuery+" AND s.absent_teacher_id = $1 ORDER BY s.start_date, a.day_id, a.period_id",
		absentTeacherID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Deactivate soft-removes a substitution from conflict detection and teacher
// views without discarding its history.
func (r *SubstitutionRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE substitutions SET is_active = FALSE, updated_at = $2 WHERE id = $1",
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// Delete removes a substitution and its dependents permanently.
func (r *SubstitutionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM substitution_assignments WHERE substitution_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM substitution_criteria WHERE substitution_id = $1", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM substitutions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

func insertAssignments(ctx context.Context, tx *sqlx.Tx, subID string, assignments []models.Assignment) error {
	for _, a := range assignments {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO substitution_assignments (id, substitution_id, slot_id, day_id, period_id, class_id, class_name, subject_id, substitute_teacher_id, assignment_date, reason) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
			a.ID, subID, a.SlotID, a.DayID, a.PeriodID, a.ClassID, a.ClassName, a.SubjectID, a.SubstituteTeacherID, a.AssignmentDate, a.Reason,
		); err != nil {
			return err
		}
	}
	return nil
}
