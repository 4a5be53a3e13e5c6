package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

func newSubstitutionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubstitutionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	start := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	sub := &models.Substitution{
		ID:              "sub-1",
		AbsentTeacherID: "T1",
		StartDate:       start,
		EndDate:         end,
		IsActive:        true,
		Criteria: []models.SubstitutionCriterion{
			{ID: "crit-1", Name: "same_subject", Value: "true"},
		},
		Assignments: []models.Assignment{
			{ID: "asg-1", SlotID: "slot-1", DayID: "D1", PeriodID: "1", ClassID: "C1", ClassName: "1-أ", SubjectID: "S1", SubstituteTeacherID: "T2"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO substitutions").
		WithArgs("sub-1", "T1", start, end, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO substitution_criteria").
		WithArgs("crit-1", "sub-1", "same_subject", "true").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO substitution_assignments").
		WithArgs("asg-1", "sub-1", "slot-1", "D1", "1", "C1", "1-أ", "S1", "T2", nil, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), sub))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, absent_teacher_id").
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "absent_teacher_id", "start_date", "end_date", "is_active", "created_at", "updated_at"}).
			AddRow("sub-1", "T1", now, now, true, now, now))
	mock.ExpectQuery("SELECT id, substitution_id, name, value FROM substitution_criteria").
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "substitution_id", "name", "value"}))
	mock.ExpectQuery("SELECT id, substitution_id, slot_id").
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "substitution_id", "slot_id", "day_id", "period_id", "class_id", "class_name", "subject_id", "substitute_teacher_id", "assignment_date", "reason"}).
			AddRow("asg-1", "sub-1", "slot-1", "D1", "1", "C1", "1-أ", "S1", "T2", nil, ""))

	sub, err := repo.FindByID(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "T1", sub.AbsentTeacherID)
	require.Len(t, sub.Assignments, 1)
	assert.Nil(t, sub.Assignments[0].AssignmentDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryUpdateAssignmentsReplacesSet(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	pinned := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM substitution_assignments WHERE substitution_id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO substitution_assignments").
		WithArgs("asg-2", "sub-1", "slot-2", "D2", "3", "C1", "1-أ", "S1", "T3", &pinned, "teacher sick").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE substitutions SET updated_at = $2 WHERE id = $1")).
		WithArgs("sub-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateAssignments(context.Background(), "sub-1", []models.Assignment{
		{ID: "asg-2", SlotID: "slot-2", DayID: "D2", PeriodID: "3", ClassID: "C1", ClassName: "1-أ", SubjectID: "S1", SubstituteTeacherID: "T3", AssignmentDate: &pinned, Reason: "teacher sick"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListActiveForTeacher(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	start := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT a.id, a.substitution_id").
		WithArgs("T2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "substitution_id", "slot_id", "day_id", "period_id", "class_id", "class_name", "subject_id", "substitute_teacher_id", "assignment_date", "reason", "start_date", "end_date", "absent_teacher_name"}).
			AddRow("asg-1", "sub-1", "slot-1", "D1", "1", "C1", "1-أ", "S1", "T2", nil, "", start, end, "أحمد علي"))

	rows, err := repo.ListActiveForTeacher(context.Background(), "T2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "أحمد علي", rows[0].AbsentTeacherName)
	assert.Equal(t, start, rows[0].StartDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryDeactivateNotFound(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectExec("UPDATE substitutions SET is_active = FALSE").
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM substitution_assignments WHERE substitution_id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM substitution_criteria WHERE substitution_id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM substitutions WHERE id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "sub-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
