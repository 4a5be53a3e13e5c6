package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

func newTimetableMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositorySaveAssignsIDAndReplacesActive(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	tt := &models.Timetable{
		Days:     []models.Day{{ID: "D1", Name: "الأحد", Weekday: 0, Source: models.DaySourceElement}},
		Periods:  []models.Period{{ID: "1"}},
		Subjects: []models.Subject{{ID: "S1", Name: "رياضيات"}},
		Teachers: []models.Teacher{{ID: "T1", Name: "أحمد"}},
		Classes:  []models.Class{{ID: "C1", Name: "1-أ"}},
		Slots: []models.ScheduleSlot{
			{DayID: "D1", Period: "1", ClassID: "C1", TeacherID: "T1", SubjectID: "S1"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables SET is_active = FALSE WHERE is_active = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO timetables").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_days").
		WithArgs(sqlmock.AnyArg(), "D1", "الأحد", "", 0, models.DaySourceElement).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_periods").
		WithArgs(sqlmock.AnyArg(), "1", "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_subjects").
		WithArgs(sqlmock.AnyArg(), "S1", "رياضيات", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_teachers").
		WithArgs(sqlmock.AnyArg(), "T1", "أحمد", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_classes").
		WithArgs(sqlmock.AnyArg(), "C1", "1-أ", "", "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_slots").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "D1", "1", "C1", "T1", "S1", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), tt))
	assert.NotEmpty(t, tt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositorySaveRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables SET is_active = FALSE WHERE is_active = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO timetables").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Save(context.Background(), &models.Timetable{})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM timetables WHERE id = $1")).
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tt-1"))
	mock.ExpectQuery("SELECT day_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_id", "name", "short_name", "weekday", "source"}).
			AddRow("D1", "الأحد", "أح", 0, "ELEMENT"))
	mock.ExpectQuery("SELECT period_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"period_id", "start_time", "end_time"}).
			AddRow("1", "07:30", "08:15"))
	mock.ExpectQuery("SELECT subject_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "name", "short_name"}).
			AddRow("S1", "رياضيات", "ريض"))
	mock.ExpectQuery("SELECT teacher_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "name", "short_name"}).
			AddRow("T1", "أحمد علي", "أع"))
	mock.ExpectQuery("SELECT classroom_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id", "name", "short_name", "capacity"}))
	mock.ExpectQuery("SELECT class_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"class_id", "name", "short_name", "teacher_id", "grade_id"}).
			AddRow("C1", "1-أ", "", "T1", ""))
	mock.ExpectQuery("SELECT slot_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"slot_id", "day_id", "period_id", "class_id", "teacher_id", "subject_id", "classroom_id"}).
			AddRow("slot-1", "D1", "1", "C1", "T1", "S1", ""))
	mock.ExpectQuery("SELECT source_teacher_id").
		WillReturnRows(sqlmock.NewRows([]string{"source_teacher_id", "user_id", "user_name"}).
			AddRow("T1", "user-1", "أحمد علي"))

	tt, err := repo.Load(context.Background(), "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "tt-1", tt.ID)
	assert.Len(t, tt.Days, 1)
	assert.Len(t, tt.Slots, 1)
	require.Contains(t, tt.Mappings, "T1")
	assert.Equal(t, "user-1", tt.Mappings["T1"].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryLoadNotFound(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM timetables WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindActiveID(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM timetables WHERE is_active = TRUE ORDER BY created_at DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tt-9"))

	id, err := repo.FindActiveID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tt-9", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
