package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type timetableStub struct {
	tt  *models.Timetable
	err error
}

func (s timetableStub) Get(ctx context.Context, id string) (*models.Timetable, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tt, nil
}

type mappingStub struct {
	mappings map[string]*models.TeacherMapping
	err      error
}

func (s mappingStub) Get(ctx context.Context, sourceTeacherID string) (*models.TeacherMapping, error) {
	if s.err != nil {
		return nil, s.err
	}
	if m, ok := s.mappings[sourceTeacherID]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

type assignmentListerStub struct {
	assignments []models.ActiveAssignment
	err         error
}

func (s assignmentListerStub) ListActiveForTeacher(ctx context.Context, userID string) ([]models.ActiveAssignment, error) {
	return s.assignments, s.err
}

func conflictFixtureTimetable() *models.Timetable {
	return &models.Timetable{
		ID: "tt-1",
		Days: []models.Day{
			{ID: "D1", Name: "الأحد", Weekday: 0, Source: models.DaySourceElement},
			{ID: "D2", Name: "الاثنين", Weekday: 1, Source: models.DaySourceElement},
		},
		Periods:  []models.Period{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		Subjects: []models.Subject{{ID: "S1", Name: "رياضيات"}},
		Teachers: []models.Teacher{{ID: "T2", Name: "خالد"}},
		Classes:  []models.Class{{ID: "C1", Name: "1-أ"}, {ID: "C2", Name: "2-ب"}},
		Slots: []models.ScheduleSlot{
			{ID: "slot-1", DayID: "D2", Period: "3", ClassID: "C1", TeacherID: "T2", SubjectID: "S1"},
			{ID: "slot-2", DayID: "D1", Period: "1", ClassID: "C2", TeacherID: "T2", SubjectID: "S1"},
		},
	}
}

func newConflictFixture(assignments []models.ActiveAssignment) *ConflictService {
	svc := NewConflictService(
		timetableStub{tt: conflictFixtureTimetable()},
		mappingStub{mappings: map[string]*models.TeacherMapping{
			"T2": {SourceTeacherID: "T2", UserID: "user-2", UserName: "خالد"},
		}},
		assignmentListerStub{assignments: assignments},
		nil, nil,
	)
	svc.now = func() time.Time { return date(2025, time.January, 10) }
	return svc
}

func baseConflictRequest() dto.ConflictCheckRequest {
	return dto.ConflictCheckRequest{
		TimetableID:        "tt-1",
		CandidateTeacherID: "T2",
		PeriodID:           "3",
		DayID:              "D2",
		SlotID:             "slot-9",
		ClassName:          "3-ج",
		StartDate:          date(2025, time.January, 12),
		EndDate:            date(2025, time.January, 16),
	}
}

func TestConflictServiceDetectRegularSchedule(t *testing.T) {
	svc := newConflictFixture(nil)

	// Candidate teaches Monday period 3; the proposal targets the same
	// weekday and period.
	report, err := svc.Detect(context.Background(), baseConflictRequest())
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	conflict := report.Conflicts[0]
	assert.Equal(t, models.ConflictRegularSchedule, conflict.Type)
	assert.Equal(t, "1-أ", conflict.ClassName)
	assert.Equal(t, "رياضيات", conflict.SubjectName)
	assert.NotEmpty(t, conflict.Message)
}

func TestConflictServiceDetectRegularScheduleDifferentWeekday(t *testing.T) {
	svc := newConflictFixture(nil)

	req := baseConflictRequest()
	req.DayID = "D1" // Sunday; candidate's period-3 lesson is on Monday
	report, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, report.Count)
}

func TestConflictServiceDetectPinnedDate(t *testing.T) {
	svc := newConflictFixture(nil)

	req := baseConflictRequest()
	monday := date(2025, time.January, 13)
	req.Date = &monday
	report, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	require.NotNil(t, report.Conflicts[0].Date)
	assert.Equal(t, monday, *report.Conflicts[0].Date)

	// A pinned Sunday does not collide with a Monday lesson.
	sunday := date(2025, time.January, 12)
	req.Date = &sunday
	report, err = svc.Detect(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, report.Count)
}

func TestConflictServiceDetectCrossSubstitution(t *testing.T) {
	svc := newConflictFixture([]models.ActiveAssignment{
		{
			Assignment: models.Assignment{
				SubstitutionID:      "sub-7",
				SlotID:              "slot-9",
				PeriodID:            "3",
				ClassID:             "C9",
				ClassName:           "3-ج",
				SubstituteTeacherID: "user-2",
			},
			StartDate:         date(2025, time.January, 14),
			EndDate:           date(2025, time.January, 20),
			AbsentTeacherName: "سعيد",
		},
	})

	req := baseConflictRequest()
	req.DayID = "D1"
	req.PeriodID = "3"
	report, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	conflict := report.Conflicts[0]
	assert.Equal(t, models.ConflictSubstitution, conflict.Type)
	assert.Equal(t, "سعيد", conflict.AbsentTeacherName)
}

func TestConflictServiceDetectExcludesOwnSubstitution(t *testing.T) {
	svc := newConflictFixture([]models.ActiveAssignment{
		{
			Assignment: models.Assignment{
				SubstitutionID:      "sub-7",
				SlotID:              "slot-9",
				PeriodID:            "3",
				SubstituteTeacherID: "user-2",
			},
			StartDate: date(2025, time.January, 12),
			EndDate:   date(2025, time.January, 16),
		},
	})

	req := baseConflictRequest()
	req.DayID = "D1"
	req.ExcludeSubstitutionID = "sub-7"
	report, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, report.Count)
}

func TestConflictServiceDetectIgnoresExpiredAssignments(t *testing.T) {
	svc := newConflictFixture([]models.ActiveAssignment{
		{
			Assignment: models.Assignment{
				SubstitutionID:      "sub-old",
				SlotID:              "slot-9",
				PeriodID:            "3",
				SubstituteTeacherID: "user-2",
			},
			StartDate: date(2025, time.January, 1),
			EndDate:   date(2025, time.January, 5),
		},
	})

	req := baseConflictRequest()
	req.DayID = "D1"
	req.StartDate = date(2025, time.January, 1)
	req.EndDate = date(2025, time.January, 16)
	report, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, report.Count)
}

func TestConflictServiceDetectSlotIdentityAuthoritative(t *testing.T) {
	// Same class name but a different schedule slot: the slot reference
	// wins and no conflict is reported.
	svc := newConflictFixture([]models.ActiveAssignment{
		{
			Assignment: models.Assignment{
				SubstitutionID:      "sub-7",
				SlotID:              "slot-other",
				PeriodID:            "3",
				ClassName:           "3-ج",
				SubstituteTeacherID: "user-2",
			},
			StartDate: date(2025, time.January, 12),
			EndDate:   date(2025, time.January, 16),
		},
	})

	req := baseConflictRequest()
	req.DayID = "D1"
	report, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, report.Count)
}

func TestConflictServiceDetectMappingFailure(t *testing.T) {
	svc := NewConflictService(
		timetableStub{tt: conflictFixtureTimetable()},
		mappingStub{err: errors.New("db unavailable")},
		assignmentListerStub{},
		nil, nil,
	)

	_, err := svc.Detect(context.Background(), baseConflictRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflictCheck.Code, appErrors.FromError(err).Code)
}

func TestConflictServiceDetectMissingMapping(t *testing.T) {
	svc := NewConflictService(
		timetableStub{tt: conflictFixtureTimetable()},
		mappingStub{mappings: map[string]*models.TeacherMapping{}},
		assignmentListerStub{},
		nil, nil,
	)

	// An unmapped candidate cannot be verified; that is a failure, not a
	// clean report.
	_, err := svc.Detect(context.Background(), baseConflictRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflictCheck.Code, appErrors.FromError(err).Code)
}

func TestConflictServiceDetectListFailure(t *testing.T) {
	svc := NewConflictService(
		timetableStub{tt: conflictFixtureTimetable()},
		mappingStub{mappings: map[string]*models.TeacherMapping{
			"T2": {SourceTeacherID: "T2", UserID: "user-2"},
		}},
		assignmentListerStub{err: errors.New("query timeout")},
		nil, nil,
	)

	_, err := svc.Detect(context.Background(), baseConflictRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflictCheck.Code, appErrors.FromError(err).Code)
}

func TestConflictServiceDetectValidation(t *testing.T) {
	svc := newConflictFixture(nil)

	_, err := svc.Detect(context.Background(), dto.ConflictCheckRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req := baseConflictRequest()
	req.EndDate = date(2025, time.January, 1)
	_, err = svc.Detect(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDateRange.Code, appErrors.FromError(err).Code)
}
