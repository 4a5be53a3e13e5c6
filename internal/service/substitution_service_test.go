package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type substitutionRepoStub struct {
	created       *models.Substitution
	found         *models.Substitution
	findErr       error
	updated       []models.Assignment
	active        []models.ActiveAssignment
	activeAbsent  []models.ActiveAssignment
	createErr     error
	deactivatedID string
	deletedID     string
}

func (s *substitutionRepoStub) Create(ctx context.Context, sub *models.Substitution) error {
	s.created = sub
	return s.createErr
}

func (s *substitutionRepoStub) FindByID(ctx context.Context, id string) (*models.Substitution, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func (s *substitutionRepoStub) UpdateAssignments(ctx context.Context, id string, assignments []models.Assignment) error {
	s.updated = assignments
	return nil
}

func (s *substitutionRepoStub) ListActiveForTeacher(ctx context.Context, userID string) ([]models.ActiveAssignment, error) {
	return s.active, nil
}

func (s *substitutionRepoStub) ListActiveForAbsentTeacher(ctx context.Context, absentTeacherID string) ([]models.ActiveAssignment, error) {
	return s.activeAbsent, nil
}

func (s *substitutionRepoStub) Deactivate(ctx context.Context, id string) error {
	s.deactivatedID = id
	return nil
}

func (s *substitutionRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

func absenceFixtureTimetable() *models.Timetable {
	return &models.Timetable{
		ID: "tt-1",
		Days: []models.Day{
			{ID: "D1", Name: "الأحد", Weekday: 0, Source: models.DaySourceElement},
			{ID: "D2", Name: "الاثنين", Weekday: 1, Source: models.DaySourceElement},
		},
		Periods:  []models.Period{{ID: "1"}, {ID: "2"}},
		Subjects: []models.Subject{{ID: "S1", Name: "رياضيات"}},
		Teachers: []models.Teacher{{ID: "T1", Name: "أحمد"}},
		Classes:  []models.Class{{ID: "C1", Name: "1-أ"}, {ID: "C2", Name: "2-ب"}},
		Slots: []models.ScheduleSlot{
			{ID: "slot-a", DayID: "D1", Period: "1", ClassID: "C1", TeacherID: "T1", SubjectID: "S1"},
			// Duplicate pairing emitted by the parser for a co-taught group.
			{ID: "slot-a2", DayID: "D1", Period: "1", ClassID: "C1", TeacherID: "T1", SubjectID: "S1"},
			{ID: "slot-b", DayID: "D2", Period: "2", ClassID: "C2", TeacherID: "T1", SubjectID: "S1"},
		},
	}
}

func newSubstitutionFixture(repo *substitutionRepoStub) *SubstitutionService {
	return NewSubstitutionService(
		timetableStub{tt: absenceFixtureTimetable()},
		NewCalendarService(0, nil),
		repo,
		nil, nil,
	)
}

func TestSubstitutionServiceCalculateAllWeeks(t *testing.T) {
	repo := &substitutionRepoStub{}
	svc := newSubstitutionFixture(repo)

	plan, err := svc.Calculate(context.Background(), dto.CalculateSubstitutionRequest{
		TimetableID:     "tt-1",
		AbsentTeacherID: "T1",
		StartDate:       date(2025, time.January, 12),
		EndDate:         date(2025, time.January, 16),
	})
	require.NoError(t, err)
	assert.Equal(t, dto.ModeAllWeeks, plan.Mode)
	require.Len(t, plan.Columns, 5)
	assert.Nil(t, plan.Columns[0].Date)

	// Duplicate slots collapse to one cell per (day, period, class).
	require.Len(t, plan.Cells, 2)
	assert.Equal(t, dto.CellRegular, plan.Cells[0].Status)
	assert.Equal(t, "1-أ", plan.Cells[0].ClassName)
	assert.Equal(t, "رياضيات", plan.Cells[0].SubjectName)
}

func TestSubstitutionServiceCalculateSkipsDaysOutsideRange(t *testing.T) {
	repo := &substitutionRepoStub{}
	svc := newSubstitutionFixture(repo)

	// Sunday-only range: the Monday lesson produces no cell.
	plan, err := svc.Calculate(context.Background(), dto.CalculateSubstitutionRequest{
		TimetableID:     "tt-1",
		AbsentTeacherID: "T1",
		StartDate:       date(2025, time.January, 12),
		EndDate:         date(2025, time.January, 12),
	})
	require.NoError(t, err)
	require.Len(t, plan.Cells, 1)
	assert.Equal(t, "D1", plan.Cells[0].DayID)
}

func TestSubstitutionServiceCalculatePerDate(t *testing.T) {
	repo := &substitutionRepoStub{}
	svc := newSubstitutionFixture(repo)

	// Two weeks in per-date mode: each weekday occurrence is its own cell.
	plan, err := svc.Calculate(context.Background(), dto.CalculateSubstitutionRequest{
		TimetableID:     "tt-1",
		AbsentTeacherID: "T1",
		StartDate:       date(2025, time.January, 12),
		EndDate:         date(2025, time.January, 23),
		Mode:            dto.ModePerDate,
	})
	require.NoError(t, err)
	assert.Equal(t, dto.ModePerDate, plan.Mode)
	require.Len(t, plan.Columns, 10)
	require.Len(t, plan.Cells, 4)
	for _, cell := range plan.Cells {
		require.NotNil(t, cell.Date)
	}
}

func TestSubstitutionServiceCalculateMarksActiveCoverage(t *testing.T) {
	repo := &substitutionRepoStub{
		activeAbsent: []models.ActiveAssignment{
			{
				Assignment: models.Assignment{
					SubstitutionID:      "sub-1",
					SlotID:              "slot-a",
					PeriodID:            "1",
					ClassID:             "C1",
					SubstituteTeacherID: "user-9",
				},
				StartDate: date(2025, time.January, 12),
				EndDate:   date(2025, time.January, 16),
			},
		},
	}
	svc := newSubstitutionFixture(repo)

	plan, err := svc.Calculate(context.Background(), dto.CalculateSubstitutionRequest{
		TimetableID:     "tt-1",
		AbsentTeacherID: "T1",
		StartDate:       date(2025, time.January, 12),
		EndDate:         date(2025, time.January, 16),
	})
	require.NoError(t, err)
	require.Len(t, plan.Cells, 2)

	byDay := map[string]dto.SubstitutionCell{}
	for _, c := range plan.Cells {
		byDay[c.DayID] = c
	}
	assert.Equal(t, dto.CellActiveSubstitution, byDay["D1"].Status)
	assert.Equal(t, "user-9", byDay["D1"].CoveredBy)
	assert.Equal(t, dto.CellRegular, byDay["D2"].Status)
}

func TestSubstitutionServiceCalculateValidation(t *testing.T) {
	svc := newSubstitutionFixture(&substitutionRepoStub{})

	_, err := svc.Calculate(context.Background(), dto.CalculateSubstitutionRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Calculate(context.Background(), dto.CalculateSubstitutionRequest{
		TimetableID:     "tt-1",
		AbsentTeacherID: "T1",
		StartDate:       date(2025, time.January, 16),
		EndDate:         date(2025, time.January, 12),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDateRange.Code, appErrors.FromError(err).Code)
}

func validCreateRequest() dto.CreateSubstitutionRequest {
	return dto.CreateSubstitutionRequest{
		AbsentTeacherID: "T1",
		StartDate:       date(2025, time.January, 12),
		EndDate:         date(2025, time.January, 16),
		Criteria: []dto.CriterionPayload{
			{Name: "same_subject", Value: "true"},
		},
		Assignments: []dto.AssignmentPayload{
			{SlotID: "slot-a", DayID: "D1", PeriodID: "1", ClassID: "C1", ClassName: "1-أ", SubjectID: "S1", SubstituteTeacherID: "T2"},
		},
	}
}

func TestSubstitutionServiceCreate(t *testing.T) {
	repo := &substitutionRepoStub{}
	svc := newSubstitutionFixture(repo)

	sub, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.NotEmpty(t, sub.ID)
	assert.True(t, sub.IsActive)
	require.Len(t, sub.Assignments, 1)
	assert.Equal(t, sub.ID, sub.Assignments[0].SubstitutionID)
	assert.NotEmpty(t, sub.Assignments[0].ID)
	require.Len(t, sub.Criteria, 1)
	assert.Equal(t, "same_subject", sub.Criteria[0].Name)
}

func TestSubstitutionServiceCreateRejectsUnassigned(t *testing.T) {
	repo := &substitutionRepoStub{}
	svc := newSubstitutionFixture(repo)

	req := validCreateRequest()
	req.Assignments[0].SubstituteTeacherID = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestSubstitutionServiceUpdateAssignments(t *testing.T) {
	repo := &substitutionRepoStub{
		found: &models.Substitution{ID: "sub-1", AbsentTeacherID: "T1"},
	}
	svc := newSubstitutionFixture(repo)

	pinned := date(2025, time.January, 13)
	sub, err := svc.UpdateAssignments(context.Background(), "sub-1", dto.UpdateAssignmentsRequest{
		Assignments: []dto.AssignmentPayload{
			{SlotID: "slot-b", DayID: "D2", PeriodID: "2", ClassID: "C2", SubstituteTeacherID: "T3", AssignmentDate: &pinned},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "sub-1", repo.updated[0].SubstitutionID)
	require.NotNil(t, repo.updated[0].AssignmentDate)
	assert.Equal(t, pinned, *repo.updated[0].AssignmentDate)
	assert.Len(t, sub.Assignments, 1)
}

func TestSubstitutionServiceUpdateAssignmentsNotFound(t *testing.T) {
	repo := &substitutionRepoStub{findErr: sql.ErrNoRows}
	svc := newSubstitutionFixture(repo)

	_, err := svc.UpdateAssignments(context.Background(), "missing", dto.UpdateAssignmentsRequest{
		Assignments: []dto.AssignmentPayload{
			{SlotID: "slot-b", DayID: "D2", PeriodID: "2", SubstituteTeacherID: "T3"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceDeactivateAndDelete(t *testing.T) {
	repo := &substitutionRepoStub{found: &models.Substitution{ID: "sub-1"}}
	svc := newSubstitutionFixture(repo)

	require.NoError(t, svc.Deactivate(context.Background(), "sub-1"))
	assert.Equal(t, "sub-1", repo.deactivatedID)

	require.NoError(t, svc.Delete(context.Background(), "sub-1"))
	assert.Equal(t, "sub-1", repo.deletedID)
}

func TestSubstitutionServiceDeactivateNotFound(t *testing.T) {
	repo := &substitutionRepoStub{findErr: sql.ErrNoRows}
	svc := newSubstitutionFixture(repo)

	err := svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
