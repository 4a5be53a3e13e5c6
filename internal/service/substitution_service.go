package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type substitutionRepository interface {
	Create(ctx context.Context, sub *models.Substitution) error
	FindByID(ctx context.Context, id string) (*models.Substitution, error)
	UpdateAssignments(ctx context.Context, id string, assignments []models.Assignment) error
	ListActiveForTeacher(ctx context.Context, userID string) ([]models.ActiveAssignment, error)
	ListActiveForAbsentTeacher(ctx context.Context, absentTeacherID string) ([]models.ActiveAssignment, error)
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// SubstitutionService drives the calculate-then-save workflow: it builds the
// coverage grid for an absence, merges in already-active substitutions, and
// persists the resolved assignments.
type SubstitutionService struct {
	timetables timetableProvider
	calendar   *CalendarService
	repo       substitutionRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSubstitutionService wires the workflow dependencies.
func NewSubstitutionService(timetables timetableProvider, calendar *CalendarService, repo substitutionRepository, validate *validator.Validate, logger *zap.Logger) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{
		timetables: timetables,
		calendar:   calendar,
		repo:       repo,
		validator:  validate,
		logger:     logger,
	}
}

// Calculate builds the display grid for an absence period. Each cell is one
// (slot × column) pairing; cells already covered by another active
// substitution are marked so instead of "regular".
func (s *SubstitutionService) Calculate(ctx context.Context, req dto.CalculateSubstitutionRequest) (*dto.SubstitutionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calculation payload")
	}
	mode := req.Mode
	if mode == "" {
		mode = dto.ModeAllWeeks
	}

	days, err := s.calendar.Expand(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	tt, err := s.timetables.Get(ctx, req.TimetableID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListActiveForAbsentTeacher(ctx, req.AbsentTeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active substitutions")
	}

	plan := &dto.SubstitutionPlan{
		Mode:            mode,
		AbsentTeacherID: req.AbsentTeacherID,
		StartDate:       dateOnly(req.StartDate),
		EndDate:         dateOnly(req.EndDate),
	}
	if mode == dto.ModePerDate {
		plan.Columns = s.calendar.DateColumns(days)
	} else {
		plan.Columns = s.calendar.WeekdayColumns(days)
	}

	seen := make(map[string]bool)
	for _, slot := range tt.Slots {
		if slot.TeacherID != req.AbsentTeacherID {
			continue
		}
		key := slot.DayID + "|" + slot.Period + "|" + slot.ClassID
		if seen[key] {
			continue
		}
		seen[key] = true

		day, ok := tt.DayByID(slot.DayID)
		if !ok {
			continue
		}
		weekday, ok := day.ResolveWeekday()
		if !ok {
			continue
		}

		base := s.cellForSlot(tt, slot, day, weekday)
		if mode == dto.ModePerDate {
			for _, sd := range days {
				if sd.Weekday != weekday {
					continue
				}
				cell := base
				date := sd.Date
				cell.Date = &date
				s.markCoverage(&cell, existing)
				plan.Cells = append(plan.Cells, cell)
			}
		} else {
			if !weekdayOccurs(days, weekday) {
				continue
			}
			cell := base
			s.markCoverage(&cell, existing)
			plan.Cells = append(plan.Cells, cell)
		}
	}
	return plan, nil
}

func (s *SubstitutionService) cellForSlot(tt *models.Timetable, slot models.ScheduleSlot, day models.Day, weekday int) dto.SubstitutionCell {
	cell := dto.SubstitutionCell{
		SlotID:   slot.ID,
		DayID:    slot.DayID,
		DayName:  day.Name,
		Weekday:  weekday,
		PeriodID: slot.Period,
		ClassID:  slot.ClassID,
		Status:   dto.CellRegular,
	}
	if class, ok := tt.ClassByID(slot.ClassID); ok {
		cell.ClassName = class.Name
	}
	if subject, ok := tt.SubjectByID(slot.SubjectID); ok {
		cell.SubjectID = subject.ID
		cell.SubjectName = subject.Name
	}
	return cell
}

// markCoverage flips a cell to active_substitution when another substitution
// already covers it for the cell's date (or any date, for all-weeks cells).
func (s *SubstitutionService) markCoverage(cell *dto.SubstitutionCell, existing []models.ActiveAssignment) {
	for _, a := range existing {
		if a.PeriodID != cell.PeriodID {
			continue
		}
		if a.SlotID != "" && cell.SlotID != "" {
			if a.SlotID != cell.SlotID {
				continue
			}
		} else if a.ClassID != cell.ClassID {
			continue
		}
		if cell.Date != nil && a.AssignmentDate != nil && !sameDate(*cell.Date, *a.AssignmentDate) {
			continue
		}
		if cell.Date != nil && a.AssignmentDate == nil && !dateWithin(*cell.Date, a.StartDate, a.EndDate) {
			continue
		}
		cell.Status = dto.CellActiveSubstitution
		cell.CoveredBy = a.SubstituteTeacherID
		return
	}
}

// Create persists a calculated substitution. Saving with any assignment
// still missing a substitute teacher is rejected up front.
func (s *SubstitutionService) Create(ctx context.Context, req dto.CreateSubstitutionRequest) (*models.Substitution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitution payload")
	}
	if _, err := s.calendar.Expand(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := ensureAssigned(req.Assignments); err != nil {
		return nil, err
	}

	sub := &models.Substitution{
		ID:              uuid.NewString(),
		AbsentTeacherID: req.AbsentTeacherID,
		StartDate:       dateOnly(req.StartDate),
		EndDate:         dateOnly(req.EndDate),
		IsActive:        true,
	}
	for _, c := range req.Criteria {
		sub.Criteria = append(sub.Criteria, models.SubstitutionCriterion{
			ID:             uuid.NewString(),
			SubstitutionID: sub.ID,
			Name:           c.Name,
			Value:          c.Value,
		})
	}
	sub.Assignments = buildAssignments(sub.ID, req.Assignments)

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create substitution")
	}
	s.logger.Info("substitution created",
		zap.String("substitution_id", sub.ID),
		zap.String("absent_teacher_id", sub.AbsentTeacherID),
		zap.Int("assignments", len(sub.Assignments)),
	)
	return sub, nil
}

// UpdateAssignments replaces the assignments of an existing substitution,
// typically after a substitute change per assignment.
func (s *SubstitutionService) UpdateAssignments(ctx context.Context, id string, req dto.UpdateAssignmentsRequest) (*models.Substitution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignments payload")
	}
	if err := ensureAssigned(req.Assignments); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitution")
	}

	assignments := buildAssignments(existing.ID, req.Assignments)
	if err := s.repo.UpdateAssignments(ctx, existing.ID, assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignments")
	}
	existing.Assignments = assignments
	return existing, nil
}

// ListActiveForTeacher returns the enriched active assignments held by an
// application user acting as substitute.
func (s *SubstitutionService) ListActiveForTeacher(ctx context.Context, userID string) ([]models.ActiveAssignment, error) {
	assignments, err := s.repo.ListActiveForTeacher(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active assignments")
	}
	return assignments, nil
}

// Deactivate ends a substitution without touching the timetable.
func (s *SubstitutionService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitution")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate substitution")
	}
	return nil
}

// Delete removes a substitution and its assignments.
func (s *SubstitutionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitution")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete substitution")
	}
	return nil
}

func ensureAssigned(assignments []dto.AssignmentPayload) error {
	for _, a := range assignments {
		if a.SubstituteTeacherID == "" {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "every assignment needs a substitute teacher before saving")
		}
	}
	return nil
}

func buildAssignments(substitutionID string, payloads []dto.AssignmentPayload) []models.Assignment {
	out := make([]models.Assignment, 0, len(payloads))
	for _, a := range payloads {
		assignment := models.Assignment{
			ID:                  uuid.NewString(),
			SubstitutionID:      substitutionID,
			SlotID:              a.SlotID,
			DayID:               a.DayID,
			PeriodID:            a.PeriodID,
			ClassID:             a.ClassID,
			ClassName:           a.ClassName,
			SubjectID:           a.SubjectID,
			SubstituteTeacherID: a.SubstituteTeacherID,
			Reason:              a.Reason,
		}
		if a.AssignmentDate != nil {
			d := dateOnly(*a.AssignmentDate)
			assignment.AssignmentDate = &d
		}
		out = append(out, assignment)
	}
	return out
}

func weekdayOccurs(days []models.SchoolDay, weekday int) bool {
	for _, d := range days {
		if d.Weekday == weekday {
			return true
		}
	}
	return false
}
