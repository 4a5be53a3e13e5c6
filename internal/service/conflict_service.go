package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type teacherMappingReader interface {
	Get(ctx context.Context, sourceTeacherID string) (*models.TeacherMapping, error)
}

type activeAssignmentLister interface {
	ListActiveForTeacher(ctx context.Context, userID string) ([]models.ActiveAssignment, error)
}

// ConflictService detects collisions for a proposed substitute teacher: the
// teacher's own weekly schedule, and assignments the teacher already holds in
// other active substitutions. A failed lookup is reported as "unable to
// verify conflicts", never as an empty result.
type ConflictService struct {
	timetables    timetableProvider
	mappings      teacherMappingReader
	substitutions activeAssignmentLister
	validator     *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
}

// NewConflictService wires the detector's collaborators.
func NewConflictService(timetables timetableProvider, mappings teacherMappingReader, substitutions activeAssignmentLister, validate *validator.Validate, logger *zap.Logger) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{
		timetables:    timetables,
		mappings:      mappings,
		substitutions: substitutions,
		validator:     validate,
		logger:        logger,
		now:           time.Now,
	}
}

// Detect scans both conflict sources for the candidate teacher. A nil
// req.Date means the assignment covers every weekday occurrence inside the
// proposed substitution range.
func (s *ConflictService) Detect(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}
	if dateOnly(req.EndDate).Before(dateOnly(req.StartDate)) {
		return nil, appErrors.Clone(appErrors.ErrDateRange, "end date is before start date")
	}

	tt, err := s.timetables.Get(ctx, req.TimetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflictCheck.Code, appErrors.ErrConflictCheck.Status, appErrors.ErrConflictCheck.Message)
	}

	report := &dto.ConflictReport{Conflicts: []models.SubstitutionConflict{}}
	report.Conflicts = append(report.Conflicts, s.regularScheduleConflicts(tt, req)...)

	crossConflicts, err := s.crossSubstitutionConflicts(ctx, req)
	if err != nil {
		return nil, err
	}
	report.Conflicts = append(report.Conflicts, crossConflicts...)
	report.Count = len(report.Conflicts)

	if report.Count > 0 {
		s.logger.Info("conflicts detected",
			zap.String("candidate_teacher_id", req.CandidateTeacherID),
			zap.String("period_id", req.PeriodID),
			zap.Int("count", report.Count),
		)
	}
	return report, nil
}

// regularScheduleConflicts scans the candidate's weekly schedule. Day
// comparison goes through weekday names: differently-parsed timetables may
// give the same physical day different Day id values.
func (s *ConflictService) regularScheduleConflicts(tt *models.Timetable, req dto.ConflictCheckRequest) []models.SubstitutionConflict {
	proposedWeekday, haveProposed := s.weekdayOf(tt, req.DayID)

	var conflicts []models.SubstitutionConflict
	seen := make(map[string]bool)
	for _, slot := range tt.Slots {
		if slot.TeacherID != req.CandidateTeacherID || slot.Period != req.PeriodID {
			continue
		}
		slotWeekday, ok := s.weekdayOf(tt, slot.DayID)
		if !ok {
			continue
		}

		if req.Date != nil {
			if int(req.Date.Weekday()) != slotWeekday {
				continue
			}
			if !dateWithin(*req.Date, req.StartDate, req.EndDate) {
				continue
			}
		} else if haveProposed && slotWeekday != proposedWeekday {
			continue
		}

		// Parsers may emit duplicate slots per class pairing; report once.
		key := slot.DayID + "|" + slot.Period + "|" + slot.ClassID
		if seen[key] {
			continue
		}
		seen[key] = true

		className := slot.ClassID
		if class, ok := tt.ClassByID(slot.ClassID); ok {
			className = class.Name
		}
		subjectName := ""
		if subject, ok := tt.SubjectByID(slot.SubjectID); ok {
			subjectName = subject.Name
		}
		conflicts = append(conflicts, models.SubstitutionConflict{
			Type:        models.ConflictRegularSchedule,
			Date:        req.Date,
			PeriodID:    req.PeriodID,
			ClassName:   className,
			SubjectName: subjectName,
			Message:     fmt.Sprintf("لدى المعلم حصة %s مع %s في نفس الفترة", subjectName, className),
		})
	}
	return conflicts
}

// crossSubstitutionConflicts checks assignments the candidate already holds
// in other active substitutions. Any lookup failure, including a missing
// teacher mapping, aborts the check: "not checked" must stay distinguishable
// from "checked, no conflicts".
func (s *ConflictService) crossSubstitutionConflicts(ctx context.Context, req dto.ConflictCheckRequest) ([]models.SubstitutionConflict, error) {
	mapping, err := s.mappings.Get(ctx, req.CandidateTeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflictCheck.Code, appErrors.ErrConflictCheck.Status, appErrors.ErrConflictCheck.Message)
	}

	assignments, err := s.substitutions.ListActiveForTeacher(ctx, mapping.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflictCheck.Code, appErrors.ErrConflictCheck.Status, appErrors.ErrConflictCheck.Message)
	}

	today := dateOnly(s.now())
	var conflicts []models.SubstitutionConflict
	for _, a := range assignments {
		if a.SubstitutionID == req.ExcludeSubstitutionID {
			continue
		}
		if dateOnly(a.EndDate).Before(today) {
			continue
		}
		if a.PeriodID != req.PeriodID {
			continue
		}
		if !datesCompatible(req, a) {
			continue
		}
		if !identityMatches(req, a) {
			continue
		}
		conflicts = append(conflicts, models.SubstitutionConflict{
			Type:              models.ConflictSubstitution,
			Date:              a.AssignmentDate,
			PeriodID:          a.PeriodID,
			ClassName:         a.ClassName,
			AbsentTeacherName: a.AbsentTeacherName,
			Message:           fmt.Sprintf("المعلم مكلف بالإنابة عن %s مع %s في نفس الفترة", a.AbsentTeacherName, a.ClassName),
		})
	}
	return conflicts, nil
}

// datesCompatible applies the precedence rules for comparing a proposed
// assignment with an existing one: pinned dates compare exactly; a pinned
// date against an all-weeks assignment must fall inside its range; two
// all-weeks assignments conflict when their ranges overlap.
func datesCompatible(req dto.ConflictCheckRequest, a models.ActiveAssignment) bool {
	switch {
	case req.Date != nil && a.AssignmentDate != nil:
		return sameDate(*req.Date, *a.AssignmentDate)
	case req.Date != nil:
		return dateWithin(*req.Date, a.StartDate, a.EndDate)
	case a.AssignmentDate != nil:
		return dateWithin(*a.AssignmentDate, req.StartDate, req.EndDate)
	default:
		return rangesOverlap(req.StartDate, req.EndDate, a.StartDate, a.EndDate)
	}
}

// identityMatches compares the proposed slot with an existing assignment.
// The schedule identifier is authoritative; class-name equality is kept as a
// legacy fallback for records that predate slot references.
func identityMatches(req dto.ConflictCheckRequest, a models.ActiveAssignment) bool {
	if req.SlotID != "" && a.SlotID != "" {
		return req.SlotID == a.SlotID
	}
	if req.ClassName != "" && a.ClassName != "" {
		return req.ClassName == a.ClassName
	}
	if req.ClassID != "" && a.ClassID != "" {
		return req.ClassID == a.ClassID
	}
	// No identity left to compare on; the period and date overlap already
	// place the teacher in two places at once.
	return true
}

func (s *ConflictService) weekdayOf(tt *models.Timetable, dayID string) (int, bool) {
	if day, ok := tt.DayByID(dayID); ok {
		return day.ResolveWeekday()
	}
	return 0, false
}
