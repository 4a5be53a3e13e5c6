package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type timetableProvider interface {
	Get(ctx context.Context, id string) (*models.Timetable, error)
}

// ScheduleService is the read-only lookup surface over a normalized
// timetable. Derived sets are recomputed on demand from the slot list, never
// stored.
type ScheduleService struct {
	timetables timetableProvider
	collator   *collate.Collator
	logger     *zap.Logger
}

// NewScheduleService constructs the lookup service.
func NewScheduleService(timetables timetableProvider, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		timetables: timetables,
		collator:   collate.New(language.Arabic),
		logger:     logger,
	}
}

// SlotForClass returns the slot for an exact (class, day, period) match. When
// parsers emitted duplicates the first match wins.
func (s *ScheduleService) SlotForClass(ctx context.Context, timetableID, classID, dayID, periodID string) (*models.ScheduleSlot, error) {
	tt, err := s.timetables.Get(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	for i := range tt.Slots {
		slot := tt.Slots[i]
		if slot.ClassID == classID && slot.DayID == dayID && slot.Period == periodID {
			return &slot, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no slot for class at this day and period")
}

// SlotsForTeacher returns a teacher's slots, optionally narrowed to one
// subject.
func (s *ScheduleService) SlotsForTeacher(ctx context.Context, timetableID, teacherID, subjectID string) ([]models.ScheduleSlot, error) {
	tt, err := s.timetables.Get(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	var out []models.ScheduleSlot
	for _, slot := range tt.Slots {
		if slot.TeacherID != teacherID {
			continue
		}
		if subjectID != "" && slot.SubjectID != subjectID {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// SubjectsForTeacher returns the distinct subjects a teacher teaches, sorted
// by localized name.
func (s *ScheduleService) SubjectsForTeacher(ctx context.Context, timetableID, teacherID string) ([]models.Subject, error) {
	tt, err := s.timetables.Get(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var subjects []models.Subject
	for _, slot := range tt.Slots {
		if slot.TeacherID != teacherID || slot.SubjectID == "" || seen[slot.SubjectID] {
			continue
		}
		seen[slot.SubjectID] = true
		if subject, ok := tt.SubjectByID(slot.SubjectID); ok {
			subjects = append(subjects, subject)
		}
	}
	sort.SliceStable(subjects, func(i, j int) bool {
		return s.collator.CompareString(subjects[i].Name, subjects[j].Name) < 0
	})
	return subjects, nil
}

// TeachersForSubject returns the distinct teachers teaching a subject, sorted
// by localized name.
func (s *ScheduleService) TeachersForSubject(ctx context.Context, timetableID, subjectID string) ([]models.Teacher, error) {
	tt, err := s.timetables.Get(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var teachers []models.Teacher
	for _, slot := range tt.Slots {
		if slot.SubjectID != subjectID || slot.TeacherID == "" || seen[slot.TeacherID] {
			continue
		}
		seen[slot.TeacherID] = true
		if teacher, ok := tt.TeacherByID(slot.TeacherID); ok {
			teachers = append(teachers, teacher)
		}
	}
	sort.SliceStable(teachers, func(i, j int) bool {
		return s.collator.CompareString(teachers[i].Name, teachers[j].Name) < 0
	})
	return teachers, nil
}
