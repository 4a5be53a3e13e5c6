package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// TimetableRepository persists normalized timetables. One import writes the
// whole timetable and deactivates the previous one; there is no incremental
// merge path.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Save stores a normalized timetable atomically and marks it active.
func (r *TimetableRepository) Save(ctx context.Context, tt *models.Timetable) error {
	if tt.ID == "" {
		tt.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "UPDATE timetables SET is_active = FALSE WHERE is_active = TRUE"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO timetables (id, is_active, created_at) VALUES ($1, TRUE, $2)",
		tt.ID, time.Now().UTC(),
	); err != nil {
		return err
	}

	for _, d := range tt.Days {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_days (timetable_id, day_id, name, short_name, weekday, source) VALUES ($1, $2, $3, $4, $5, $6)",
			tt.ID, d.ID, d.Name, d.ShortName, d.Weekday, d.Source,
		); err != nil {
			return err
		}
	}
	for _, p := range tt.Periods {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_periods (timetable_id, period_id, start_time, end_time) VALUES ($1, $2, $3, $4)",
			tt.ID, p.ID, p.StartTime, p.EndTime,
		); err != nil {
			return err
		}
	}
	for _, s := range tt.Subjects {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_subjects (timetable_id, subject_id, name, short_name) VALUES ($1, $2, $3, $4)",
			tt.ID, s.ID, s.Name, s.ShortName,
		); err != nil {
			return err
		}
	}
	for _, teacher := range tt.Teachers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_teachers (timetable_id, teacher_id, name, short_name) VALUES ($1, $2, $3, $4)",
			tt.ID, teacher.ID, teacher.Name, teacher.ShortName,
		); err != nil {
			return err
		}
	}
	for _, room := range tt.Classrooms {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_classrooms (timetable_id, classroom_id, name, short_name, capacity) VALUES ($1, $2, $3, $4, $5)",
			tt.ID, room.ID, room.Name, room.ShortName, room.Capacity,
		); err != nil {
			return err
		}
	}
	for _, class := range tt.Classes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_classes (timetable_id, class_id, name, short_name, teacher_id, grade_id) VALUES ($1, $2, $3, $4, $5, $6)",
			tt.ID, class.ID, class.Name, class.ShortName, class.TeacherID, class.GradeID,
		); err != nil {
			return err
		}
	}
	for _, slot := range tt.Slots {
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timetable_slots (timetable_id, slot_id, day_id, period_id, class_id, teacher_id, subject_id, classroom_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			tt.ID, slot.ID, slot.DayID, slot.Period, slot.ClassID, slot.TeacherID, slot.SubjectID, slot.ClassroomID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load reads back a normalized timetable with its teacher mappings.
func (r *TimetableRepository) Load(ctx context.Context, id string) (*models.Timetable, error) {
	var exists string
	if err := r.db.GetContext(ctx, &exists, "SELECT id FROM timetables WHERE id = $1", id); err != nil {
		return nil, err
	}

	tt := &models.Timetable{ID: id}

	if err := r.db.SelectContext(ctx, &tt.Days,
		"SELECT day_id, name, short_name, weekday, source FROM timetable_days WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tt.Periods,
		"SELECT period_id, start_time, end_time FROM timetable_periods WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tt.Subjects,
		"SELECT subject_id, name, short_name FROM timetable_subjects WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tt.Teachers,
		"SELECT teacher_id, name, short_name FROM timetable_teachers WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tt.Classrooms,
		"SELECT classroom_id, name, short_name, capacity FROM timetable_classrooms WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tt.Classes,
		"SELECT class_id, name, short_name, teacher_id, grade_id FROM timetable_classes WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tt.Slots,
		"SELECT slot_id, day_id, period_id, class_id, teacher_id, subject_id, classroom_id FROM timetable_slots WHERE timetable_id = $1", id); err != nil {
		return nil, err
	}

	var mappings []models.TeacherMapping
	if err := r.db.SelectContext(ctx, &mappings,
		"SELECT source_teacher_id, user_id, user_name FROM teacher_mappings"); err != nil {
		return nil, err
	}
	if len(mappings) > 0 {
		tt.Mappings = make(map[string]models.TeacherMapping, len(mappings))
		for _, m := range mappings {
			tt.Mappings[m.SourceTeacherID] = m
		}
	}

	return tt, nil
}

// FindActiveID returns the id of the currently active timetable.
func (r *TimetableRepository) FindActiveID(ctx context.Context) (string, error) {
	var id string
	err := r.db.GetContext(ctx, &id,
		"SELECT id FROM timetables WHERE is_active = TRUE ORDER BY created_at DESC LIMIT 1")
	if err != nil {
		return "", err
	}
	return id, nil
}
