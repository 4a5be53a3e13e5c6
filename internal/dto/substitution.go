package dto

import (
	"time"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// Substitution coverage modes. All-weeks assigns one substitute to every
// weekly occurrence of a slot; per-date allows a different substitute per
// calendar occurrence.
const (
	ModeAllWeeks = "all_weeks"
	ModePerDate  = "per_date"
)

// Cell display statuses for the calculation grid.
const (
	CellRegular            = "regular"
	CellActiveSubstitution = "active_substitution"
	CellConflict           = "conflict"
)

// CalculateSubstitutionRequest asks for the coverage grid of an absence.
type CalculateSubstitutionRequest struct {
	TimetableID     string    `json:"timetable_id" validate:"required"`
	AbsentTeacherID string    `json:"absent_teacher_id" validate:"required"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
	Mode            string    `json:"mode" validate:"omitempty,oneof=all_weeks per_date"`
}

// ScheduleColumn is one column of the calculation grid: a weekday in
// all-weeks mode, a concrete date in per-date mode.
type ScheduleColumn struct {
	Weekday     int        `json:"weekday"`
	WeekdayName string     `json:"weekday_name"`
	Date        *time.Time `json:"date,omitempty"`
}

// SubstitutionCell is one (slot × column) display cell.
type SubstitutionCell struct {
	SlotID              string     `json:"slot_id"`
	DayID               string     `json:"day_id"`
	DayName             string     `json:"day_name"`
	Weekday             int        `json:"weekday"`
	PeriodID            string     `json:"period_id"`
	ClassID             string     `json:"class_id"`
	ClassName           string     `json:"class_name"`
	SubjectID           string     `json:"subject_id"`
	SubjectName         string     `json:"subject_name"`
	Date                *time.Time `json:"date,omitempty"`
	Status              string     `json:"status"`
	CoveredBy           string     `json:"covered_by,omitempty"`
	CoveringTeacherName string     `json:"covering_teacher_name,omitempty"`
}

// SubstitutionPlan is the calculated grid returned to the editing session.
type SubstitutionPlan struct {
	Mode            string             `json:"mode"`
	AbsentTeacherID string             `json:"absent_teacher_id"`
	StartDate       time.Time          `json:"start_date"`
	EndDate         time.Time          `json:"end_date"`
	Columns         []ScheduleColumn   `json:"columns"`
	Cells           []SubstitutionCell `json:"cells"`
}

// ConflictCheckRequest asks whether a candidate substitute collides with
// existing commitments. A nil Date means the assignment covers every weekday
// occurrence within the proposed range.
type ConflictCheckRequest struct {
	TimetableID           string     `json:"timetable_id" validate:"required"`
	CandidateTeacherID    string     `json:"candidate_teacher_id" validate:"required"`
	Date                  *time.Time `json:"date"`
	PeriodID              string     `json:"period_id" validate:"required"`
	DayID                 string     `json:"day_id" validate:"required"`
	SlotID                string     `json:"slot_id"`
	ClassID               string     `json:"class_id"`
	ClassName             string     `json:"class_name"`
	StartDate             time.Time  `json:"start_date" validate:"required"`
	EndDate               time.Time  `json:"end_date" validate:"required"`
	ExcludeSubstitutionID string     `json:"exclude_substitution_id"`
}

// ConflictReport carries detected conflicts; Count gates save actions.
type ConflictReport struct {
	Conflicts []models.SubstitutionConflict `json:"conflicts"`
	Count     int                           `json:"count"`
}

// AssignmentPayload is one resolved assignment in a create/update request.
type AssignmentPayload struct {
	SlotID              string     `json:"slot_id" validate:"required"`
	DayID               string     `json:"day_id" validate:"required"`
	PeriodID            string     `json:"period_id" validate:"required"`
	ClassID             string     `json:"class_id"`
	ClassName           string     `json:"class_name"`
	SubjectID           string     `json:"subject_id"`
	SubstituteTeacherID string     `json:"substitute_teacher_id"`
	AssignmentDate      *time.Time `json:"assignment_date,omitempty"`
	Reason              string     `json:"reason"`
}

// CriterionPayload is one selection criterion captured with the substitution.
type CriterionPayload struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// CreateSubstitutionRequest persists a calculated substitution.
type CreateSubstitutionRequest struct {
	AbsentTeacherID string              `json:"absent_teacher_id" validate:"required"`
	StartDate       time.Time           `json:"start_date" validate:"required"`
	EndDate         time.Time           `json:"end_date" validate:"required"`
	Criteria        []CriterionPayload  `json:"criteria" validate:"dive"`
	Assignments     []AssignmentPayload `json:"assignments" validate:"required,min=1,dive"`
}

// UpdateAssignmentsRequest replaces the assignments of a substitution.
type UpdateAssignmentsRequest struct {
	Assignments []AssignmentPayload `json:"assignments" validate:"required,min=1,dive"`
}
