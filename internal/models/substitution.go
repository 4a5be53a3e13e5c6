package models

import "time"

// Substitution is one absence episode for a teacher over a date range.
type Substitution struct {
	ID              string    `db:"id" json:"id"`
	AbsentTeacherID string    `db:"absent_teacher_id" json:"absent_teacher_id"`
	StartDate       time.Time `db:"start_date" json:"start_date"`
	EndDate         time.Time `db:"end_date" json:"end_date"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	Criteria    []SubstitutionCriterion `json:"criteria,omitempty"`
	Assignments []Assignment            `json:"assignments,omitempty"`
}

// SubstitutionCriterion records one selection criterion used when the
// substitution was calculated (kept for auditability of the candidate list).
type SubstitutionCriterion struct {
	ID             string `db:"id" json:"id"`
	SubstitutionID string `db:"substitution_id" json:"substitution_id"`
	Name           string `db:"name" json:"name"`
	Value          string `db:"value" json:"value"`
}

// Assignment resolves one schedule slot (optionally pinned to a single
// calendar date) to a substitute teacher within a substitution. A nil
// AssignmentDate means the assignment covers every occurrence of the slot's
// weekday inside the substitution's date range.
type Assignment struct {
	ID                  string     `db:"id" json:"id"`
	SubstitutionID      string     `db:"substitution_id" json:"substitution_id"`
	SlotID              string     `db:"slot_id" json:"slot_id"`
	DayID               string     `db:"day_id" json:"day_id"`
	PeriodID            string     `db:"period_id" json:"period_id"`
	ClassID             string     `db:"class_id" json:"class_id"`
	ClassName           string     `db:"class_name" json:"class_name"`
	SubjectID           string     `db:"subject_id" json:"subject_id"`
	SubstituteTeacherID string     `db:"substitute_teacher_id" json:"substitute_teacher_id"`
	AssignmentDate      *time.Time `db:"assignment_date" json:"assignment_date,omitempty"`
	Reason              string     `db:"reason" json:"reason"`
}

// ActiveAssignment is an assignment enriched with its parent substitution's
// range and absent-teacher context, as returned by the active-substitution
// listing for a teacher.
type ActiveAssignment struct {
	Assignment
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	AbsentTeacherName string    `db:"absent_teacher_name" json:"absent_teacher_name"`
}

// Conflict types reported by the detector.
const (
	ConflictRegularSchedule = "regular_schedule"
	ConflictSubstitution    = "substitution"
)

// SubstitutionConflict is one detected collision for a candidate substitute.
type SubstitutionConflict struct {
	Type              string     `json:"type"`
	Date              *time.Time `json:"date,omitempty"`
	PeriodID          string     `json:"period_id"`
	ClassName         string     `json:"class_name"`
	SubjectName       string     `json:"subject_name,omitempty"`
	AbsentTeacherName string     `json:"absent_teacher_name,omitempty"`
	Message           string     `json:"message"`
}

// SchoolDay is one concrete calendar date produced by expanding a range over
// the Sunday–Thursday working week.
type SchoolDay struct {
	Date        time.Time `json:"date"`
	Weekday     int       `json:"weekday"`
	WeekdayName string    `json:"weekday_name"`
}

// Assignment draft states for the calculate-then-save editing workflow.
type AssignmentState string

const (
	AssignmentUnassigned        AssignmentState = "UNASSIGNED"
	AssignmentCandidateSelected AssignmentState = "CANDIDATE_SELECTED"
	AssignmentChecked           AssignmentState = "CONFLICT_CHECKED"
	AssignmentSaved             AssignmentState = "SAVED"
)
