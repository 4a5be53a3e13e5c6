package models

// DaySource records which resolver produced a Day during parsing.
type DaySource string

const (
	DaySourceElement     DaySource = "ELEMENT"
	DaySourceIndividual  DaySource = "INDIVIDUAL_DEF"
	DaySourceCombined    DaySource = "COMBINED_DEF"
	DaySourceSynthesized DaySource = "SYNTHESIZED"
)

// Day is one working day of the school week. ID is the identifier used by the
// source export file, not a weekday number; Weekday carries the 0=Sunday index
// when it could be derived from a day pattern.
type Day struct {
	ID        string    `db:"day_id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ShortName string    `db:"short_name" json:"short_name"`
	Weekday   int       `db:"weekday" json:"weekday"`
	Source    DaySource `db:"source" json:"source"`
}

// Period is one lesson period of the day, ordered by the integer encoded in
// its ID.
type Period struct {
	ID        string `db:"period_id" json:"id"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// Subject is a taught subject.
type Subject struct {
	ID        string `db:"subject_id" json:"id"`
	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"short_name"`
}

// Teacher is a teacher identity as declared by the source export. It is
// distinct from an application user account; TeacherMapping links the two.
type Teacher struct {
	ID        string `db:"teacher_id" json:"id"`
	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"short_name"`
}

// Classroom is a physical room.
type Classroom struct {
	ID        string `db:"classroom_id" json:"id"`
	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"short_name"`
	Capacity  int    `db:"capacity" json:"capacity"`
}

// Class is a class section.
type Class struct {
	ID        string `db:"class_id" json:"id"`
	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"short_name"`
	TeacherID string `db:"teacher_id" json:"teacher_id,omitempty"`
	GradeID   string `db:"grade_id" json:"grade_id,omitempty"`
}

// ScheduleSlot is one weekly-recurring lesson occurrence. Parsers may emit
// duplicate slots for co-taught lessons; views deduplicate, the model does
// not.
type ScheduleSlot struct {
	ID          string `db:"slot_id" json:"id"`
	DayID       string `db:"day_id" json:"day_id"`
	Period      string `db:"period_id" json:"period"`
	ClassID     string `db:"class_id" json:"class_id"`
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	SubjectID   string `db:"subject_id" json:"subject_id"`
	ClassroomID string `db:"classroom_id" json:"classroom_id,omitempty"`
}

// Timetable is the normalized result of one import. A new import replaces the
// previously active timetable wholesale.
type Timetable struct {
	ID         string         `json:"id"`
	Days       []Day          `json:"days"`
	Periods    []Period       `json:"periods"`
	Subjects   []Subject      `json:"subjects"`
	Teachers   []Teacher      `json:"teachers"`
	Classrooms []Classroom    `json:"classrooms"`
	Classes    []Class        `json:"classes"`
	Slots      []ScheduleSlot `json:"slots"`

	// Mappings is populated on load, keyed by source teacher id.
	Mappings map[string]TeacherMapping `json:"mappings,omitempty"`
}

// DayByID returns the parsed day with the given source identifier.
func (t *Timetable) DayByID(id string) (Day, bool) {
	for _, d := range t.Days {
		if d.ID == id {
			return d, true
		}
	}
	return Day{}, false
}

// SubjectByID returns the subject with the given identifier.
func (t *Timetable) SubjectByID(id string) (Subject, bool) {
	for _, s := range t.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// ClassByID returns the class with the given identifier.
func (t *Timetable) ClassByID(id string) (Class, bool) {
	for _, c := range t.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return Class{}, false
}

// TeacherByID returns the teacher with the given source identifier.
func (t *Timetable) TeacherByID(id string) (Teacher, bool) {
	for _, tr := range t.Teachers {
		if tr.ID == id {
			return tr, true
		}
	}
	return Teacher{}, false
}

// TeacherMapping links a source teacher id to an application user account.
type TeacherMapping struct {
	SourceTeacherID string `db:"source_teacher_id" json:"source_teacher_id"`
	UserID          string `db:"user_id" json:"user_id"`
	UserName        string `db:"user_name" json:"user_name"`
}
