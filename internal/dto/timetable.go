package dto

// ImportTimetableResponse summarises one accepted import.
type ImportTimetableResponse struct {
	TimetableID string `json:"timetable_id"`
	Days        int    `json:"days"`
	Periods     int    `json:"periods"`
	Subjects    int    `json:"subjects"`
	Teachers    int    `json:"teachers"`
	Classrooms  int    `json:"classrooms"`
	Classes     int    `json:"classes"`
	Slots       int    `json:"slots"`
}
