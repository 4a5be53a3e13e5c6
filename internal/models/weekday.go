package models

import "strings"

// Working week runs Sunday (0) through Thursday (4).
const WorkingWeekDays = 5

var weekdayNames = [7]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

var weekdayByName = map[string]int{
	"الأحد":     0,
	"الأثنين":   1,
	"الاثنين":   1,
	"الإثنين":   1,
	"الثلاثاء":  2,
	"الأربعاء":  3,
	"الاربعاء":  3,
	"الخميس":    4,
	"الجمعة":    5,
	"السبت":     6,
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sun":       0,
	"mon":       1,
	"tue":       2,
	"wed":       3,
	"thu":       4,
	"fri":       5,
	"sat":       6,
}

// WeekdayName returns the localized name for a 0=Sunday weekday index.
func WeekdayName(i int) string {
	if i < 0 || i >= len(weekdayNames) {
		return ""
	}
	return weekdayNames[i]
}

// WeekdayFromName resolves a day display name to its 0=Sunday index. Two
// differently-parsed timetables may use different Day ids for the same
// physical day, so day identity comparisons go through names, not ids.
func WeekdayFromName(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if idx, ok := weekdayByName[key]; ok {
		return idx, true
	}
	return 0, false
}

// ResolveWeekday resolves a Day to its weekday index, preferring the name
// table and falling back to the index derived at parse time.
func (d Day) ResolveWeekday() (int, bool) {
	if idx, ok := WeekdayFromName(d.Name); ok {
		return idx, true
	}
	if idx, ok := WeekdayFromName(d.ShortName); ok {
		return idx, true
	}
	if d.Weekday >= 0 && d.Weekday < len(weekdayNames) {
		return d.Weekday, true
	}
	return 0, false
}
