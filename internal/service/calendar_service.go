package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

const defaultMaxRangeDays = 62

// CalendarService expands date ranges over the Sunday–Thursday working week.
// Every date-sensitive computation in the engine consumes this expansion
// rather than re-deriving weekday arithmetic.
type CalendarService struct {
	maxRangeDays int
	logger       *zap.Logger
}

// NewCalendarService constructs the service. maxRangeDays caps the inclusive
// span of an expansion; zero selects the default.
func NewCalendarService(maxRangeDays int, logger *zap.Logger) *CalendarService {
	if maxRangeDays <= 0 {
		maxRangeDays = defaultMaxRangeDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{maxRangeDays: maxRangeDays, logger: logger}
}

// Expand returns every working-week calendar date in [start, end] inclusive,
// strictly ascending, each date at most once, weekday always in 0..4.
// Range violations are validation errors raised before iteration starts.
func (s *CalendarService) Expand(start, end time.Time) ([]models.SchoolDay, error) {
	start = dateOnly(start)
	end = dateOnly(end)

	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrDateRange, "end date is before start date")
	}
	if span := int(end.Sub(start).Hours()/24) + 1; span > s.maxRangeDays {
		return nil, appErrors.Clone(appErrors.ErrDateRange, "date range exceeds the allowed span")
	}

	var days []models.SchoolDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		weekday := int(d.Weekday())
		if weekday >= models.WorkingWeekDays {
			continue
		}
		days = append(days, models.SchoolDay{
			Date:        d,
			Weekday:     weekday,
			WeekdayName: models.WeekdayName(weekday),
		})
	}
	return days, nil
}

// WeekdayColumns collapses an expansion to its distinct weekday identities,
// one column per weekday with no date. Used when one substitute covers every
// occurrence across the whole range.
func (s *CalendarService) WeekdayColumns(days []models.SchoolDay) []dto.ScheduleColumn {
	seen := make(map[int]bool)
	var cols []dto.ScheduleColumn
	for _, d := range days {
		if seen[d.Weekday] {
			continue
		}
		seen[d.Weekday] = true
		cols = append(cols, dto.ScheduleColumn{Weekday: d.Weekday, WeekdayName: d.WeekdayName})
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Weekday < cols[j].Weekday })
	return cols
}

// DateColumns keeps every expanded date as its own chronological column.
// Used when different substitutes may cover different occurrences.
func (s *CalendarService) DateColumns(days []models.SchoolDay) []dto.ScheduleColumn {
	cols := make([]dto.ScheduleColumn, 0, len(days))
	for _, d := range days {
		date := d.Date
		cols = append(cols, dto.ScheduleColumn{Weekday: d.Weekday, WeekdayName: d.WeekdayName, Date: &date})
	}
	return cols
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateWithin(d, start, end time.Time) bool {
	d = dateOnly(d)
	return !d.Before(dateOnly(start)) && !d.After(dateOnly(end))
}

func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !dateOnly(aStart).After(dateOnly(bEnd)) && !dateOnly(bStart).After(dateOnly(aEnd))
}
