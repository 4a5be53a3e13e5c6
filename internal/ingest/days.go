package ingest

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/madaris-ops-api/internal/models"
)

// Day identity comes out of export files in three decreasing-fidelity forms:
// explicit day elements, individual single-bit day definitions, and combined
// comma-separated definitions. Each resolver is tried in order; the chain
// always terminates in the configured synthesized week, so day resolution
// never fails the import.

type dayResolver func(doc *xmlNode) []models.Day

func (p *Parser) resolveDays(doc *xmlNode) []models.Day {
	resolvers := []dayResolver{
		p.daysFromElements,
		p.daysFromIndividualDefs,
		p.daysFromCombinedDefs,
	}
	for _, resolve := range resolvers {
		if days := resolve(doc); len(days) > 0 {
			return days
		}
	}
	return p.synthesizedWeek()
}

// daysFromElements reads explicit <day> elements carrying an id.
func (p *Parser) daysFromElements(doc *xmlNode) []models.Day {
	var days []models.Day
	for _, n := range doc.collect("day") {
		id := n.attr("id", "dayid", "day")
		if id == "" {
			continue
		}
		name := n.attr("name", "dayname")
		short := n.attr("short", "shortname")
		weekday := -1
		if idx, ok := models.WeekdayFromName(name); ok {
			weekday = idx
		} else if idx, ok := models.WeekdayFromName(short); ok {
			weekday = idx
		}
		days = append(days, models.Day{
			ID:        id,
			Name:      name,
			ShortName: short,
			Weekday:   weekday,
			Source:    models.DaySourceElement,
		})
	}
	return days
}

// daysFromIndividualDefs decodes day definitions whose pattern is a 5-bit
// string with exactly one set bit. These carry unambiguous per-day identity
// and win over combined definitions. Duplicate weekday indices keep the
// first-seen definition.
func (p *Parser) daysFromIndividualDefs(doc *xmlNode) []models.Day {
	var days []models.Day
	seen := make(map[int]bool)
	for _, n := range doc.collect("daysdef") {
		pattern := n.attr("days", "pattern")
		idx, ok := singleBitIndex(pattern)
		if !ok || len(pattern) != models.WorkingWeekDays {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		days = append(days, models.Day{
			ID:        firstNonEmpty(n.attr("id"), pattern),
			Name:      firstNonEmpty(n.attr("name"), models.WeekdayName(idx)),
			ShortName: firstNonEmpty(n.attr("short", "shortname"), models.WeekdayName(idx)),
			Weekday:   idx,
			Source:    models.DaySourceIndividual,
		})
	}
	sortDaysByWeekday(days)
	return days
}

// daysFromCombinedDefs decodes comma-separated multi-pattern definitions.
// Identity here is positional only, so this is a fallback.
func (p *Parser) daysFromCombinedDefs(doc *xmlNode) []models.Day {
	var days []models.Day
	seen := make(map[int]bool)
	for _, n := range doc.collect("daysdef") {
		raw := n.attr("days", "pattern")
		if !strings.Contains(raw, ",") {
			continue
		}
		for _, pattern := range strings.Split(raw, ",") {
			pattern = strings.TrimSpace(pattern)
			idx, ok := singleBitIndex(pattern)
			if !ok || seen[idx] {
				continue
			}
			seen[idx] = true
			days = append(days, models.Day{
				ID:        pattern,
				Name:      p.fallbackDayName(idx),
				ShortName: p.fallbackDayName(idx),
				Weekday:   idx,
				Source:    models.DaySourceCombined,
			})
		}
	}
	sortDaysByWeekday(days)
	return days
}

// synthesizedWeek is the last-resort week used when nothing parsed. Kept
// distinguishable through the Source marker.
func (p *Parser) synthesizedWeek() []models.Day {
	days := make([]models.Day, 0, len(p.fallbackDayNames))
	for i, name := range p.fallbackDayNames {
		days = append(days, models.Day{
			ID:        strconv.Itoa(i + 1),
			Name:      name,
			ShortName: name,
			Weekday:   i,
			Source:    models.DaySourceSynthesized,
		})
	}
	return days
}

func (p *Parser) fallbackDayName(idx int) string {
	if idx >= 0 && idx < len(p.fallbackDayNames) {
		return p.fallbackDayNames[idx]
	}
	return models.WeekdayName(idx)
}

// singleBitIndex returns the index of the only set bit in a 5-bit or 7-bit
// day pattern. Index 0 is Sunday.
func singleBitIndex(pattern string) (int, bool) {
	if len(pattern) != 5 && len(pattern) != 7 {
		return 0, false
	}
	idx := -1
	for i, c := range pattern {
		switch c {
		case '1':
			if idx >= 0 {
				return 0, false
			}
			idx = i
		case '0':
		default:
			return 0, false
		}
	}
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

func sortDaysByWeekday(days []models.Day) {
	sort.SliceStable(days, func(i, j int) bool { return days[i].Weekday < days[j].Weekday })
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
