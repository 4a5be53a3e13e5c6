package ingest

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

// Parser normalizes heterogeneous timetable exports into one canonical
// timetable. Two mutually exclusive source schemas are handled: direct slot
// elements, and lesson+card indirection with per-card day bitstrings.
type Parser struct {
	fallbackDayNames []string
	logger           *zap.Logger
}

// NewParser constructs a Parser. fallbackDayNames labels synthesized days for
// sources that carry no day information; nil selects the Sunday-first default.
func NewParser(fallbackDayNames []string, logger *zap.Logger) *Parser {
	if len(fallbackDayNames) == 0 {
		fallbackDayNames = defaultFallbackDayNames()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{fallbackDayNames: fallbackDayNames, logger: logger}
}

func defaultFallbackDayNames() []string {
	names := make([]string, models.WorkingWeekDays)
	for i := range names {
		names[i] = models.WeekdayName(i)
	}
	return names
}

// Parse repairs the raw bytes and normalizes the XML document. Periods are
// mandatory; every other entity type has an empty fallback. The whole import
// is rejected on failure, no partial timetable is produced.
func (p *Parser) Parse(raw []byte) (*models.Timetable, error) {
	doc, err := decodeDocument(RepairText(raw))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, "timetable XML could not be parsed")
	}

	periods := p.parsePeriods(doc)
	if len(periods) == 0 {
		return nil, appErrors.Clone(appErrors.ErrParse, "timetable contains no periods")
	}

	tt := &models.Timetable{
		Days:       p.resolveDays(doc),
		Periods:    periods,
		Subjects:   p.parseSubjects(doc),
		Teachers:   p.parseTeachers(doc),
		Classrooms: p.parseClassrooms(doc),
		Classes:    p.parseClasses(doc),
	}

	tt.Slots = p.parseDirectSlots(doc)
	if len(tt.Slots) == 0 {
		tt.Slots = p.parseLessonCards(doc, tt)
	}

	p.logger.Info("timetable parsed",
		zap.Int("days", len(tt.Days)),
		zap.Int("periods", len(tt.Periods)),
		zap.Int("teachers", len(tt.Teachers)),
		zap.Int("classes", len(tt.Classes)),
		zap.Int("slots", len(tt.Slots)),
	)
	return tt, nil
}

// parsePeriods extracts and orders periods. Ordering follows the integer
// encoded in the id; non-numeric ids sort as 0 and ties keep document order.
// Every grid view and the conflict date expansion reuse this ordering.
func (p *Parser) parsePeriods(doc *xmlNode) []models.Period {
	var periods []models.Period
	for _, n := range doc.collect("period") {
		id := n.attr("id", "period", "periodid")
		if id == "" {
			continue
		}
		periods = append(periods, models.Period{
			ID:        id,
			StartTime: n.attr("starttime", "start"),
			EndTime:   n.attr("endtime", "end"),
		})
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return periodOrdinal(periods[i].ID) < periodOrdinal(periods[j].ID)
	})
	return periods
}

// periodOrdinal best-effort parses the leading integer of a period id.
func periodOrdinal(id string) int {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0
	}
	return n
}

func (p *Parser) parseSubjects(doc *xmlNode) []models.Subject {
	var subjects []models.Subject
	for _, n := range doc.collect("subject") {
		id := n.attr("id", "subjectid")
		if id == "" {
			continue
		}
		subjects = append(subjects, models.Subject{
			ID:        id,
			Name:      firstNonEmpty(n.attr("name"), n.attr("short", "shortname")),
			ShortName: n.attr("short", "shortname"),
		})
	}
	return subjects
}

func (p *Parser) parseTeachers(doc *xmlNode) []models.Teacher {
	var teachers []models.Teacher
	for _, n := range doc.collect("teacher") {
		id := n.attr("id", "teacherid")
		if id == "" {
			continue
		}
		name := n.attr("name")
		if name == "" {
			name = strings.TrimSpace(n.attr("firstname") + " " + n.attr("lastname"))
		}
		teachers = append(teachers, models.Teacher{
			ID:        id,
			Name:      name,
			ShortName: n.attr("short", "shortname"),
		})
	}
	return teachers
}

func (p *Parser) parseClassrooms(doc *xmlNode) []models.Classroom {
	var rooms []models.Classroom
	for _, n := range doc.collect("classroom") {
		id := n.attr("id", "classroomid")
		if id == "" {
			continue
		}
		capacity, _ := strconv.Atoi(n.attr("capacity"))
		rooms = append(rooms, models.Classroom{
			ID:        id,
			Name:      firstNonEmpty(n.attr("name"), n.attr("short", "shortname")),
			ShortName: n.attr("short", "shortname"),
			Capacity:  capacity,
		})
	}
	return rooms
}

func (p *Parser) parseClasses(doc *xmlNode) []models.Class {
	var classes []models.Class
	for _, n := range doc.collect("class") {
		id := n.attr("id", "classid")
		if id == "" {
			continue
		}
		classes = append(classes, models.Class{
			ID:        id,
			Name:      firstNonEmpty(n.attr("name"), n.attr("short", "shortname")),
			ShortName: n.attr("short", "shortname"),
			TeacherID: n.attr("teacherid", "teacher"),
			GradeID:   n.attr("gradeid", "grade"),
		})
	}
	return classes
}

// parseDirectSlots handles the first schema: slot elements carrying day,
// period, class, teacher, subject and classroom attributes directly.
func (p *Parser) parseDirectSlots(doc *xmlNode) []models.ScheduleSlot {
	var slots []models.ScheduleSlot
	nodes := doc.collect("timetableschedule")
	if len(nodes) == 0 {
		nodes = doc.collect("schedule")
	}
	for _, n := range nodes {
		dayID := n.attr("dayid", "day")
		period := n.attr("periodid", "period")
		classID := n.attr("classid", "class")
		if dayID == "" || period == "" || classID == "" {
			continue
		}
		slots = append(slots, models.ScheduleSlot{
			ID:          uuid.NewString(),
			DayID:       dayID,
			Period:      period,
			ClassID:     classID,
			TeacherID:   n.attr("teacherid", "teacher"),
			SubjectID:   n.attr("subjectid", "subject"),
			ClassroomID: n.attr("classroomid", "classroom"),
		})
	}
	return slots
}

type lessonDef struct {
	subjectID    string
	classIDs     []string
	teacherIDs   []string
	classroomIDs []string
}

// parseLessonCards handles the second schema: a lesson declares subject and
// candidate classes/teachers, a card places one lesson at a period on the
// days named by its bitstring. One slot is emitted per class × teacher pair
// the lesson declares; a lesson may be co-taught or span class sections, so
// the cross-product is intentional.
func (p *Parser) parseLessonCards(doc *xmlNode, tt *models.Timetable) []models.ScheduleSlot {
	lessons := make(map[string]lessonDef)
	for _, n := range doc.collect("lesson") {
		id := n.attr("id", "lessonid")
		if id == "" {
			continue
		}
		lessons[id] = lessonDef{
			subjectID:    n.attr("subjectid", "subject"),
			classIDs:     splitIDList(n.attr("classids", "classid", "class")),
			teacherIDs:   splitIDList(n.attr("teacherids", "teacherid", "teacher")),
			classroomIDs: splitIDList(n.attr("classroomids", "classroomid", "classroom")),
		}
	}
	if len(lessons) == 0 {
		return nil
	}

	// Pattern lookup tables are built once from the full definition list
	// before any slot derivation starts.
	exactPattern := make(map[string]models.Day)
	memberPattern := make(map[string]models.Day)
	for _, n := range doc.collect("daysdef") {
		raw := n.attr("days", "pattern")
		if raw == "" {
			continue
		}
		def := models.Day{
			ID:        firstNonEmpty(n.attr("id"), raw),
			Name:      n.attr("name"),
			ShortName: n.attr("short", "shortname"),
			Weekday:   -1,
		}
		if idx, ok := singleBitIndex(raw); ok {
			def.Weekday = idx
		}
		if _, dup := exactPattern[raw]; !dup {
			exactPattern[raw] = def
		}
		for _, sub := range strings.Split(raw, ",") {
			sub = strings.TrimSpace(sub)
			idx, ok := singleBitIndex(sub)
			if !ok {
				continue
			}
			if _, dup := memberPattern[sub]; !dup {
				memberPattern[sub] = models.Day{
					ID:        sub,
					Name:      p.fallbackDayName(idx),
					ShortName: p.fallbackDayName(idx),
					Weekday:   idx,
					Source:    models.DaySourceCombined,
				}
			}
		}
	}

	var slots []models.ScheduleSlot
	for _, n := range doc.collect("card") {
		lesson, ok := lessons[n.attr("lessonid", "lesson")]
		if !ok {
			continue
		}
		period := n.attr("period", "periodid")
		if period == "" {
			continue
		}
		pattern := n.attr("days", "day")
		classroomID := firstID(splitIDList(n.attr("classroomids", "classroomid")))
		if classroomID == "" {
			classroomID = firstID(lesson.classroomIDs)
		}

		for _, idx := range setBits(pattern) {
			day := p.resolveCardDay(pattern, idx, exactPattern, memberPattern, tt.Days)
			for _, classID := range lesson.classIDs {
				for _, teacherID := range lesson.teacherIDs {
					slots = append(slots, models.ScheduleSlot{
						ID:          uuid.NewString(),
						DayID:       day.ID,
						Period:      period,
						ClassID:     classID,
						TeacherID:   teacherID,
						SubjectID:   lesson.subjectID,
						ClassroomID: classroomID,
					})
				}
			}
		}
	}
	return slots
}

// resolveCardDay resolves one set bit of a card's day bitstring to a day
// identity. Fallback order: exact definition pattern match, definition whose
// comma-list contains the single-bit sub-pattern, positional match against
// the parsed day list, synthesized day by position.
func (p *Parser) resolveCardDay(pattern string, idx int, exact, member map[string]models.Day, days []models.Day) models.Day {
	sub := singleBitPattern(len(pattern), idx)
	if day, ok := exact[sub]; ok {
		return day
	}
	if day, ok := member[sub]; ok {
		return day
	}
	if idx < len(days) {
		return days[idx]
	}
	return models.Day{
		ID:      strconv.Itoa(idx + 1),
		Name:    p.fallbackDayName(idx),
		Weekday: idx,
		Source:  models.DaySourceSynthesized,
	}
}

// decodeDocument parses text into a generic element tree. The charset reader
// is a pass-through: the text has already been repaired, whatever encoding
// the XML declaration still claims.
func decodeDocument(text string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	root := &xmlNode{}
	if err := dec.Decode(root); err != nil {
		return nil, err
	}
	return root, nil
}

// xmlNode holds one XML element with its attributes and children, without a
// schema. Both export schemas are walked through this representation.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
}

// collect returns every descendant element with the given local name,
// case-insensitively, in document order.
func (n *xmlNode) collect(name string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		child := &n.Children[i]
		if strings.EqualFold(child.XMLName.Local, name) {
			out = append(out, child)
		}
		out = append(out, child.collect(name)...)
	}
	return out
}

// attr returns the first non-empty value among the ordered list of accepted
// attribute names. Export files disagree on attribute naming, so every field
// is read through one alias list instead of per-call guessing.
func (n *xmlNode) attr(names ...string) string {
	for _, name := range names {
		for _, a := range n.Attrs {
			if strings.EqualFold(a.Name.Local, name) {
				if v := strings.TrimSpace(a.Value); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// setBits returns the indices of every '1' in a day bitstring.
func setBits(pattern string) []int {
	var out []int
	for i, c := range pattern {
		if c == '1' {
			out = append(out, i)
		}
	}
	return out
}

// singleBitPattern builds the bitstring of the given length with only bit idx
// set.
func singleBitPattern(length, idx int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = '0'
	}
	if idx >= 0 && idx < length {
		b[idx] = '1'
	}
	return string(b)
}
