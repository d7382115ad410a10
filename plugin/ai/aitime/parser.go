package aitime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hrygo/kinsync/internal/timezone"
)

// Anchored patterns for standalone date and clock tokens.
var (
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmyDatePattern   = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	monthDatePattern = regexp.MustCompile(`(?i)^([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)

	clock12Pattern    = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?$`)
	clock24Pattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	rangeSplitPattern = regexp.MustCompile(`(?i)^\s*(.+?)\s*(?:\bto\b|-|–)\s*(.+?)\s*$`)
)

// Patterns for locating components inside free text.
var (
	isoInText   = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)
	dmyInText   = regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)
	monthInText = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	slashInText = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)

	relativeDayPattern = regexp.MustCompile(`(?i)\b(day after tomorrow|tomorrow|today|tonight)\b`)
	inDaysPattern      = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+(days?|weeks?)\b`)
	weekdayInText      = regexp.MustCompile(`(?i)\b(?:(next|this)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday|tues|thurs|thur|mon|tue|wed|thu|fri|sat|sun)\b`)

	rangeInText   = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:[ap]\.?m\.?)?)\s*(?:-|–|\bto\b|\buntil\b|\btill\b)\s*(\d{1,2}(?::\d{2})?\s*(?:[ap]\.?m\.?)?)`)
	clockInText   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\b\.?`)
	clock24InText = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	atHourPattern = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)
	noonPattern   = regexp.MustCompile(`(?i)\b(noon|midday|midnight)\b`)

	durationPattern     = regexp.MustCompile(`(?i)\bfor\s+(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)
	durationWordPattern = regexp.MustCompile(`(?i)\bfor\s+(an|one|half an)\s+hour\b`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// typicalDurations maps activity keywords to a suggested length in minutes.
// Order matters: the first keyword found wins.
var typicalDurations = []struct {
	keyword string
	minutes int
}{
	{"brunch", 90},
	{"dinner", 90},
	{"lunch", 60},
	{"breakfast", 45},
	{"coffee", 30},
	{"call", 30},
	{"dentist", 60},
	{"doctor", 60},
	{"appointment", 60},
	{"meeting", 60},
	{"practice", 90},
	{"game", 120},
	{"movie", 150},
	{"party", 180},
}

const (
	defaultDurationMins       = 60
	keywordDurationConfidence = 0.6
	defaultDurationConfidence = 0.4
)

// ParseFlexibleDate accepts "YYYY-MM-DD", "DD-MM-YYYY" and "Month D, YYYY"
// (full or three-letter month, optional comma) and returns the date as
// "YYYY-MM-DD". Dates that do not exist on the calendar are rejected.
func ParseFlexibleDate(input string) (string, bool) {
	input = strings.TrimSpace(input)

	var y, m, d int
	switch {
	case isoDatePattern.MatchString(input):
		g := isoDatePattern.FindStringSubmatch(input)
		y, m, d = atoi(g[1]), atoi(g[2]), atoi(g[3])
	case dmyDatePattern.MatchString(input):
		g := dmyDatePattern.FindStringSubmatch(input)
		d, m, y = atoi(g[1]), atoi(g[2]), atoi(g[3])
	case monthDatePattern.MatchString(input):
		g := monthDatePattern.FindStringSubmatch(input)
		month, ok := monthFromName(g[1])
		if !ok {
			return "", false
		}
		y, m, d = atoi(g[3]), int(month), atoi(g[2])
	default:
		return "", false
	}

	date, ok := calendarDate(y, m, d)
	if !ok {
		return "", false
	}
	return date.Format(time.DateOnly), true
}

// ClockRange is a validated pair of zero-padded 24-hour "HH:MM" strings.
type ClockRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseTimeRange accepts "<start> to <end>" or "<start> - <end>" where each
// side is a 12-hour ("9am", "9:30pm") or 24-hour ("09:00") token. It rejects
// unparseable sides and ranges whose start is not before the end.
func ParseTimeRange(input string) (ClockRange, bool) {
	g := rangeSplitPattern.FindStringSubmatch(input)
	if g == nil {
		return ClockRange{}, false
	}
	start, ok := ParseClockToken(g[1])
	if !ok {
		return ClockRange{}, false
	}
	end, ok := ParseClockToken(g[2])
	if !ok {
		return ClockRange{}, false
	}
	if start >= end {
		return ClockRange{}, false
	}
	return ClockRange{Start: start, End: end}, true
}

// ParseClockToken normalizes a single 12-hour or 24-hour clock token to "HH:MM".
func ParseClockToken(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if g := clock12Pattern.FindStringSubmatch(token); g != nil {
		return to24h(atoi(g[1]), atoi(g[2]), strings.ToLower(g[3]))
	}
	if g := clock24Pattern.FindStringSubmatch(token); g != nil {
		h, m := atoi(g[1]), atoi(g[2])
		if h > 23 || m > 59 {
			return "", false
		}
		return fmt.Sprintf("%02d:%02d", h, m), true
	}
	return "", false
}

// Parser resolves free text against a reference clock and timezone without
// calling out to any external service.
type Parser struct {
	timezone *time.Location
	now      func() time.Time
}

// NewParser creates a new time parser with the given timezone.
func NewParser(timezone *time.Location) *Parser {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Parser{
		timezone: timezone,
		now:      time.Now,
	}
}

// WithNow returns a parser that treats ref as the current instant.
func (p *Parser) WithNow(ref time.Time) *Parser {
	return &Parser{
		timezone: p.timezone,
		now:      func() time.Time { return ref },
	}
}

// parseState accumulates what has been found so far.
type parseState struct {
	text        string
	rest        string
	date        time.Time
	hasDate     bool
	start       string
	end         string
	durMins     int
	badRange    bool
	evidence    []string
	assumptions []string
}

func (s *parseState) consume(match string) {
	s.evidence = append(s.evidence, strings.TrimSpace(match))
	s.rest = strings.Replace(s.rest, match, " ", 1)
}

// Resolve parses text into a TimeSpec. It never fails: ambiguity is
// reported through the intent status and missing fields.
func (p *Parser) Resolve(text string) TimeSpec {
	today := timezone.StartOfDay(p.now(), p.timezone)

	st := &parseState{text: text, rest: text}
	p.detectDate(st, today)
	p.detectDuration(st)
	p.detectTime(st)

	intent := TimeIntent{
		OriginalText: text,
		Assumptions:  st.assumptions,
		Evidence:     st.evidence,
	}

	switch {
	case st.badRange:
		intent.Status = StatusPartial
		if !st.hasDate {
			intent.Missing = append(intent.Missing, MissingDate)
		}
		intent.Missing = append(intent.Missing, MissingEndTime)
	case st.hasDate && st.start != "":
		intent.Status = StatusResolved
		return TimeSpec{Intent: intent, Resolved: p.buildInterval(st, text)}
	case st.hasDate:
		intent.Status = StatusPartial
		intent.Missing = []MissingField{MissingStartTime}
	case st.start != "":
		intent.Status = StatusPartial
		intent.Missing = []MissingField{MissingDate}
	default:
		intent.Status = StatusUnresolved
		intent.Missing = []MissingField{MissingDate, MissingStartTime}
	}
	return TimeSpec{Intent: intent}
}

func (p *Parser) buildInterval(st *parseState, text string) *ResolvedInterval {
	sh, sm := splitClock(st.start)
	start := time.Date(st.date.Year(), st.date.Month(), st.date.Day(), sh, sm, 0, 0, p.timezone)

	out := &ResolvedInterval{
		StartUtc:         start.UTC(),
		Timezone:         p.timezone.String(),
		InferenceVersion: InferenceDeterministic,
	}

	switch {
	case st.end != "":
		eh, em := splitClock(st.end)
		end := time.Date(st.date.Year(), st.date.Month(), st.date.Day(), eh, em, 0, 0, p.timezone)
		out.EndUtc = end.UTC()
		out.DurationSource = DurationExplicit
		out.DurationConfidence = confidence(1)
	case st.durMins > 0:
		out.EndUtc = start.Add(time.Duration(st.durMins) * time.Minute).UTC()
		out.DurationSource = DurationExplicit
		out.DurationConfidence = confidence(1)
	default:
		mins, conf, reason := suggestDuration(text)
		out.EndUtc = start.Add(time.Duration(mins) * time.Minute).UTC()
		out.DurationSource = DurationSuggested
		out.DurationConfidence = confidence(conf)
		out.DurationReason = reason
		out.DurationAcceptance = AcceptanceAuto
	}
	return out
}

// detectDate finds the first date expression, preferring explicit formats
// over relative phrases.
func (p *Parser) detectDate(st *parseState, today time.Time) {
	for _, pattern := range []*regexp.Regexp{isoInText, dmyInText} {
		if m := pattern.FindString(st.rest); m != "" {
			if date, ok := ParseFlexibleDate(m); ok {
				st.date, _ = time.ParseInLocation(time.DateOnly, date, p.timezone)
				st.hasDate = true
				st.consume(m)
				return
			}
		}
	}

	if g := monthInText.FindStringSubmatch(st.rest); g != nil {
		month, _ := monthFromName(g[1])
		if date, ok := p.dateWithYear(st, today, g[3], int(month), atoi(g[2]), g[0]); ok {
			st.date, st.hasDate = date, true
			st.consume(g[0])
			return
		}
	}

	if g := slashInText.FindStringSubmatch(st.rest); g != nil {
		if date, ok := p.dateWithYear(st, today, g[3], atoi(g[1]), atoi(g[2]), g[0]); ok {
			st.date, st.hasDate = date, true
			st.assumptions = append(st.assumptions, fmt.Sprintf("read %q as month/day", g[0]))
			st.consume(g[0])
			return
		}
	}

	if g := relativeDayPattern.FindStringSubmatch(st.rest); g != nil {
		offset := 0
		switch strings.ToLower(g[1]) {
		case "tomorrow":
			offset = 1
		case "day after tomorrow":
			offset = 2
		case "tonight":
			st.assumptions = append(st.assumptions, "\"tonight\" means today in the evening")
		}
		st.date, st.hasDate = today.AddDate(0, 0, offset), true
		st.consume(g[0])
		return
	}

	if g := inDaysPattern.FindStringSubmatch(st.rest); g != nil {
		n := atoi(g[1])
		if strings.HasPrefix(strings.ToLower(g[2]), "week") {
			n *= 7
		}
		st.date, st.hasDate = today.AddDate(0, 0, n), true
		st.consume(g[0])
		return
	}

	if g := weekdayInText.FindStringSubmatch(st.rest); g != nil {
		target := weekdayNames[strings.ToLower(g[2])]
		diff := (int(target) - int(today.Weekday()) + 7) % 7
		if strings.EqualFold(g[1], "next") {
			if diff == 0 {
				diff = 7
			}
			st.assumptions = append(st.assumptions,
				fmt.Sprintf("read %q as the coming %s", g[0], strings.ToLower(target.String())))
		}
		st.date, st.hasDate = today.AddDate(0, 0, diff), true
		st.consume(g[0])
	}
}

// dateWithYear validates month/day and infers the year when absent: the
// current year, or the next one if the date has already passed.
func (p *Parser) dateWithYear(st *parseState, today time.Time, yearText string, month, day int, match string) (time.Time, bool) {
	if yearText != "" {
		year := atoi(yearText)
		if len(yearText) == 2 {
			year += 2000
		}
		date, ok := calendarDate(year, month, day)
		if !ok {
			return time.Time{}, false
		}
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.timezone), true
	}

	year := today.Year()
	date, ok := calendarDate(year, month, day)
	if !ok {
		return time.Time{}, false
	}
	local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.timezone)
	if local.Before(today) {
		year++
		if date, ok = calendarDate(year, month, day); !ok {
			return time.Time{}, false
		}
		local = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.timezone)
	}
	st.assumptions = append(st.assumptions, fmt.Sprintf("assumed year %d for %q", year, strings.TrimSpace(match)))
	return local, true
}

func (p *Parser) detectDuration(st *parseState) {
	if g := durationPattern.FindStringSubmatch(st.rest); g != nil {
		value, err := strconv.ParseFloat(g[1], 64)
		if err == nil && value > 0 {
			unit := strings.ToLower(g[2])
			if strings.HasPrefix(unit, "h") {
				st.durMins = int(value * 60)
			} else {
				st.durMins = int(value)
			}
			st.consume(g[0])
			return
		}
	}
	if g := durationWordPattern.FindStringSubmatch(st.rest); g != nil {
		st.durMins = 60
		if strings.EqualFold(g[1], "half an") {
			st.durMins = 30
		}
		st.consume(g[0])
	}
}

func (p *Parser) detectTime(st *parseState) {
	if g := rangeInText.FindStringSubmatch(st.rest); g != nil {
		startTok, endTok := strings.TrimSpace(g[1]), strings.TrimSpace(g[2])
		if cr, ok := ParseTimeRange(startTok + " to " + endTok); ok {
			st.start, st.end = cr.Start, cr.End
			st.consume(g[0])
			return
		}
		// "1-3pm": the start borrows the meridiem of the end.
		if mer := meridiemOf(endTok); mer != "" && meridiemOf(startTok) == "" {
			if cr, ok := ParseTimeRange(startTok + mer + " to " + endTok); ok {
				st.start, st.end = cr.Start, cr.End
				st.assumptions = append(st.assumptions, fmt.Sprintf("applied %q to both ends of %q", mer, strings.TrimSpace(g[0])))
				st.consume(g[0])
				return
			}
		}
		// A clock-like range that does not validate ("10am to 9am", "9pm-1am")
		// is left for the caller rather than read as a point time.
		if looksLikeClock(startTok) || looksLikeClock(endTok) {
			st.badRange = true
			st.assumptions = append(st.assumptions, fmt.Sprintf("could not read %q as a same-day range", strings.TrimSpace(g[0])))
			st.consume(g[0])
			return
		}
	}

	if m := clockInText.FindString(st.rest); m != "" {
		if hhmm, ok := ParseClockToken(m); ok {
			st.start = hhmm
			st.consume(m)
			return
		}
	}

	if g := clock24InText.FindStringSubmatch(st.rest); g != nil {
		st.start = fmt.Sprintf("%02d:%s", atoi(g[1]), g[2])
		st.consume(g[0])
		return
	}

	if g := noonPattern.FindStringSubmatch(st.rest); g != nil {
		st.start = "12:00"
		if strings.EqualFold(g[1], "midnight") {
			st.start = "00:00"
		}
		st.consume(g[0])
		return
	}

	if g := atHourPattern.FindStringSubmatch(st.rest); g != nil {
		hour := atoi(g[1])
		if hour < 1 || hour > 12 {
			return
		}
		// Bare 1-6 reads as afternoon and 7-11 as morning, unless the text
		// names an evening activity. 12 is noon.
		if hour <= 6 || (hour < 12 && eveningActivity(st.text)) {
			hour += 12
			st.assumptions = append(st.assumptions, fmt.Sprintf("assumed pm for %q", strings.TrimSpace(g[0])))
		} else if hour < 12 {
			st.assumptions = append(st.assumptions, fmt.Sprintf("assumed am for %q", strings.TrimSpace(g[0])))
		}
		st.start = fmt.Sprintf("%02d:00", hour)
		st.consume(g[0])
	}
}

// suggestDuration picks a duration for an open-ended start time.
func suggestDuration(text string) (int, float64, string) {
	lower := strings.ToLower(text)
	for _, td := range typicalDurations {
		if strings.Contains(lower, td.keyword) {
			return td.minutes, keywordDurationConfidence,
				fmt.Sprintf("typical length of a %s is %d minutes", td.keyword, td.minutes)
		}
	}
	return defaultDurationMins, defaultDurationConfidence,
		fmt.Sprintf("no end time given; defaulted to %d minutes", defaultDurationMins)
}

// eveningKeywords tip a bare "at N" towards the evening.
var eveningKeywords = []string{"dinner", "party", "movie", "tonight"}

func eveningActivity(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range eveningKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func looksLikeClock(token string) bool {
	return meridiemOf(token) != "" || strings.Contains(token, ":")
}

func meridiemOf(token string) string {
	lower := strings.ToLower(strings.ReplaceAll(token, ".", ""))
	switch {
	case strings.HasSuffix(lower, "am"):
		return "am"
	case strings.HasSuffix(lower, "pm"):
		return "pm"
	}
	return ""
}

func to24h(hour, minute int, meridiem string) (string, bool) {
	if hour < 1 || hour > 12 || minute > 59 {
		return "", false
	}
	switch meridiem {
	case "a":
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour != 12 {
			hour += 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// calendarDate builds a UTC date and rejects inputs that normalize to a
// different calendar day (e.g. February 30).
func calendarDate(y, m, d int) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if name == "sept" {
		return time.September, true
	}
	for i, full := range monthNames {
		if name == full || name == full[:3] {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

func splitClock(hhmm string) (int, int) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	return atoi(parts[0]), atoi(parts[1])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
