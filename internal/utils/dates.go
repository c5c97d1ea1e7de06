package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the day-month-year format users type dates in.
const DateLayout = "02-01-2006"

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// Location is the academy's timezone. Falls back to a fixed UTC-3 when the
// tz database is unavailable.
var Location = func() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*60*60)
}()

func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// ParseWeekday accepts a Portuguese weekday name, ignoring case and accents
// ("terca-feira", "SÁBADO").
func ParseWeekday(name string) (time.Weekday, bool) {
	key := FoldKey(name)
	if key == "" {
		return 0, false
	}
	for i, n := range weekdayNames {
		if FoldKey(n) == key {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

func SameWeekday(a, b string) bool {
	da, ok := ParseWeekday(a)
	if !ok {
		return false
	}
	db, ok := ParseWeekday(b)
	return ok && da == db
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected DD-MM-YYYY, got %q", ErrInvalidTimeFormat, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

func IsValidHHMM(s string) bool {
	return hhmmRe.MatchString(s)
}

// HHMMToMinutes converts "HH:MM" to minutes from midnight, -1 when invalid.
func HHMMToMinutes(s string) int {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return -1
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm
}

// SameMonth reports whether t falls in the calendar month of ref.
func SameMonth(t, ref time.Time) bool {
	t, ref = t.In(Location), ref.In(Location)
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}
