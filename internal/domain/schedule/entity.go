package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DaysPerWeek is the fixed number of day entries in every week document.
const DaysPerWeek = 7

// WeekdayNames are the default day labels, index 0 is Monday.
var WeekdayNames = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

type Shift string

const (
	ShiftCa1 Shift = "Ca1"
	ShiftCa2 Shift = "Ca2"
	ShiftCa3 Shift = "Ca3"
)

var Shifts = []Shift{ShiftCa1, ShiftCa2, ShiftCa3}

var ShiftValues = []string{
	string(ShiftCa1),
	string(ShiftCa2),
	string(ShiftCa3),
}

func (s Shift) Valid() bool {
	switch s {
	case ShiftCa1, ShiftCa2, ShiftCa3:
		return true
	}
	return false
}

// Schedule is a week document keyed by Week.
type Schedule struct {
	ID        string
	Week      int
	Days      [DaysPerWeek]Day
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Day struct {
	Date   string
	Shifts Buckets
}

// Buckets holds the employee codes assigned to each shift of a day. A code appears at most once per bucket.
type Buckets struct {
	Ca1 []string `json:"Ca1"`
	Ca2 []string `json:"Ca2"`
	Ca3 []string `json:"Ca3"`
}

func (b *Buckets) slot(shift Shift) *[]string {
	switch shift {
	case ShiftCa1:
		return &b.Ca1
	case ShiftCa2:
		return &b.Ca2
	case ShiftCa3:
		return &b.Ca3
	}
	return nil
}

// Get returns the codes in a bucket.
func (b Buckets) Get(shift Shift) []string {
	if s := b.slot(shift); s != nil {
		return *s
	}
	return nil
}

func (b Buckets) Contains(shift Shift, employeeRef string) bool {
	for _, ref := range b.Get(shift) {
		if ref == employeeRef {
			return true
		}
	}
	return false
}

// Add appends employeeRef unless already present and reports whether it changed the bucket.
func (b *Buckets) Add(shift Shift, employeeRef string) bool {
	s := b.slot(shift)
	if s == nil || b.Contains(shift, employeeRef) {
		return false
	}
	*s = append(*s, employeeRef)
	return true
}

// Clone returns a deep copy with non-nil slices.
func (b Buckets) Clone() Buckets {
	return Buckets{
		Ca1: append(make([]string, 0, len(b.Ca1)), b.Ca1...),
		Ca2: append(make([]string, 0, len(b.Ca2)), b.Ca2...),
		Ca3: append(make([]string, 0, len(b.Ca3)), b.Ca3...),
	}
}

// NewSchedule returns an empty week with every day labelled by its weekday name.
func NewSchedule(week int) Schedule {
	s := Schedule{Week: week}
	for i := range s.Days {
		s.Days[i] = Day{Date: WeekdayNames[i], Shifts: Buckets{}.Clone()}
	}
	return s
}

func (s Schedule) DayLabels() []string {
	labels := make([]string, DaysPerWeek)
	for i, d := range s.Days {
		labels[i] = d.Date
	}
	return labels
}

// ResolveDay maps a day reference onto an index of s.Days.
func (s Schedule) ResolveDay(day string) (int, error) {
	return ResolveDayIndex(s.DayLabels(), day)
}

// ResolveDayIndex matches day against the stored labels, exactly and then case-insensitively.
// A weekday name not used as a label falls back to its fixed index, unless that day is labelled
// with another weekday name.
func ResolveDayIndex(labels []string, day string) (int, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return 0, ErrUnknownDay
	}
	if len(labels) > DaysPerWeek {
		labels = labels[:DaysPerWeek]
	}
	for i, label := range labels {
		if label == day {
			return i, nil
		}
	}
	for i, label := range labels {
		if strings.EqualFold(label, day) {
			return i, nil
		}
	}
	for i, name := range WeekdayNames {
		if !strings.EqualFold(name, day) {
			continue
		}
		if i < len(labels) && !isWeekdayName(labels[i]) {
			return i, nil
		}
		break
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDay, day)
}

func isWeekdayName(label string) bool {
	for _, name := range WeekdayNames {
		if strings.EqualFold(name, strings.TrimSpace(label)) {
			return true
		}
	}
	return false
}

// Assignment places one employee reference in one bucket of a week.
type Assignment struct {
	Week        int
	DayIndex    int
	Shift       Shift
	EmployeeRef string
}

// CurrentWeek returns the ISO week number of t.
func CurrentWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
