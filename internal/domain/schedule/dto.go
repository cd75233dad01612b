package schedule

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/validator"
)

type DayDTO struct {
	Date   string  `json:"date"`
	Shifts Buckets `json:"shifts"`
}

type ScheduleResponse struct {
	ID        string   `json:"id"`
	Week      int      `json:"week"`
	Days      []DayDTO `json:"days"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// DayLabels returns the date label of every day in order.
func (r ScheduleResponse) DayLabels() []string {
	labels := make([]string, len(r.Days))
	for i, d := range r.Days {
		labels[i] = d.Date
	}
	return labels
}

// Clone returns a deep copy safe to mutate.
func (r ScheduleResponse) Clone() ScheduleResponse {
	out := r
	out.Days = make([]DayDTO, len(r.Days))
	for i, d := range r.Days {
		out.Days[i] = DayDTO{Date: d.Date, Shifts: d.Shifts.Clone()}
	}
	return out
}

// CreateScheduleRequest creates a week document. Days are matched by position; missing days get their weekday name.
type CreateScheduleRequest struct {
	Week int      `json:"week"`
	Days []DayDTO `json:"days"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Week <= 0 {
		errs.Add("week", ErrInvalidWeek.Error())
	}
	if len(r.Days) > DaysPerWeek {
		errs.Add("days", fmt.Sprintf("a week has at most %d days", DaysPerWeek))
	}

	// Days the caller leaves out keep their weekday name, so those labels are taken too.
	supplied := min(len(r.Days), DaysPerWeek)
	seen := make(map[string]int, DaysPerWeek)
	for i := supplied; i < DaysPerWeek; i++ {
		seen[WeekdayNames[i]] = i
	}
	for i, d := range r.Days[:supplied] {
		field := fmt.Sprintf("days[%d]", i)
		label := strings.TrimSpace(d.Date)
		if label == "" {
			errs.Add(field+".date", "date is required")
		} else if prev, dup := seen[label]; dup {
			errs.Add(field+".date", fmt.Sprintf("date duplicates days[%d]", prev))
		} else {
			seen[label] = i
		}
		for _, shift := range Shifts {
			for _, ref := range d.Shifts.Get(shift) {
				if validator.IsEmpty(ref) {
					errs.Add(fmt.Sprintf("%s.shifts.%s", field, shift), "employee code must not be empty")
				}
			}
		}
	}

	return errs.OrNil()
}

// ToSchedule builds the 7-day week, deduplicating every bucket.
func (r CreateScheduleRequest) ToSchedule() Schedule {
	s := NewSchedule(r.Week)
	for i, d := range r.Days {
		if i >= DaysPerWeek {
			break
		}
		if label := strings.TrimSpace(d.Date); label != "" {
			s.Days[i].Date = label
		}
		for _, shift := range Shifts {
			for _, ref := range d.Shifts.Get(shift) {
				s.Days[i].Shifts.Add(shift, strings.TrimSpace(ref))
			}
		}
	}
	return s
}

// AssignEmployeeRequest is the wire shape of PUT /api/schedule/update.
type AssignEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
	Day        string `json:"day"`
	Shift      string `json:"shift"`
	Week       int    `json:"week"`
}

func (r *AssignEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Day = strings.TrimSpace(r.Day)

	if r.EmployeeID == "" {
		errs.Add("employeeId", "employeeId is required")
	}
	if r.Day == "" {
		errs.Add("day", "day is required")
	}
	if !validator.IsInSlice(r.Shift, ShiftValues) {
		errs.Add("shift", ErrInvalidShift.Error())
	}
	if r.Week <= 0 {
		errs.Add("week", ErrInvalidWeek.Error())
	}

	return errs.OrNil()
}

type AssignEmployeeResponse struct {
	Week       int    `json:"week"`
	Day        string `json:"day"`
	DayIndex   int    `json:"dayIndex"`
	Shift      string `json:"shift"`
	EmployeeID string `json:"employeeId"`
}

// AssignmentEvent is published to week subscribers after a successful assignment.
type AssignmentEvent struct {
	Week       int    `json:"week"`
	Day        string `json:"day"`
	DayIndex   int    `json:"dayIndex"`
	Shift      string `json:"shift"`
	EmployeeID string `json:"employeeId"`
}

const EventAssignment = "assignment"

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
