package scheduleclient

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
)

var ErrEmptyEmployeeRef = errors.New("employee reference is required")

// PendingChange is one staged assignment not yet confirmed by the server.
type PendingChange struct {
	EmployeeRef string
	Day         string
	Shift       schedule.Shift
	Week        int
}

func (c PendingChange) request() schedule.AssignEmployeeRequest {
	return schedule.AssignEmployeeRequest{
		EmployeeID: c.EmployeeRef,
		Day:        c.Day,
		Shift:      string(c.Shift),
		Week:       c.Week,
	}
}

func (c PendingChange) normalized() PendingChange {
	c.EmployeeRef = strings.TrimSpace(c.EmployeeRef)
	c.Day = strings.TrimSpace(c.Day)
	return c
}

// Contains reports whether the change's employee already sits in the target cell of view.
func Contains(view schedule.ScheduleResponse, change PendingChange) (bool, error) {
	change = change.normalized()
	idx, err := schedule.ResolveDayIndex(view.DayLabels(), change.Day)
	if err != nil {
		return false, err
	}
	if idx >= len(view.Days) {
		return false, schedule.ErrUnknownDay
	}
	return view.Days[idx].Shifts.Contains(change.Shift, change.EmployeeRef), nil
}

// ApplyChange returns a copy of view with the change applied. view is left untouched.
// Applying a change already present returns schedule.ErrDuplicateAssignment.
func ApplyChange(view schedule.ScheduleResponse, change PendingChange) (schedule.ScheduleResponse, error) {
	change = change.normalized()
	if !change.Shift.Valid() {
		return view, schedule.ErrInvalidShift
	}
	if change.EmployeeRef == "" {
		return view, ErrEmptyEmployeeRef
	}
	idx, err := schedule.ResolveDayIndex(view.DayLabels(), change.Day)
	if err != nil {
		return view, err
	}
	if idx >= len(view.Days) {
		return view, schedule.ErrUnknownDay
	}

	next := view.Clone()
	if !next.Days[idx].Shifts.Add(change.Shift, change.EmployeeRef) {
		return view, schedule.ErrDuplicateAssignment
	}
	return next, nil
}
