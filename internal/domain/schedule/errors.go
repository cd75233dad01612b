package schedule

import "errors"

var (
	// Week document errors
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrScheduleWeekExists = errors.New("schedule for this week already exists")

	// Assignment errors
	ErrDuplicateAssignment = errors.New("employee already assigned to this shift")
	ErrUnknownDay          = errors.New("day does not match any day of the week")
	ErrInvalidShift        = errors.New("shift must be one of Ca1, Ca2, Ca3")
	ErrInvalidWeek         = errors.New("week must be a positive number")
)
