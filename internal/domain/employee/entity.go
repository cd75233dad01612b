package employee

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/validator"
)

type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
	Gender       Gender
	Level        Level
	Shifts       int
	Salary       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Level selects the per-shift pay rate.
type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

var levelRates = map[Level]int64{
	Level1: 110000,
	Level2: 125000,
	Level3: 150000,
}

// Rate returns the pay rate for a level.
func (l Level) Rate() (int64, bool) {
	rate, ok := levelRates[l]
	return rate, ok
}

func (l Level) Valid() bool {
	return validator.IsInRange(int(l), int(Level1), int(Level3))
}

// CalculateSalary returns rate(level) * shifts. Unknown levels earn nothing.
func CalculateSalary(level Level, shifts int) int64 {
	rate, ok := level.Rate()
	if !ok || shifts <= 0 {
		return 0
	}
	return rate * int64(shifts)
}

// RecomputeSalary derives Salary from Level and Shifts.
func (e *Employee) RecomputeSalary() {
	e.Salary = CalculateSalary(e.Level, e.Shifts)
}

// ResetPeriod zeroes the accumulated shifts and the salary.
func (e *Employee) ResetPeriod() {
	e.Shifts = 0
	e.Salary = 0
}

const (
	CodePrefix = "E"
	// BaseEmployeeCode precedes the first real code, E0001.
	BaseEmployeeCode = "E0000"
	maxCodeNumber    = 9999
)

// NextEmployeeCode increments the numeric suffix of last. An empty last starts from BaseEmployeeCode.
func NextEmployeeCode(last string) (string, error) {
	if last == "" {
		last = BaseEmployeeCode
	}
	if len(last) != len(BaseEmployeeCode) || last[:1] != CodePrefix {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmployeeCode, last)
	}
	n, err := strconv.Atoi(last[1:])
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmployeeCode, last)
	}
	if n >= maxCodeNumber {
		return "", ErrEmployeeCodeExhausted
	}
	return fmt.Sprintf("%s%04d", CodePrefix, n+1), nil
}
