package employee

import (
	"strings"

	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/validator"
)

// CreateEmployeeRequest carries a new record. Salary is never read from the client.
type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employeeCode,omitempty"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	Level        *int   `json:"level"`
	Shifts       *int   `json:"shifts"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	if r.EmployeeCode != "" && !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employeeCode", "employeeCode must match E#### (e.g. E0001)")
	}
	validateRecordFields(&errs, r.Name, r.Gender, r.Level, r.Shifts, false)

	return errs.OrNil()
}

// UpdateEmployeeRequest replaces the editable fields of the employee identified by EmployeeCode.
type UpdateEmployeeRequest struct {
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	Level        *int   `json:"level"`
	Shifts       *int   `json:"shifts"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employeeCode", "employeeCode must match E#### (e.g. E0001)")
	}
	validateRecordFields(&errs, r.Name, r.Gender, r.Level, r.Shifts, true)

	return errs.OrNil()
}

func validateRecordFields(errs *validator.ValidationErrors, name, gender string, level, shifts *int, shiftsRequired bool) {
	if validator.IsEmpty(name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(gender) {
		errs.Add("gender", "gender is required")
	}
	if level == nil {
		errs.Add("level", "level is required")
	} else if !Level(*level).Valid() {
		errs.Add("level", ErrInvalidLevel.Error())
	}
	if shifts == nil {
		if shiftsRequired {
			errs.Add("shifts", "shifts is required")
		}
	} else if *shifts < 0 {
		errs.Add("shifts", ErrInvalidShiftCount.Error())
	}
}

// EmployeeFilter is an exact-match filter; nil fields match everything.
type EmployeeFilter struct {
	Gender *string `json:"gender,omitempty"`
	Level  *int    `json:"level,omitempty"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Gender != nil && validator.IsEmpty(*f.Gender) {
		f.Gender = nil
	}
	if f.Level != nil && !Level(*f.Level).Valid() {
		errs.Add("level", ErrInvalidLevel.Error())
	}

	return errs.OrNil()
}

// Matches reports whether emp passes the filter.
func (f EmployeeFilter) Matches(emp Employee) bool {
	if f.Gender != nil && string(emp.Gender) != *f.Gender {
		return false
	}
	if f.Level != nil && int(emp.Level) != *f.Level {
		return false
	}
	return true
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	Level        int    `json:"level"`
	Shifts       int    `json:"shifts"`
	Salary       int64  `json:"salary"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type ResetPeriodResponse struct {
	Affected int64 `json:"affected"`
}
