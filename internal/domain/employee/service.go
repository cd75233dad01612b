package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees returns every employee matching the optional filter
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by code
	GetEmployee(ctx context.Context, employeeCode string) (EmployeeResponse, error)

	// CreateEmployee creates a new employee, deriving the code when the request has none
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee replaces the editable fields and recomputes the salary
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee; deleting a missing code succeeds
	DeleteEmployee(ctx context.Context, employeeCode string) error

	// ResetPeriod zeroes shifts and salary for all employees
	ResetPeriod(ctx context.Context) (ResetPeriodResponse, error)
}
