package employee

import "context"

type EmployeeRepository interface {
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)
	// LastEmployeeCode returns the highest stored code, or "" when the directory is empty.
	LastEmployeeCode(ctx context.Context) (string, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	// DeleteByEmployeeCode reports whether a record was removed.
	DeleteByEmployeeCode(ctx context.Context, employeeCode string) (bool, error)
	// ResetPeriod zeroes shifts and salary for every record and returns the affected count.
	ResetPeriod(ctx context.Context) (int64, error)
}
