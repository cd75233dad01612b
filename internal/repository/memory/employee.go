package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

// employeeRepositoryImpl keeps employees in process memory, keyed by employee code.
type employeeRepositoryImpl struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	now       func() time.Time
}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepositoryImpl{
		employees: make(map[string]employee.Employee),
		now:       time.Now,
	}
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]employee.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		if filter.Matches(emp) {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeCode < result[j].EmployeeCode
	})
	return result, nil
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[employeeCode]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// LastEmployeeCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LastEmployeeCode(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	last := ""
	for code := range r.employees {
		if code > last {
			last = code
		}
	}
	return last, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.employees[newEmployee.EmployeeCode]; exists {
		return employee.Employee{}, employee.ErrEmployeeCodeExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, err
	}
	now := r.now()
	newEmployee.ID = id.String()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.employees[newEmployee.EmployeeCode] = newEmployee
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.employees[emp.EmployeeCode]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	existing.Name = emp.Name
	existing.Gender = emp.Gender
	existing.Level = emp.Level
	existing.Shifts = emp.Shifts
	existing.Salary = emp.Salary
	existing.UpdatedAt = r.now()
	r.employees[emp.EmployeeCode] = existing
	return existing, nil
}

// DeleteByEmployeeCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) DeleteByEmployeeCode(ctx context.Context, employeeCode string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.employees[employeeCode]
	delete(r.employees, employeeCode)
	return ok, nil
}

// ResetPeriod implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ResetPeriod(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for code, emp := range r.employees {
		emp.ResetPeriod()
		emp.UpdatedAt = now
		r.employees[code] = emp
	}
	return int64(len(r.employees)), nil
}
