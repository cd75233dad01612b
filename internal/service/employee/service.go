package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
)

// maxCodeAttempts bounds retries when a concurrent create takes the derived code first.
const maxCodeAttempts = 3

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	logger       *slog.Logger
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, logger *slog.Logger) employee.EmployeeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:           emp.ID,
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.Name,
		Gender:       string(emp.Gender),
		Level:        int(emp.Level),
		Shifts:       emp.Shifts,
		Salary:       emp.Salary,
		CreatedAt:    emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    emp.UpdatedAt.Format(time.RFC3339),
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, employeeCode string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		EmployeeCode: req.EmployeeCode,
		Name:         req.Name,
		Gender:       employee.Gender(req.Gender),
		Level:        employee.Level(*req.Level),
	}
	if req.Shifts != nil {
		newEmployee.Shifts = *req.Shifts
	}
	newEmployee.RecomputeSalary()

	if req.EmployeeCode != "" {
		created, err := s.employeeRepo.Create(ctx, newEmployee)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		s.logger.Info("employee created", "employee_code", created.EmployeeCode)
		return mapEmployeeToResponse(created), nil
	}

	for attempt := 1; ; attempt++ {
		last, err := s.employeeRepo.LastEmployeeCode(ctx)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to derive employee code: %w", err)
		}
		code, err := employee.NextEmployeeCode(last)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		newEmployee.EmployeeCode = code

		created, err := s.employeeRepo.Create(ctx, newEmployee)
		if err == nil {
			s.logger.Info("employee created", "employee_code", created.EmployeeCode, "derived", true)
			return mapEmployeeToResponse(created), nil
		}
		if !errors.Is(err, employee.ErrEmployeeCodeExists) || attempt >= maxCodeAttempts {
			return employee.EmployeeResponse{}, err
		}
		s.logger.Warn("derived employee code taken, retrying", "employee_code", code, "attempt", attempt)
	}
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp := employee.Employee{
		EmployeeCode: req.EmployeeCode,
		Name:         req.Name,
		Gender:       employee.Gender(req.Gender),
		Level:        employee.Level(*req.Level),
		Shifts:       *req.Shifts,
	}
	emp.RecomputeSalary()

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, employeeCode string) error {
	deleted, err := s.employeeRepo.DeleteByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.Debug("delete of unknown employee ignored", "employee_code", employeeCode)
	}
	return nil
}

// ResetPeriod implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetPeriod(ctx context.Context) (employee.ResetPeriodResponse, error) {
	affected, err := s.employeeRepo.ResetPeriod(ctx)
	if err != nil {
		return employee.ResetPeriodResponse{}, fmt.Errorf("failed to reset period: %w", err)
	}
	s.logger.Info("pay period reset", "affected", affected)
	return employee.ResetPeriodResponse{Affected: affected}, nil
}
