package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/sse"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
	employeeRepo employee.EmployeeRepository
	hub          *sse.Hub
	logger       *slog.Logger
	now          func() time.Time
}

// NewScheduleService wires the week store. employeeRepo is only read to label exports and may be nil.
func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
	logger *slog.Logger,
) schedule.ScheduleService {
	if hub == nil {
		hub = sse.NewHub()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		hub:          hub,
		logger:       logger,
		now:          time.Now,
	}
}

func weekTopic(week int) string {
	return "week:" + strconv.Itoa(week)
}

func mapScheduleToResponse(s schedule.Schedule) schedule.ScheduleResponse {
	days := make([]schedule.DayDTO, len(s.Days))
	for i, d := range s.Days {
		days[i] = schedule.DayDTO{Date: d.Date, Shifts: d.Shifts.Clone()}
	}
	return schedule.ScheduleResponse{
		ID:        s.ID,
		Week:      s.Week,
		Days:      days,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// ListSchedules implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListSchedules(ctx context.Context) ([]schedule.ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sch := range schedules {
		responses = append(responses, mapScheduleToResponse(sch))
	}
	return responses, nil
}

// GetSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, week int) (schedule.ScheduleResponse, error) {
	if week <= 0 {
		return schedule.ScheduleResponse{}, schedule.ErrInvalidWeek
	}
	sch, err := s.scheduleRepo.GetByWeek(ctx, week)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return mapScheduleToResponse(sch), nil
}

// GetCurrentSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetCurrentSchedule(ctx context.Context) (schedule.ScheduleResponse, error) {
	return s.GetSchedule(ctx, schedule.CurrentWeek(s.now()))
}

// CreateSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateSchedule(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	created, err := s.scheduleRepo.Create(ctx, req.ToSchedule())
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	s.logger.Info("schedule created", "week", created.Week)
	return mapScheduleToResponse(created), nil
}

// EnsureWeek implements schedule.ScheduleService.
func (s *scheduleServiceImpl) EnsureWeek(ctx context.Context, week int) (bool, error) {
	if week <= 0 {
		return false, schedule.ErrInvalidWeek
	}
	if _, err := s.scheduleRepo.GetByWeek(ctx, week); err == nil {
		return false, nil
	} else if !errors.Is(err, schedule.ErrScheduleNotFound) {
		return false, err
	}

	if _, err := s.scheduleRepo.Create(ctx, schedule.NewSchedule(week)); err != nil {
		// Lost a race with another creator; the week exists either way.
		if errors.Is(err, schedule.ErrScheduleWeekExists) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("empty schedule created", "week", week)
	return true, nil
}

// AssignEmployee implements schedule.ScheduleService.
func (s *scheduleServiceImpl) AssignEmployee(ctx context.Context, req schedule.AssignEmployeeRequest) (schedule.AssignEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignEmployeeResponse{}, err
	}

	sch, err := s.scheduleRepo.GetByWeek(ctx, req.Week)
	if err != nil {
		return schedule.AssignEmployeeResponse{}, err
	}

	dayIndex, err := sch.ResolveDay(req.Day)
	if err != nil {
		return schedule.AssignEmployeeResponse{}, err
	}

	added, err := s.scheduleRepo.AppendIfAbsent(ctx, schedule.Assignment{
		Week:        req.Week,
		DayIndex:    dayIndex,
		Shift:       schedule.Shift(req.Shift),
		EmployeeRef: req.EmployeeID,
	})
	if err != nil {
		return schedule.AssignEmployeeResponse{}, err
	}
	if !added {
		return schedule.AssignEmployeeResponse{}, schedule.ErrDuplicateAssignment
	}

	response := schedule.AssignEmployeeResponse{
		Week:       req.Week,
		Day:        sch.Days[dayIndex].Date,
		DayIndex:   dayIndex,
		Shift:      req.Shift,
		EmployeeID: req.EmployeeID,
	}
	s.publishAssignment(response)

	s.logger.Info("employee assigned",
		"week", req.Week, "day", response.Day, "shift", req.Shift, "employee_code", req.EmployeeID)
	return response, nil
}

func (s *scheduleServiceImpl) publishAssignment(res schedule.AssignEmployeeResponse) {
	s.hub.Publish(weekTopic(res.Week), sse.Event{
		Event: schedule.EventAssignment,
		Data:  schedule.AssignmentEvent(res),
	})
}

// Subscribe implements schedule.ScheduleService.
// The subscription ends when ctx is done or the returned cleanup is called.
func (s *scheduleServiceImpl) Subscribe(ctx context.Context, week int) (<-chan sse.Event, func()) {
	events, unsubscribe := s.hub.Subscribe(weekTopic(week))
	done := make(chan struct{})
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			close(done)
			unsubscribe()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()
	return events, cleanup
}
