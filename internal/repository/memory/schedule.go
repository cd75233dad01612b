package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/google/uuid"
)

// scheduleRepositoryImpl keeps week documents in process memory, keyed by week.
type scheduleRepositoryImpl struct {
	mu        sync.RWMutex
	schedules map[int]schedule.Schedule
	now       func() time.Time
}

func NewScheduleRepository() schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{
		schedules: make(map[int]schedule.Schedule),
		now:       time.Now,
	}
}

func cloneSchedule(s schedule.Schedule) schedule.Schedule {
	out := s
	for i, d := range s.Days {
		out.Days[i] = schedule.Day{Date: d.Date, Shifts: d.Shifts.Clone()}
	}
	return out
}

// List implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) List(ctx context.Context) ([]schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]schedule.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		result = append(result, cloneSchedule(s))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Week < result[j].Week
	})
	return result, nil
}

// GetByWeek implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByWeek(ctx context.Context, week int) (schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[week]
	if !ok {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return cloneSchedule(s), nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schedules[s.Week]; exists {
		return schedule.Schedule{}, schedule.ErrScheduleWeekExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return schedule.Schedule{}, err
	}
	now := r.now()
	s = cloneSchedule(s)
	s.ID = id.String()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.schedules[s.Week] = s
	return cloneSchedule(s), nil
}

// AppendIfAbsent implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) AppendIfAbsent(ctx context.Context, a schedule.Assignment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[a.Week]
	if !ok {
		return false, schedule.ErrScheduleNotFound
	}
	if a.DayIndex < 0 || a.DayIndex >= schedule.DaysPerWeek {
		return false, schedule.ErrUnknownDay
	}
	if !a.Shift.Valid() {
		return false, schedule.ErrInvalidShift
	}
	if !s.Days[a.DayIndex].Shifts.Add(a.Shift, a.EmployeeRef) {
		return false, nil
	}
	s.UpdatedAt = r.now()
	r.schedules[a.Week] = s
	return true, nil
}
