package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
)

// ScheduleJobs contains week-schedule maintenance jobs
type ScheduleJobs struct {
	scheduleService schedule.ScheduleService
	now             func() time.Time
}

// NewScheduleJobs creates schedule cron jobs
func NewScheduleJobs(scheduleService schedule.ScheduleService) *ScheduleJobs {
	return &ScheduleJobs{
		scheduleService: scheduleService,
		now:             time.Now,
	}
}

// RegisterJobs registers all schedule-related cron jobs
func (j *ScheduleJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("ensure_current_week", interval, j.EnsureCurrentWeek)
}

// EnsureCurrentWeek creates an empty document for the current ISO week when none exists
func (j *ScheduleJobs) EnsureCurrentWeek(ctx context.Context) error {
	week := schedule.CurrentWeek(j.now())
	created, err := j.scheduleService.EnsureWeek(ctx, week)
	if err != nil {
		return err
	}
	if created {
		slog.InfoContext(ctx, "Created schedule for current week", "week", week)
	}
	return nil
}
