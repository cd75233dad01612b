package schedule

import (
	"context"

	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/sse"
)

type ScheduleService interface {
	// Week documents
	ListSchedules(ctx context.Context) ([]ScheduleResponse, error)
	GetSchedule(ctx context.Context, week int) (ScheduleResponse, error)
	GetCurrentSchedule(ctx context.Context) (ScheduleResponse, error)
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	EnsureWeek(ctx context.Context, week int) (created bool, err error)

	// Assignment
	AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (AssignEmployeeResponse, error)

	// Export and live updates
	ExportSchedule(ctx context.Context, week int) (ExportFile, error)
	Subscribe(ctx context.Context, week int) (<-chan sse.Event, func())
}
