package schedule

import "context"

type ScheduleRepository interface {
	List(ctx context.Context) ([]Schedule, error)
	GetByWeek(ctx context.Context, week int) (Schedule, error)
	// Create stores the week with all its days and initial assignments.
	Create(ctx context.Context, s Schedule) (Schedule, error)
	// AppendIfAbsent atomically adds the reference to the bucket.
	// It returns false when the reference was already present.
	AppendIfAbsent(ctx context.Context, a Assignment) (bool, error)
}
