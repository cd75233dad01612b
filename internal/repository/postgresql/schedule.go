package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

// List implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) List(ctx context.Context) ([]schedule.Schedule, error) {
	return r.load(ctx, "TRUE")
}

// GetByWeek implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByWeek(ctx context.Context, week int) (schedule.Schedule, error) {
	schedules, err := r.load(ctx, "s.week = $1", week)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if len(schedules) == 0 {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return schedules[0], nil
}

// load reads week headers, day labels and assignments for every schedule matching cond.
// Assignments come back in insertion order so buckets keep their append order.
func (r *scheduleRepositoryImpl) load(ctx context.Context, cond string, args ...interface{}) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT s.id, s.week, s.created_at, s.updated_at
		FROM schedules s
		WHERE `+cond+`
		ORDER BY s.week`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	schedules := make([]schedule.Schedule, 0)
	byID := make(map[string]int)
	for rows.Next() {
		s := schedule.NewSchedule(0)
		if err := rows.Scan(&s.ID, &s.Week, &s.CreatedAt, &s.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		byID[s.ID] = len(schedules)
		schedules = append(schedules, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return schedules, nil
	}

	rows, err = q.Query(ctx, `
		SELECT d.schedule_id, d.day_index, d.date_label
		FROM schedule_days d
		JOIN schedules s ON s.id = d.schedule_id
		WHERE `+cond, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule days: %w", err)
	}
	for rows.Next() {
		var (
			scheduleID string
			dayIndex   int
			label      string
		)
		if err := rows.Scan(&scheduleID, &dayIndex, &label); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		if i, ok := byID[scheduleID]; ok && dayIndex >= 0 && dayIndex < schedule.DaysPerWeek {
			schedules[i].Days[dayIndex].Date = label
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, `
		SELECT a.schedule_id, a.day_index, a.shift, a.employee_code
		FROM schedule_assignments a
		JOIN schedules s ON s.id = a.schedule_id
		WHERE `+cond+`
		ORDER BY a.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			scheduleID string
			dayIndex   int
			shift      string
			ref        string
		)
		if err := rows.Scan(&scheduleID, &dayIndex, &shift, &ref); err != nil {
			return nil, fmt.Errorf("failed to scan schedule assignment: %w", err)
		}
		if i, ok := byID[scheduleID]; ok && dayIndex >= 0 && dayIndex < schedule.DaysPerWeek {
			schedules[i].Days[dayIndex].Shifts.Add(schedule.Shift(shift), ref)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to generate schedule id: %w", err)
	}

	err = WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		_, err := q.Exec(txCtx, `INSERT INTO schedules (id, week) VALUES ($1, $2)`, id.String(), s.Week)
		if err != nil {
			if isUniqueViolation(err, "schedules_week_key") {
				return schedule.ErrScheduleWeekExists
			}
			return fmt.Errorf("failed to insert schedule: %w", err)
		}

		batch := &pgx.Batch{}
		for i, d := range s.Days {
			batch.Queue(`INSERT INTO schedule_days (schedule_id, day_index, date_label) VALUES ($1, $2, $3)`,
				id.String(), i, d.Date)
		}
		for i, d := range s.Days {
			for _, shift := range schedule.Shifts {
				for _, ref := range d.Shifts.Get(shift) {
					batch.Queue(`
						INSERT INTO schedule_assignments (schedule_id, day_index, shift, employee_code)
						VALUES ($1, $2, $3, $4)
						ON CONFLICT DO NOTHING`,
						id.String(), i, string(shift), ref)
				}
			}
		}

		tx, _ := database.TxFromContext(txCtx)
		results := tx.SendBatch(txCtx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert schedule days: %w", err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return schedule.Schedule{}, err
	}

	return r.GetByWeek(ctx, s.Week)
}

// AppendIfAbsent implements schedule.ScheduleRepository.
// The unique bucket key makes the insert a single atomic append-if-absent.
func (r *scheduleRepositoryImpl) AppendIfAbsent(ctx context.Context, a schedule.Assignment) (bool, error) {
	if a.DayIndex < 0 || a.DayIndex >= schedule.DaysPerWeek {
		return false, schedule.ErrUnknownDay
	}
	if !a.Shift.Valid() {
		return false, schedule.ErrInvalidShift
	}

	q := GetQuerier(ctx, r.db)

	query := `
		WITH target AS (
			SELECT id FROM schedules WHERE week = $1
		), ins AS (
			INSERT INTO schedule_assignments (schedule_id, day_index, shift, employee_code)
			SELECT id, $2, $3, $4 FROM target
			ON CONFLICT DO NOTHING
			RETURNING schedule_id
		)
		UPDATE schedules SET updated_at = NOW()
		WHERE id IN (SELECT schedule_id FROM ins)
		RETURNING id`

	var id string
	err := q.QueryRow(ctx, query, a.Week, a.DayIndex, string(a.Shift), a.EmployeeRef).Scan(&id)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to append assignment: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schedules WHERE week = $1)`, a.Week).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check schedule: %w", err)
	}
	if !exists {
		return false, schedule.ErrScheduleNotFound
	}
	return false, nil
}
