package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/database"
)

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id UUID PRIMARY KEY,
    employee_code VARCHAR(16) NOT NULL,
    name TEXT NOT NULL,
    gender VARCHAR(32) NOT NULL,
    level SMALLINT NOT NULL CHECK (level BETWEEN 1 AND 3),
    shifts INTEGER NOT NULL DEFAULT 0 CHECK (shifts >= 0),
    salary BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT employees_employee_code_key UNIQUE (employee_code)
);
`

const createSchedulesTable = `
CREATE TABLE IF NOT EXISTS schedules (
    id UUID PRIMARY KEY,
    week INTEGER NOT NULL CHECK (week > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT schedules_week_key UNIQUE (week)
);
`

const createScheduleDaysTable = `
CREATE TABLE IF NOT EXISTS schedule_days (
    schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    day_index SMALLINT NOT NULL CHECK (day_index BETWEEN 0 AND 6),
    date_label TEXT NOT NULL,
    PRIMARY KEY (schedule_id, day_index)
);
`

const createScheduleAssignmentsTable = `
CREATE TABLE IF NOT EXISTS schedule_assignments (
    id BIGSERIAL PRIMARY KEY,
    schedule_id UUID NOT NULL,
    day_index SMALLINT NOT NULL,
    shift VARCHAR(3) NOT NULL CHECK (shift IN ('Ca1', 'Ca2', 'Ca3')),
    employee_code TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    FOREIGN KEY (schedule_id, day_index) REFERENCES schedule_days(schedule_id, day_index) ON DELETE CASCADE,
    CONSTRAINT schedule_assignments_bucket_key UNIQUE (schedule_id, day_index, shift, employee_code)
);
`

var migrations = []string{
	createEmployeesTable,
	createSchedulesTable,
	createScheduleDaysTable,
	createScheduleAssignmentsTable,
}

// Migrate creates the tables the repositories rely on. It is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, db)
		for i, stmt := range migrations {
			if _, err := q.Exec(txCtx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i+1, err)
			}
		}
		return nil
	})
}
