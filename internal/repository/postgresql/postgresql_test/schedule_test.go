package postgresql_test

import (
	"context"
	"sync"
	"testing"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewScheduleRepository(setup.DB)

	s := schedule.NewSchedule(3)
	s.Days[0].Date = "15/01/2024"
	s.Days[0].Shifts.Add(schedule.ShiftCa1, "E0002")
	s.Days[0].Shifts.Add(schedule.ShiftCa1, "E0001")

	created, err := repo.Create(ctx, s)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "15/01/2024", created.Days[0].Date)
	assert.Equal(t, []string{"E0002", "E0001"}, created.Days[0].Shifts.Ca1)
	assert.Equal(t, "Sunday", created.Days[6].Date)
	assert.Empty(t, created.Days[6].Shifts.Ca3)

	_, err = repo.Create(ctx, schedule.NewSchedule(3))
	assert.ErrorIs(t, err, schedule.ErrScheduleWeekExists)

	_, err = repo.GetByWeek(ctx, 4)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	_, err = repo.Create(ctx, schedule.NewSchedule(1))
	require.NoError(t, err)
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Week)
	assert.Equal(t, 3, all[1].Week)
}

func TestScheduleRepository_AppendIfAbsent(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewScheduleRepository(setup.DB)

	_, err := repo.Create(ctx, schedule.NewSchedule(3))
	require.NoError(t, err)

	a := schedule.Assignment{Week: 3, DayIndex: 0, Shift: schedule.ShiftCa1, EmployeeRef: "E0001"}
	added, err := repo.AppendIfAbsent(ctx, a)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AppendIfAbsent(ctx, a)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.AppendIfAbsent(ctx, schedule.Assignment{Week: 9, DayIndex: 0, Shift: schedule.ShiftCa1, EmployeeRef: "E0001"})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	_, err = repo.AppendIfAbsent(ctx, schedule.Assignment{Week: 3, DayIndex: 7, Shift: schedule.ShiftCa1, EmployeeRef: "E0001"})
	assert.ErrorIs(t, err, schedule.ErrUnknownDay)

	got, err := repo.GetByWeek(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"E0001"}, got.Days[0].Shifts.Ca1)
}

func TestScheduleRepository_ConcurrentAppendsAreNotLost(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewScheduleRepository(setup.DB)

	_, err := repo.Create(ctx, schedule.NewSchedule(5))
	require.NoError(t, err)

	refs := []string{"E0001", "E0002", "E0003", "E0004", "E0005", "E0006", "E0007", "E0008"}
	var wg sync.WaitGroup
	for _, ref := range refs {
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			_, err := repo.AppendIfAbsent(ctx, schedule.Assignment{Week: 5, DayIndex: 2, Shift: schedule.ShiftCa2, EmployeeRef: ref})
			assert.NoError(t, err)
		}(ref)
	}
	wg.Wait()

	got, err := repo.GetByWeek(ctx, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, refs, got.Days[2].Shifts.Ca2)
}
