package schedule

import (
	"bytes"
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/schedify-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (*scheduleServiceImpl, employee.EmployeeRepository) {
	t.Helper()
	employees := memory.NewEmployeeRepository()
	svc := NewScheduleService(memory.NewScheduleRepository(), employees, sse.NewHub(), nil).(*scheduleServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC) }
	return svc, employees
}

func TestEnsureWeek(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.EnsureWeek(ctx, 3)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureWeek(ctx, 3)
	require.NoError(t, err)
	assert.False(t, created)

	current, err := svc.GetCurrentSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, current.Week)
	require.Len(t, current.Days, schedule.DaysPerWeek)
	assert.Equal(t, "Monday", current.Days[0].Date)

	_, err = svc.EnsureWeek(ctx, 0)
	assert.ErrorIs(t, err, schedule.ErrInvalidWeek)
}

func TestCreateSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.CreateSchedule(ctx, schedule.CreateScheduleRequest{
		Week: 2,
		Days: []schedule.DayDTO{{Date: "08/01/2024", Shifts: schedule.Buckets{Ca2: []string{"E0001"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "08/01/2024", res.Days[0].Date)
	assert.Equal(t, []string{"E0001"}, res.Days[0].Shifts.Ca2)

	_, err = svc.CreateSchedule(ctx, schedule.CreateScheduleRequest{Week: 2})
	assert.ErrorIs(t, err, schedule.ErrScheduleWeekExists)

	_, err = svc.GetSchedule(ctx, 99)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	list, err := svc.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssignEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.EnsureWeek(ctx, 3)
	require.NoError(t, err)

	res, err := svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "monday", Shift: "Ca1", Week: 3})
	require.NoError(t, err)
	assert.Equal(t, "Monday", res.Day)
	assert.Equal(t, 0, res.DayIndex)

	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "Monday", Shift: "Ca1", Week: 3})
	assert.ErrorIs(t, err, schedule.ErrDuplicateAssignment)

	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "Monday", Shift: "Ca2", Week: 3})
	require.NoError(t, err)

	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "Funday", Shift: "Ca1", Week: 3})
	assert.ErrorIs(t, err, schedule.ErrUnknownDay)

	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "Monday", Shift: "Ca1", Week: 4})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	got, err := svc.GetSchedule(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"E0001"}, got.Days[0].Shifts.Ca1)
	assert.Equal(t, []string{"E0001"}, got.Days[0].Shifts.Ca2)
	require.Len(t, got.Days, schedule.DaysPerWeek)
}

func TestAssignEmployee_ResolvesDayByLabel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateSchedule(ctx, schedule.CreateScheduleRequest{
		Week: 3,
		Days: []schedule.DayDTO{{Date: "Sunday"}, {Date: "Monday"}},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	_, err = svc.GetSchedule(ctx, 3)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	_, err = svc.CreateSchedule(ctx, schedule.CreateScheduleRequest{
		Week: 3,
		Days: []schedule.DayDTO{
			{Date: "Sunday"}, {Date: "Monday"}, {Date: "Tuesday"}, {Date: "Wednesday"},
			{Date: "Thursday"}, {Date: "Friday"}, {Date: "Saturday"},
		},
	})
	require.NoError(t, err)

	res, err := svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "Tuesday", Shift: "Ca1", Week: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DayIndex)
	assert.Equal(t, "Tuesday", res.Day)

	got, err := svc.GetSchedule(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Monday", got.Days[1].Date)
	assert.Empty(t, got.Days[1].Shifts.Ca1)
	assert.Equal(t, []string{"E0001"}, got.Days[2].Shifts.Ca1)
}

func TestAssignEmployee_ConcurrentSameCell(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.EnsureWeek(ctx, 3)
	require.NoError(t, err)

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dups      int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0007", Day: "Friday", Shift: "Ca3", Week: 3})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, schedule.ErrDuplicateAssignment) {
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, dups)
}

func TestSubscribe_ReceivesAssignmentEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, _ := newTestService(t)
	_, err := svc.EnsureWeek(ctx, 3)
	require.NoError(t, err)

	events, cleanup := svc.Subscribe(ctx, 3)
	defer cleanup()

	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0002", Day: "Tuesday", Shift: "Ca2", Week: 3})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, schedule.EventAssignment, ev.Event)
		payload, ok := ev.Data.(schedule.AssignmentEvent)
		require.True(t, ok)
		assert.Equal(t, "E0002", payload.EmployeeID)
		assert.Equal(t, 1, payload.DayIndex)
	case <-time.After(time.Second):
		t.Fatal("no assignment event received")
	}
}

func TestSubscribe_CleanupWithoutCancel(t *testing.T) {
	svc, _ := newTestService(t)
	topic := weekTopic(3)
	baseline := runtime.NumGoroutine()

	events, cleanup := svc.Subscribe(context.Background(), 3)
	assert.Equal(t, 1, svc.hub.SubscriberCount(topic))

	cleanup()
	cleanup()

	_, open := <-events
	assert.False(t, open)
	assert.Zero(t, svc.hub.SubscriberCount(topic))
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, time.Second, 10*time.Millisecond)
}

func TestExportSchedule(t *testing.T) {
	ctx := context.Background()
	svc, employees := newTestService(t)
	_, err := employees.Create(ctx, employee.Employee{EmployeeCode: "E0001", Name: "Ann", Gender: employee.Female, Level: employee.Level1})
	require.NoError(t, err)
	_, err = svc.EnsureWeek(ctx, 3)
	require.NoError(t, err)
	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0001", Day: "Monday", Shift: "Ca1", Week: 3})
	require.NoError(t, err)
	_, err = svc.AssignEmployee(ctx, schedule.AssignEmployeeRequest{EmployeeID: "E0404", Day: "Monday", Shift: "Ca1", Week: 3})
	require.NoError(t, err)

	file, err := svc.ExportSchedule(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "schedule_week_03.xlsx", file.Filename)
	assert.Equal(t, xlsxContentType, file.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	header, err := book.GetCellValue("Week 3", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Monday", header)

	cell, err := book.GetCellValue("Week 3", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Ann (E0001)\nE0404", cell)

	shift, err := book.GetCellValue("Week 3", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Ca3", shift)

	title, err := book.GetCellValue("Week 3", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Shift schedule - week 3", title)

	styleID, err := book.GetCellStyle("Week 3", "H6")
	require.NoError(t, err)
	assert.NotZero(t, styleID)

	width, err := book.GetColWidth("Week 3", "C")
	require.NoError(t, err)
	assert.Equal(t, 22.0, width)

	_, err = svc.ExportSchedule(ctx, 9)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}
