package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/schedify-backend-go/internal/repository/memory"
	employeeservice "github.com/cmlabs-hris/schedify-backend-go/internal/service/employee"
	scheduleservice "github.com/cmlabs-hris/schedify-backend-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

func newTestServer(t *testing.T) (*httptest.Server, schedule.ScheduleService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	employeeRepo := memory.NewEmployeeRepository()
	employeeSvc := employeeservice.NewEmployeeService(employeeRepo, logger)
	scheduleSvc := scheduleservice.NewScheduleService(memory.NewScheduleRepository(), employeeRepo, sse.NewHub(), logger)

	router := NewRouter(logger, RouterOptions{AllowedOrigins: []string{"*"}, LogLevel: slog.LevelError},
		NewEmployeeHandler(employeeSvc), NewScheduleHandler(scheduleSvc))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, scheduleSvc
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestEmployeeRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodPost, "/api/employees",
		map[string]interface{}{"name": "Ann", "gender": "Female", "level": 2, "shifts": 10})
	require.Equal(t, http.StatusCreated, status)
	var created employee.EmployeeResponse
	decodeData(t, env, &created)
	assert.Equal(t, "E0001", created.EmployeeCode)
	assert.Equal(t, int64(1250000), created.Salary)

	status, env = doJSON(t, srv, http.MethodPost, "/api/employees",
		map[string]interface{}{"employeeCode": "E0001", "name": "Dup", "gender": "Male", "level": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, response.CodeEmployeeCodeExists, env.Error.Code)

	status, env = doJSON(t, srv, http.MethodGet, "/api/employees/E0001", nil)
	require.Equal(t, http.StatusOK, status)
	var got employee.EmployeeResponse
	decodeData(t, env, &got)
	assert.Equal(t, "Ann", got.Name)

	status, env = doJSON(t, srv, http.MethodPut, "/api/employees/E0001",
		map[string]interface{}{"name": "Ann", "gender": "Female", "level": 2, "shifts": 8})
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &got)
	assert.Equal(t, int64(1000000), got.Salary)

	status, env = doJSON(t, srv, http.MethodPut, "/api/employees/E0001",
		map[string]interface{}{"employeeCode": "E0002", "name": "Ann", "gender": "Female", "level": 2, "shifts": 8})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.CodeEmployeeCodeMismatch, env.Error.Code)

	status, env = doJSON(t, srv, http.MethodGet, "/api/employees?gender=Female", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.TotalItems)

	status, env = doJSON(t, srv, http.MethodPut, "/api/employees/reset", nil)
	require.Equal(t, http.StatusOK, status)
	var reset employee.ResetPeriodResponse
	decodeData(t, env, &reset)
	assert.Equal(t, int64(1), reset.Affected)

	status, _ = doJSON(t, srv, http.MethodDelete, "/api/employees/E0001", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, srv, http.MethodDelete, "/api/employees/E0001", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, srv, http.MethodGet, "/api/employees/E0001", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.CodeEmployeeNotFound, env.Error.Code)
}

func TestEmployeeRoutes_BadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodPost, "/api/employees", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.CodeBadRequest, env.Error.Code)

	status, env = doJSON(t, srv, http.MethodPost, "/api/employees", map[string]interface{}{"name": "Ann"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, response.CodeValidation, env.Error.Code)
	assert.Contains(t, env.Error.Details, "gender")
	assert.Contains(t, env.Error.Details, "level")

	for _, level := range []string{"abc", "+2", "-1", "4"} {
		status, env = doJSON(t, srv, http.MethodGet, "/api/employees?level="+url.QueryEscape(level), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, status, level)
		assert.Contains(t, env.Error.Details, "level", level)
	}
}

func TestScheduleRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodPost, "/api/schedule", map[string]interface{}{"week": 3})
	require.Equal(t, http.StatusCreated, status)
	var week schedule.ScheduleResponse
	decodeData(t, env, &week)
	require.Len(t, week.Days, schedule.DaysPerWeek)

	status, env = doJSON(t, srv, http.MethodPost, "/api/schedule", map[string]interface{}{"week": 3})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, response.CodeScheduleWeekExists, env.Error.Code)

	assign := map[string]interface{}{"employeeId": "E0001", "day": "Monday", "shift": "Ca1", "week": 3}
	status, _ = doJSON(t, srv, http.MethodPut, "/api/schedule/update", assign)
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, srv, http.MethodPut, "/api/schedule/update", assign)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, response.CodeDuplicateAssignment, env.Error.Code)

	status, env = doJSON(t, srv, http.MethodPut, "/api/schedule/update",
		map[string]interface{}{"employeeId": "E0001", "day": "Funday", "shift": "Ca1", "week": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, response.CodeUnknownDay, env.Error.Code)

	status, env = doJSON(t, srv, http.MethodPut, "/api/schedule/update",
		map[string]interface{}{"employeeId": "E0001", "day": "Monday", "shift": "Ca1", "week": 8})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.CodeScheduleNotFound, env.Error.Code)

	status, env = doJSON(t, srv, http.MethodPut, "/api/schedule/update",
		map[string]interface{}{"employeeId": "E0001", "day": "Monday", "shift": "Ca7", "week": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Error.Details, "shift")

	status, env = doJSON(t, srv, http.MethodGet, "/api/schedule/week/3", nil)
	require.Equal(t, http.StatusOK, status)
	var stored schedule.ScheduleResponse
	decodeData(t, env, &stored)
	assert.Equal(t, []string{"E0001"}, stored.Days[0].Shifts.Ca1)
	assert.Equal(t, []string{}, stored.Days[0].Shifts.Ca2)

	status, _ = doJSON(t, srv, http.MethodGet, "/api/schedule/week/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = doJSON(t, srv, http.MethodGet, "/api/schedule", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), env.Meta.TotalItems)
}

func TestScheduleExportRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	status, _ := doJSON(t, srv, http.MethodPost, "/api/schedule", map[string]interface{}{"week": 5})
	require.Equal(t, http.StatusCreated, status)

	resp, err := srv.Client().Get(srv.URL + "/api/schedule/week/5/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "schedule_week_05.xlsx")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))
}

func TestScheduleEventsRoute(t *testing.T) {
	srv, svc := newTestServer(t)
	_, err := svc.EnsureWeek(context.Background(), 3)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/schedule/week/3/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: connected", lines.Text())

	status, _ := doJSON(t, srv, http.MethodPut, "/api/schedule/update",
		map[string]interface{}{"employeeId": "E0003", "day": "Tuesday", "shift": "Ca2", "week": 3})
	require.Equal(t, http.StatusOK, status)

	for lines.Scan() {
		if lines.Text() == "event: "+schedule.EventAssignment {
			require.True(t, lines.Scan())
			assert.Contains(t, lines.Text(), `"employeeId":"E0003"`)
			return
		}
	}
	t.Fatal("assignment event not received")
}

func TestHeartbeat(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
