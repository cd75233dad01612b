// Package scheduleclient is a Go client for the schedule API plus the
// pending-change session used by the schedule editor.
package scheduleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/validator"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the error envelope.
// It unwraps to the matching domain error so errors.Is works across the wire.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

var codeErrors = map[string]error{
	response.CodeEmployeeNotFound:      employee.ErrEmployeeNotFound,
	response.CodeEmployeeCodeExists:    employee.ErrEmployeeCodeExists,
	response.CodeEmployeeCodeMismatch:  employee.ErrEmployeeCodeMismatched,
	response.CodeEmployeeCodeExhausted: employee.ErrEmployeeCodeExhausted,
	response.CodeScheduleNotFound:      schedule.ErrScheduleNotFound,
	response.CodeScheduleWeekExists:    schedule.ErrScheduleWeekExists,
	response.CodeDuplicateAssignment:   schedule.ErrDuplicateAssignment,
	response.CodeUnknownDay:            schedule.ErrUnknownDay,
}

func (e *APIError) Unwrap() error {
	if err, ok := codeErrors[e.Code]; ok {
		return err
	}
	if e.Code == response.CodeValidation {
		fields := make([]string, 0, len(e.Details))
		for field := range e.Details {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		var errs validator.ValidationErrors
		for _, field := range fields {
			errs.Add(field, e.Details[field])
		}
		return errs.OrNil()
	}
	return nil
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Code: response.CodeInternal, Message: resp.Status}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Employee directory

func (c *Client) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	q := url.Values{}
	if filter.Gender != nil {
		q.Set("gender", *filter.Gender)
	}
	if filter.Level != nil {
		q.Set("level", strconv.Itoa(*filter.Level))
	}
	path := "/api/employees"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []employee.EmployeeResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetEmployee(ctx context.Context, employeeCode string) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	err := c.do(ctx, http.MethodGet, "/api/employees/"+url.PathEscape(employeeCode), nil, &out)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	err := c.do(ctx, http.MethodPost, "/api/employees", req, &out)
	return out, err
}

func (c *Client) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	err := c.do(ctx, http.MethodPut, "/api/employees/"+url.PathEscape(req.EmployeeCode), req, &out)
	return out, err
}

// DeleteEmployee succeeds whether or not the employee existed.
func (c *Client) DeleteEmployee(ctx context.Context, employeeCode string) error {
	return c.do(ctx, http.MethodDelete, "/api/employees/"+url.PathEscape(employeeCode), nil, nil)
}

func (c *Client) ResetPeriod(ctx context.Context) (employee.ResetPeriodResponse, error) {
	var out employee.ResetPeriodResponse
	err := c.do(ctx, http.MethodPut, "/api/employees/reset", nil, &out)
	return out, err
}

// Weekly schedule

func (c *Client) ListSchedules(ctx context.Context) ([]schedule.ScheduleResponse, error) {
	var out []schedule.ScheduleResponse
	err := c.do(ctx, http.MethodGet, "/api/schedule", nil, &out)
	return out, err
}

func (c *Client) GetSchedule(ctx context.Context, week int) (schedule.ScheduleResponse, error) {
	var out schedule.ScheduleResponse
	err := c.do(ctx, http.MethodGet, "/api/schedule/week/"+strconv.Itoa(week), nil, &out)
	return out, err
}

func (c *Client) GetCurrentSchedule(ctx context.Context) (schedule.ScheduleResponse, error) {
	var out schedule.ScheduleResponse
	err := c.do(ctx, http.MethodGet, "/api/schedule/current", nil, &out)
	return out, err
}

func (c *Client) CreateSchedule(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	var out schedule.ScheduleResponse
	err := c.do(ctx, http.MethodPost, "/api/schedule", req, &out)
	return out, err
}

// Assign places one employee in one shift. An existing assignment yields schedule.ErrDuplicateAssignment.
func (c *Client) Assign(ctx context.Context, req schedule.AssignEmployeeRequest) (schedule.AssignEmployeeResponse, error) {
	var out schedule.AssignEmployeeResponse
	err := c.do(ctx, http.MethodPut, "/api/schedule/update", req, &out)
	return out, err
}

// ExportSchedule downloads the week as an xlsx workbook.
func (c *Client) ExportSchedule(ctx context.Context, week int) ([]byte, error) {
	path := "/api/schedule/week/" + strconv.Itoa(week) + "/export"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env envelope
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		if json.NewDecoder(resp.Body).Decode(&env) == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}

	return io.ReadAll(resp.Body)
}
