package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		ErrorWithCode(w, http.StatusNotFound, CodeEmployeeNotFound, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		ErrorWithCode(w, http.StatusConflict, CodeEmployeeCodeExists, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeCodeMismatched):
		ErrorWithCode(w, http.StatusBadRequest, CodeEmployeeCodeMismatch, err.Error())
	case errors.Is(err, employee.ErrEmployeeCodeExhausted):
		ErrorWithCode(w, http.StatusConflict, CodeEmployeeCodeExhausted, err.Error())
	case errors.Is(err, employee.ErrInvalidLevel):
		ValidationError(w, map[string]string{"level": err.Error()})
	case errors.Is(err, employee.ErrInvalidEmployeeCode):
		ValidationError(w, map[string]string{"employeeCode": err.Error()})

	// Schedule domain errors
	case errors.Is(err, schedule.ErrScheduleNotFound):
		ErrorWithCode(w, http.StatusNotFound, CodeScheduleNotFound, "Schedule not found")
	case errors.Is(err, schedule.ErrScheduleWeekExists):
		ErrorWithCode(w, http.StatusConflict, CodeScheduleWeekExists, "Schedule for this week already exists")
	case errors.Is(err, schedule.ErrDuplicateAssignment):
		ErrorWithCode(w, http.StatusConflict, CodeDuplicateAssignment, "Employee already assigned to this shift")
	case errors.Is(err, schedule.ErrUnknownDay):
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    CodeUnknownDay,
				Message: err.Error(),
				Details: map[string]string{"day": schedule.ErrUnknownDay.Error()},
			},
		})
	case errors.Is(err, schedule.ErrInvalidShift):
		ValidationError(w, map[string]string{"shift": err.Error()})
	case errors.Is(err, schedule.ErrInvalidWeek):
		ValidationError(w, map[string]string{"week": err.Error()})

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
