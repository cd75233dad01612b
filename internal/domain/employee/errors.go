package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeCodeExists     = errors.New("employee code already exists")
	ErrInvalidEmployeeCode    = errors.New("invalid employee code format")
	ErrEmployeeCodeExhausted  = errors.New("no employee codes left in the E#### range")
	ErrInvalidLevel           = errors.New("level must be 1, 2 or 3")
	ErrInvalidShiftCount      = errors.New("shifts must not be negative")
	ErrEmployeeCodeMismatched = errors.New("employee code in body does not match the path")
)
