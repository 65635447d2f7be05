package contract

import "errors"

var (
	ErrModelInvoke         = errors.New("model invoke failed")
	ErrSchemaViolation     = errors.New("model response violates schema")
	ErrPromptMissing       = errors.New("required prompt is missing")
	ErrValidation          = errors.New("validation failed")
	ErrToolNotImplemented  = errors.New("tool is declared but not implemented")
	ErrMissingArguments    = errors.New("tool call is missing required arguments")
	ErrResourceUnavailable = errors.New("grocery data unavailable")
)
