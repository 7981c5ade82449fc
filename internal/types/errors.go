package types

import "errors"

// Domain specific errors for prompt building and reply validation.
var (
	ErrEmptyInput      = errors.New("required input is empty")
	ErrSchemaViolation = errors.New("model reply violates the result schema")
	ErrNoResponse      = errors.New("no response from model")
)
