package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes used when a handler is built without WithErrorCodes, and for
// context failures regardless of the handler codes.
const (
	CodeValidationFailed = "COMMAND_VALIDATION_FAILED"
	CodeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
	CodeCanceled         = "COMMAND_CONTEXT_CANCELED"
	CodeTimeout          = "COMMAND_CONTEXT_TIMEOUT"
)

// ErrorCodes names the text codes attached to validation and execution
// failures. Empty members fall back to the defaults.
type ErrorCodes struct {
	Validation string
	Execution  string
}

var defaultErrorCodes = ErrorCodes{
	Validation: CodeValidationFailed,
	Execution:  CodeExecutionFailed,
}

func (c ErrorCodes) withDefaults() ErrorCodes {
	if c.Validation == "" {
		c.Validation = defaultErrorCodes.Validation
	}
	if c.Execution == "" {
		c.Execution = defaultErrorCodes.Execution
	}
	return c
}

func wrapValidationError(err error, codes ErrorCodes) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(codes.Validation)
}

// wrapCommandError tags err unless an inner layer already did.
func wrapCommandError(err error, message, code string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return wrapCommandError(err, "command deadline exceeded", CodeTimeout)
	}
	return wrapCommandError(err, "command canceled", CodeCanceled)
}

func wrapExecuteError(err error, codes ErrorCodes) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return wrapCommandError(err, "command execution failed", codes.Execution)
}
