// Package errors defines the coded errors shared by the engine, the CLI and
// the HTTP API.
//
// Three codes are recoverable: the engine repairs the problem itself and
// only reports a warning.
//
//   - STRUCTURAL: a cycle or a dangling parent, repaired by re-rooting
//   - RECONCILIATION_FAILURE: a canvas node without a parent edge, kept as a root
//   - INVALID_PRESET_INDEX: a preset index out of range, wrapped modulo length
//
// Every other code is returned to the caller and leaves engine state
// untouched.
//
//	err := errors.New(errors.ErrCodeNotFound, "node %q does not exist", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
	"iter"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeStructural         Code = "STRUCTURAL"
	ErrCodeReconciliation     Code = "RECONCILIATION_FAILURE"
	ErrCodeInvalidPresetIndex Code = "INVALID_PRESET_INDEX"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeLoading       Code = "LOADING"
	ErrCodeStorage       Code = "STORAGE"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a coded error. Node names the offending node, if any.
type Error struct {
	Code    Code
	Message string
	Node    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Structural returns a STRUCTURAL error about nodeID.
func Structural(nodeID, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeStructural,
		Message: fmt.Sprintf("node %q: %s", nodeID, fmt.Sprintf(format, args...)),
		Node:    nodeID,
	}
}

// chain yields every *Error in err's chain, outermost first.
func chain(err error) iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		var e *Error
		for err != nil && errors.As(err, &e) {
			if !yield(e) {
				return
			}
			err = e.Cause
		}
	}
}

// Is reports whether any coded error in err's chain has code.
func Is(err error, code Code) bool {
	for e := range chain(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	for e := range chain(err) {
		return e.Code
	}
	return ""
}

// UserMessage is the outermost message without the code prefix. Uncoded
// errors are returned as-is.
func UserMessage(err error) string {
	for e := range chain(err) {
		return e.Message
	}
	return err.Error()
}

// IsRecoverable reports whether the outermost code is one the engine
// repairs locally.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeStructural, ErrCodeReconciliation, ErrCodeInvalidPresetIndex:
		return true
	}
	return false
}
