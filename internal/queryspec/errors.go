package queryspec

import (
	"errors"
	"fmt"
)

// SpecError reports a structurally invalid query spec. Specs are rejected
// before execution; the engine never produces a partial result from a bad
// spec.
type SpecError struct {
	// Code identifies the error category.
	Code SpecErrorCode

	// Message is a human-readable description.
	Message string

	// Detail names the offending spec element (field, column, window).
	Detail string
}

// SpecErrorCode categorizes spec validation errors.
type SpecErrorCode string

const (
	// ErrCodeUnknownField indicates a filter, group, or aggregate field
	// not present in the dataset header.
	ErrCodeUnknownField SpecErrorCode = "UNKNOWN_FIELD"

	// ErrCodeUnknownAggregate indicates an unrecognized aggregate kind.
	ErrCodeUnknownAggregate SpecErrorCode = "UNKNOWN_AGGREGATE"

	// ErrCodeUnknownWindow indicates an unrecognized window kind.
	ErrCodeUnknownWindow SpecErrorCode = "UNKNOWN_WINDOW"

	// ErrCodeBadWindowSize indicates a rolling window size below 1.
	ErrCodeBadWindowSize SpecErrorCode = "BAD_WINDOW_SIZE"

	// ErrCodeBadOffset indicates a negative lag offset.
	ErrCodeBadOffset SpecErrorCode = "BAD_OFFSET"

	// ErrCodeBadOrderColumn indicates an order_by or window column not
	// present in the result header.
	ErrCodeBadOrderColumn SpecErrorCode = "BAD_ORDER_COLUMN"

	// ErrCodeBadDate indicates a malformed date-range bound.
	ErrCodeBadDate SpecErrorCode = "BAD_DATE"

	// ErrCodeMissingAggregateField indicates sum/avg without a field.
	ErrCodeMissingAggregateField SpecErrorCode = "MISSING_AGGREGATE_FIELD"

	// ErrCodeBadTopN indicates a negative top_n.
	ErrCodeBadTopN SpecErrorCode = "BAD_TOP_N"
)

// Error implements the error interface.
func (e *SpecError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSpecError reports whether err is a SpecError, unwrapping as needed.
func IsSpecError(err error) bool {
	var se *SpecError
	return errors.As(err, &se)
}

func newSpecError(code SpecErrorCode, message, detail string) *SpecError {
	return &SpecError{Code: code, Message: message, Detail: detail}
}
