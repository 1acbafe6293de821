package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minwook-byun/recpool/internal/store"
)

// ErrStorageUnavailable is returned (wrapped) when the store cannot be
// reached or written. The attempt can be retried; nothing was stored.
var ErrStorageUnavailable = store.ErrStorageUnavailable

// ErrorCode categorizes rejections.
type ErrorCode string

const (
	// ErrCodeEmptyName indicates the name normalizes to the empty key.
	ErrCodeEmptyName ErrorCode = "EMPTY_NAME"

	// ErrCodeValidation indicates one or more required fields are missing or invalid.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeHistorical indicates the company took part in a past cycle.
	ErrCodeHistorical ErrorCode = "REJECTED_HISTORICAL"

	// ErrCodeDuplicate indicates the company is already recommended.
	ErrCodeDuplicate ErrorCode = "REJECTED_DUPLICATE"
)

// Field names used in FieldError.
const (
	FieldContactPerson   = "contact_person"
	FieldContactEmail    = "contact_email"
	FieldContactPhone    = "contact_phone"
	FieldSector          = "sector"
	FieldSectorDetail    = "sector_detail"
	FieldInvestmentStage = "investment_stage"
	FieldReason          = "reason"
)

// Problems reported in FieldError.
const (
	ProblemRequired      = "required"
	ProblemUnknownOption = "unknown_option"
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// RejectionError is a recoverable refusal of a submission. It carries enough
// structured data for a caller to render a specific message.
type RejectionError struct {
	// Code identifies the rejection category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Cycle and DisplayName are set for ErrCodeHistorical.
	Cycle       string
	DisplayName string

	// ExistingName is the stored company name for ErrCodeDuplicate.
	ExistingName string

	// Fields lists every invalid field for ErrCodeValidation.
	Fields []FieldError
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			names[i] = f.Field + " " + f.Problem
		}
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(names, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is(err, store.ErrDuplicateKey) match duplicate rejections.
func (e *RejectionError) Unwrap() error {
	if e.Code == ErrCodeDuplicate {
		return store.ErrDuplicateKey
	}
	return nil
}

// NewEmptyNameError creates a rejection for a name with no usable key.
func NewEmptyNameError() *RejectionError {
	return &RejectionError{
		Code:    ErrCodeEmptyName,
		Message: "company name is empty",
	}
}

// NewValidationError creates a rejection listing every invalid field.
func NewValidationError(fields []FieldError) *RejectionError {
	return &RejectionError{
		Code:    ErrCodeValidation,
		Message: "submission has invalid fields",
		Fields:  fields,
	}
}

// NewHistoricalError creates a rejection for a past participant.
func NewHistoricalError(cycle, displayName string) *RejectionError {
	return &RejectionError{
		Code:        ErrCodeHistorical,
		Message:     fmt.Sprintf("%s took part in cycle %s", displayName, cycle),
		Cycle:       cycle,
		DisplayName: displayName,
	}
}

// NewDuplicateError creates a rejection for an already recommended company.
func NewDuplicateError(existingName string) *RejectionError {
	return &RejectionError{
		Code:         ErrCodeDuplicate,
		Message:      fmt.Sprintf("already recommended as %s", existingName),
		ExistingName: existingName,
	}
}

// CodeOf returns the rejection code of err, or "" if err is not a rejection.
func CodeOf(err error) ErrorCode {
	var re *RejectionError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsEmptyName returns true if err is an empty-name rejection.
func IsEmptyName(err error) bool {
	return CodeOf(err) == ErrCodeEmptyName
}

// IsValidation returns true if err is a validation rejection.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

// IsHistorical returns true if err is a historical-participant rejection.
func IsHistorical(err error) bool {
	return CodeOf(err) == ErrCodeHistorical
}

// IsDuplicate returns true if err is a duplicate rejection.
func IsDuplicate(err error) bool {
	return CodeOf(err) == ErrCodeDuplicate
}

// IsStorageUnavailable returns true if err comes from an unreachable store.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
