package entity

import "errors"

// Validation errors reported by FormField and FormConfig construction. They
// are fatal to the construction call and wrap the offending value where one
// exists, so callers can match with errors.Is and still read the detail.
var (
	ErrEmptySelector       = errors.New("selector cannot be empty")
	ErrInvalidSelectorType = errors.New("invalid selector_type")
	ErrInvalidFieldType    = errors.New("invalid field_type")
	ErrValueRequired       = errors.New("field value is required")
	ErrInvalidValueType    = errors.New("field value must be a string, integer or boolean")
	ErrBoolValueNotAllowed = errors.New("boolean values only allowed for checkbox and radio fields")
	ErrEmptyURL            = errors.New("url cannot be empty")
	ErrInvalidURL          = errors.New("invalid url format")
	ErrNoFields            = errors.New("at least one field must be specified")
	ErrNegativeWait        = errors.New("wait_after_fill must be non-negative")
)
