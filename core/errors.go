package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var ErrValidation = errors.New("validation failed")

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError blocks a form submission. It never reaches the backend.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{err, flds}
}

// NewFieldsError translates validator.ValidationErrors into a ValidationError.
// Any other error is returned unchanged.
func NewFieldsError(err error) error {
	vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: translate(fe)})
	}
	return &ValidationError{Err: ErrValidation, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMap returns field errors keyed by field name.
func (err ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		m[f.Field] = f.Error
	}
	return m
}

func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
