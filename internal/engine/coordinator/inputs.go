package coordinator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/validation"
)

// DecodeInputs converts a loose input document into T and validates it.
// Unknown fields, type mismatches and failed validation rules are all reported as
// field errors.
func DecodeInputs[T any](inputs domain.Inputs) (*T, []domain.FieldError) {
	raw, err := json.Marshal(inputs)
	if err != nil {
		return nil, []domain.FieldError{{Message: "inputs cannot be encoded: " + err.Error()}}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var out T
	if err := dec.Decode(&out); err != nil {
		return nil, []domain.FieldError{decodeFieldError(err)}
	}

	if errs := validation.Default().Struct(&out); len(errs) > 0 {
		return nil, errs
	}
	return &out, nil
}

func decodeFieldError(err error) domain.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domain.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String()),
		}
	}

	// encoding/json reports unknown fields only through the message text.
	const unknownPrefix = `json: unknown field "`
	if msg := err.Error(); strings.HasPrefix(msg, unknownPrefix) {
		field := strings.TrimSuffix(strings.TrimPrefix(msg, unknownPrefix), `"`)
		return domain.FieldError{Field: field, Message: field + " is not a recognised input"}
	}

	return domain.FieldError{Message: err.Error()}
}
