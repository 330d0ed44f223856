// Package validation validates structs with go-playground/validator and reports
// failures with JSON field names and English messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

// FieldErrorsKey is the metadata key under which field errors are attached to an error.
const FieldErrorsKey = "field_errors"

// Validator wraps a configured validator and its English translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var defaultValidator = sync.OnceValue(New)

// Default returns a shared Validator. It is safe for concurrent use.
func Default() *Validator {
	return defaultValidator()
}

// New creates a Validator with English translations, JSON field names and the semver tag.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(errors.New("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Errorf("translator was not registered: %w", err))
	}

	if err := validate.RegisterValidation("semver", isSemver); err != nil {
		panic(err)
	}
	err := validate.RegisterTranslation("semver", translator,
		func(t ut.Translator) error {
			return t.Add("semver", "{0} must be a valid semantic version", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("semver", fe.Field())
			return msg
		},
	)
	if err != nil {
		panic(err)
	}

	// Use JSON field names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: validate, translator: translator}
}

func isSemver(fl validator.FieldLevel) bool {
	_, err := semver.StrictNewVersion(fl.Field().String())
	return err == nil
}

// Struct validates value and returns one FieldError per failed rule, in field order.
// A nil result means value is valid.
func (v *Validator) Struct(value any) []domain.FieldError {
	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []domain.FieldError{{Message: err.Error()}}
	}

	out := make([]domain.FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, domain.FieldError{
			Field:   fieldPath(e.Namespace()),
			Message: e.Translate(v.translator),
		})
	}
	return out
}

// Result validates value and wraps the outcome in a ValidationResult.
func (v *Validator) Result(value any) domain.ValidationResult {
	if errs := v.Struct(value); len(errs) > 0 {
		return domain.InvalidResult(errs...)
	}
	return domain.ValidResult()
}

// Error converts field errors into a zerr error wrapping sentinel.
// It returns nil when errs is empty.
func Error(sentinel error, errs []domain.FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	err := zerr.Wrap(sentinel, strings.Join(msgs, "; "))
	return zerr.With(err, FieldErrorsKey, errs)
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
