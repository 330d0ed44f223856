package domain

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// ValidationResult is the outcome of validating a set of inputs.
type ValidationResult struct {
	Valid  bool         `json:"valid" yaml:"valid"`
	Errors []FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ValidResult returns a passing result.
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// InvalidResult returns a failing result carrying errs.
func InvalidResult(errs ...FieldError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// Fields returns the names of the invalid fields in order.
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}
