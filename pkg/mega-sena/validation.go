package megasena

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyCandidatePool = errors.New("no candidate numbers left after fixed and excluded sets")
	ErrInvalidPoolSize    = errors.New("invalid pool size")
	ErrInvalidGuarantee   = errors.New("invalid guarantee level")
	ErrInvalidCount       = errors.New("ticket count must be positive")
	ErrNoModels           = errors.New("at least one model is required")
	ErrDuplicateDraw      = errors.New("duplicate draw id")
)

var drawValidate = validator.New()

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidateDraw checks a draw has a positive id, a date and six distinct numbers in [1,60]
func ValidateDraw(d Draw) error {
	var errs []ValidationError
	field := fmt.Sprintf("draw[%d]", d.ID)

	if err := drawValidate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, ValidationError{
					Field:   field + "." + fe.Field(),
					Message: fmt.Sprintf("failed '%s' check (value: %v)", fe.Tag(), fe.Value()),
				})
			}
		} else {
			return fmt.Errorf("validating %s: %w", field, err)
		}
	}

	if dup, ok := firstDuplicate(d.Numbers); ok {
		errs = append(errs, ValidationError{
			Field:   field + ".Numbers",
			Message: fmt.Sprintf("number %d appears more than once", dup),
		})
	}

	if len(errs) > 0 {
		return ValidationErrors{Errors: errs}
	}
	return nil
}

// validatePool checks closure pool numbers are in range and distinct
func validatePool(pool []int) error {
	var errs []ValidationError
	for i, n := range pool {
		if !inRange(n) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("pool[%d]", i),
				Message: fmt.Sprintf("number %d outside [%d,%d]", n, MinNumber, MaxNumber),
			})
		}
	}
	if dup, ok := firstDuplicate(pool); ok {
		errs = append(errs, ValidationError{
			Field:   "pool",
			Message: fmt.Sprintf("number %d appears more than once", dup),
		})
	}
	if len(errs) > 0 {
		return ValidationErrors{Errors: errs}
	}
	return nil
}

// Validate rejects unknown models and negative weights
func (w WeightMap) Validate() error {
	var errs []ValidationError
	for model, weight := range w {
		if !model.IsScoring() {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("weights[%s]", model),
				Message: "not a scoring model",
			})
			continue
		}
		if weight < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("weights[%s]", model),
				Message: fmt.Sprintf("negative weight %g", weight),
			})
		}
	}
	if len(errs) > 0 {
		return ValidationErrors{Errors: errs}
	}
	return nil
}

// validateBatchRequest checks if the batch request is valid
func validateBatchRequest(req BatchRequest) error {
	if req.Count <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, req.Count)
	}
	if len(req.Models) == 0 {
		return ErrNoModels
	}
	for i, m := range req.Models {
		if !m.Valid() {
			return ValidationErrors{Errors: []ValidationError{{
				Field:   fmt.Sprintf("models[%d]", i),
				Message: fmt.Sprintf("unknown model %q", m),
			}}}
		}
	}
	return nil
}

func firstDuplicate(numbers []int) (int, bool) {
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if seen[n] {
			return n, true
		}
		seen[n] = true
	}
	return 0, false
}
