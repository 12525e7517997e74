// Package validation checks API request payloads before they reach the
// model builder, so malformed graphs are rejected with field-level messages
// instead of failing deep inside a solve.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxGraphNodes       = 500
	MaxGraphEdges       = 2000
	MaxSweepSamples     = 10000
	MaxIDLength         = 64
	MaxLabelLength      = 200
	MaxExpressionLength = 1024

	// Node ids and port names: letter or underscore first, then
	// alphanumeric, underscore or hyphen.
	idPattern   = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)
	portPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

func init() {
	validate = validator.New()
}

// Struct validates a request struct against its validate tags.
func Struct(req any) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateNodeID checks a node identifier.
func ValidateNodeID(id string) error {
	if id == "" {
		return errors.New("node id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("node id '%s' exceeds maximum length of %d characters", id, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("node id '%s' is invalid (must start with letter or underscore, followed by alphanumeric, underscore or hyphen)", id)
	}
	return nil
}

// ValidatePortName checks a port name.
func ValidatePortName(name string) error {
	if name == "" {
		return errors.New("port name cannot be empty")
	}
	if !portPattern.MatchString(name) {
		return fmt.Errorf("port name '%s' is invalid (must start with letter or underscore, followed by alphanumeric or underscore)", name)
	}
	return nil
}

// ValidateExpression checks a formula expression's size. Syntax is checked
// by the expression parser when the node is built.
func ValidateExpression(expr string) error {
	if len(expr) > MaxExpressionLength {
		return fmt.Errorf("expression exceeds maximum length of %d characters", MaxExpressionLength)
	}
	return nil
}

// ValidateGraphSize checks node and edge counts for a submitted graph.
func ValidateGraphSize(nodes, edges int) error {
	if nodes < 1 {
		return errors.New("graph must contain at least one node")
	}
	if nodes > MaxGraphNodes {
		return fmt.Errorf("graph exceeds maximum of %d nodes, got %d", MaxGraphNodes, nodes)
	}
	if edges > MaxGraphEdges {
		return fmt.Errorf("graph exceeds maximum of %d edges, got %d", MaxGraphEdges, edges)
	}
	return nil
}

// ValidateSampleCount checks a sweep's sample count.
func ValidateSampleCount(samples int) error {
	if samples < 1 {
		return fmt.Errorf("sample count must be at least 1, got %d", samples)
	}
	if samples > MaxSweepSamples {
		return fmt.Errorf("sample count must not exceed %d, got %d", MaxSweepSamples, samples)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
