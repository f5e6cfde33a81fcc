package stack

import (
	"context"
	"errors"
)

// Parameter is one infrastructure-stack parameter in a description or an
// update submission. In update submissions exactly one of Value or
// UsePrevious is meaningful per key, never both.
type Parameter struct {
	// Key is the parameter name.
	Key string
	// Value is the parameter value to submit. Ignored when UsePrevious is set.
	Value string
	// UsePrevious instructs the infrastructure layer to keep the
	// currently deployed value.
	UsePrevious bool
}

// ErrStackNotFound is returned when the target stack does not exist.
var ErrStackNotFound = errors.New("stack not found")

// ConfigStore defines the operations the switcher needs from the
// infrastructure-stack API.
type ConfigStore interface {
	// Parameters returns the stack's current parameter set, or
	// ErrStackNotFound when the stack is absent.
	Parameters(ctx context.Context) ([]Parameter, error)
	// Update submits the merged parameter list, reusing the deployed
	// template.
	Update(ctx context.Context, parameters []Parameter) error
}
