package switcher

import (
	"context"
	"errors"
	"strconv"

	"github.com/oshokin/minecraft-switchboard/internal/logger"
	repo "github.com/oshokin/minecraft-switchboard/internal/repository/counter"
	"github.com/oshokin/minecraft-switchboard/internal/repository/stack"
	"github.com/oshokin/minecraft-switchboard/internal/telemetry"
)

var (
	// ErrUnnecessaryUpdate is returned when a merge changes nothing.
	// It marks a benign no-op, not a true failure.
	ErrUnnecessaryUpdate = errors.New("stack is unnecessary to update")
	// ErrUserStillConnected is returned when the guard refuses a switch
	// because clients are still connected.
	ErrUserStillConnected = errors.New("user is still connected")
)

// MergeParameters computes the parameter list to submit: a key present in
// overrides with a differing value is replaced, every other key keeps its
// deployed value via the use-previous flag. The second return reports
// whether any key actually changed.
func MergeParameters(current []stack.Parameter, overrides map[string]string) ([]stack.Parameter, bool) {
	merged := make([]stack.Parameter, 0, len(current))
	changed := false

	for _, p := range current {
		override, ok := overrides[p.Key]
		if ok && override != p.Value {
			merged = append(merged, stack.Parameter{Key: p.Key, Value: override})
			changed = true

			continue
		}

		merged = append(merged, stack.Parameter{Key: p.Key, UsePrevious: true})
	}

	return merged, changed
}

// Switcher toggles the infrastructure stack's parameters, guarding against
// switching while clients are still connected.
type Switcher struct {
	// stacks reads and updates the target stack.
	stacks stack.ConfigStore
	// counter reads the connected-count for the guard. A nil store
	// disables the guard entirely.
	counter repo.Store
	// switchedParameter is the stack parameter flipped on and off.
	switchedParameter string
	// taskCountParameter carries the desired task count; optional.
	taskCountParameter string
}

// New creates a Switcher over the given stores.
func New(stacks stack.ConfigStore, counter repo.Store, switchedParameter, taskCountParameter string) *Switcher {
	return &Switcher{
		stacks:             stacks,
		counter:            counter,
		switchedParameter:  switchedParameter,
		taskCountParameter: taskCountParameter,
	}
}

// On switches the stack on: switched parameter "true", one task.
func (s *Switcher) On(ctx context.Context) error {
	return s.Switch(ctx, s.toggleOverrides(true))
}

// Off switches the stack off: switched parameter "false", zero tasks.
func (s *Switcher) Off(ctx context.Context) error {
	return s.Switch(ctx, s.toggleOverrides(false))
}

// Switch applies the overrides to the stack. The order is fixed: guard
// first, then parameter retrieval, then merge, then update. A merge where
// every key keeps its previous value never reaches the infrastructure API.
func (s *Switcher) Switch(ctx context.Context, overrides map[string]string) error {
	if err := s.guard(ctx); err != nil {
		telemetry.SwitchAttempts.WithLabelValues("refused").Inc()

		return err
	}

	current, err := s.stacks.Parameters(ctx)
	if err != nil {
		telemetry.SwitchAttempts.WithLabelValues(telemetry.OutcomeError).Inc()

		return err
	}

	merged, changed := MergeParameters(current, overrides)
	if !changed {
		telemetry.SwitchAttempts.WithLabelValues("noop").Inc()
		logger.WarnKV(ctx, "Stack is unnecessary to update", "overrides", overrides)

		return ErrUnnecessaryUpdate
	}

	if err := s.stacks.Update(ctx, merged); err != nil {
		telemetry.SwitchAttempts.WithLabelValues(telemetry.OutcomeError).Inc()

		return err
	}

	telemetry.SwitchAttempts.WithLabelValues(telemetry.OutcomeOK).Inc()
	logger.InfoKV(ctx, "Stack update submitted", "overrides", overrides)

	return nil
}

// guard refuses the switch while the counter reports connected clients.
// Deployments without a counter store always permit.
func (s *Switcher) guard(ctx context.Context) error {
	if s.counter == nil {
		return nil
	}

	connected, err := s.counter.Value(ctx)
	if err != nil {
		return err
	}

	if connected > 0 {
		logger.WarnKV(ctx, "Refusing switch, clients still connected", "connected_count", connected)

		return ErrUserStillConnected
	}

	return nil
}

// toggleOverrides builds the override map for one switch direction.
func (s *Switcher) toggleOverrides(on bool) map[string]string {
	taskCount := 0
	if on {
		taskCount = 1
	}

	overrides := map[string]string{
		s.switchedParameter: strconv.FormatBool(on),
	}

	if s.taskCountParameter != "" {
		overrides[s.taskCountParameter] = strconv.Itoa(taskCount)
	}

	return overrides
}
