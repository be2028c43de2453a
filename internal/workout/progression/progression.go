// Package progression decides how every exercise of a week evolves into the
// next week's prescription.
package progression

import (
	"context"
	"fmt"

	"github.com/sterrysx/gymai/internal/workout"
)

const (
	NameDeterministic    = "deterministic"
	NameExternalAdvisory = "external_advisory"

	OnFailureFallback = "fallback"
	OnFailureAbort    = "abort"

	DefaultFallbackRepTarget = 8
)

type Action string

const (
	ActionBenchCycle Action = "bench_cycle"
	ActionIncrease   Action = "increase"
	ActionHold       Action = "hold"
	ActionNoLog      Action = "no_log"
	ActionStatic     Action = "static"
	ActionCarry      Action = "carry"
	ActionAdvised    Action = "advised"
)

// WeekInput is everything a strategy may look at. Strategies never touch storage.
type WeekInput struct {
	Week  int
	Plan  []workout.Entry
	Logs  []workout.LogEntry
	State workout.ProgressionState
}

// Decision explains what happened to one exercise.
type Decision struct {
	ExerciseKey string           `json:"exerciseKey"`
	Exercise    string           `json:"exercise"`
	Strategy    workout.Strategy `json:"strategy"`
	Action      Action           `json:"action"`
	Before      []float64        `json:"before"`
	After       []float64        `json:"after"`
	TargetReps  int              `json:"targetReps,omitempty"`
	ActualReps  int              `json:"actualReps,omitempty"`
	Fallback    bool             `json:"fallback,omitempty"`
}

// WeekOutput is the complete next week: plan, state and per-exercise decisions.
type WeekOutput struct {
	Week      int
	Plan      []workout.Entry
	State     workout.ProgressionState
	Decisions []Decision
	Source    string
}

// Strategy is a progression rule set. Implementations must either return a
// complete next week or an error, never a partially progressed one.
type Strategy interface {
	Name() string
	NextWeek(ctx context.Context, in WeekInput) (*WeekOutput, error)
}

type Config struct {
	Strategy          string
	FallbackRepTarget int
	OnFailure         string
}

// New builds the strategy selected by configuration. The advisor is only
// needed for the external advisory strategy.
func New(cfg Config, advisor Advisor) (Strategy, error) {
	fallback := cfg.FallbackRepTarget
	if fallback <= 0 {
		fallback = DefaultFallbackRepTarget
	}
	deterministic := NewDeterministic(fallback)

	switch cfg.Strategy {
	case "", NameDeterministic:
		return deterministic, nil
	case NameExternalAdvisory:
		if advisor == nil {
			return nil, fmt.Errorf("strategy %s: advisor not set", cfg.Strategy)
		}
		onFailure := cfg.OnFailure
		if onFailure == "" {
			onFailure = OnFailureFallback
		}
		if onFailure != OnFailureFallback && onFailure != OnFailureAbort {
			return nil, fmt.Errorf("strategy %s: unknown on_failure mode %q", cfg.Strategy, onFailure)
		}
		return NewExternalAdvisory(advisor, deterministic, onFailure), nil
	default:
		return nil, fmt.Errorf("unknown progression strategy: %q", cfg.Strategy)
	}
}

func validateInput(in WeekInput) error {
	if in.Week < 1 {
		return fmt.Errorf("invalid week: %d", in.Week)
	}
	if len(in.Plan) == 0 {
		return fmt.Errorf("week %d: %w", in.Week, workout.ErrNoPlanFound)
	}
	return nil
}
