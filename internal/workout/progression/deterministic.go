package progression

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/internal/workout/weights"
)

// Deterministic is the fixed rule table:
//   - periodized_bench follows the bench cycle and the stored one-rep-max
//   - linear and variable_drop add one rounding step to the anchor when the
//     first logged set meets the rep target, and regenerate the drop sequence
//   - static is carried forward unchanged
type Deterministic struct {
	fallbackRepTarget int
}

func NewDeterministic(fallbackRepTarget int) *Deterministic {
	if fallbackRepTarget <= 0 {
		fallbackRepTarget = DefaultFallbackRepTarget
	}
	return &Deterministic{
		fallbackRepTarget: fallbackRepTarget,
	}
}

func (d *Deterministic) Name() string {
	return NameDeterministic
}

func (d *Deterministic) NextWeek(_ context.Context, in WeekInput) (*WeekOutput, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	nextState := workout.ProgressionState{
		BenchCycleWeek: bench.Next(in.State.BenchCycleWeek),
		BenchOneRepMax: in.State.BenchOneRepMax,
	}

	latest := workout.LatestLogs(in.Logs)
	out := &WeekOutput{
		Week:      in.Week + 1,
		Plan:      make([]workout.Entry, 0, len(in.Plan)),
		State:     nextState,
		Decisions: make([]Decision, 0, len(in.Plan)),
		Source:    NameDeterministic,
	}
	for _, entry := range in.Plan {
		next, decision := d.NextEntry(entry, latest, nextState)
		next.Week = out.Week
		next.ID = 0
		out.Plan = append(out.Plan, next)
		out.Decisions = append(out.Decisions, decision)
	}

	return out, nil
}

// NextEntry progresses a single entry. nextState is the state the new week
// runs in, i.e. the bench cycle has already been advanced.
func (d *Deterministic) NextEntry(
	entry workout.Entry,
	latest map[string]workout.LogEntry,
	nextState workout.ProgressionState,
) (workout.Entry, Decision) {
	next := entry.Clone()
	if next.ExerciseKey == "" {
		next.ExerciseKey = entry.Key()
	}

	decision := Decision{
		ExerciseKey: next.ExerciseKey,
		Exercise:    entry.Exercise,
		Strategy:    entry.Strategy,
		Before:      entry.TargetWeights,
	}

	switch entry.Strategy {
	case workout.StrategyPeriodizedBench:
		session := bench.SessionFor(nextState.BenchCycleWeek, nextState.BenchOneRepMax, entry.Rounding)
		next.Sets = session.Sets
		next.TargetReps = session.Reps
		next.TargetWeights = session.Weights
		decision.Action = ActionBenchCycle

	case workout.StrategyLinear, workout.StrategyVariableDrop:
		logEntry, ok := latest[next.ExerciseKey]
		if !ok {
			decision.Action = ActionNoLog
			break
		}

		target, err := ParseRepTarget(entry.Exercise, entry.TargetReps)
		if err != nil {
			log.Warnf("progression: %s, using fallback target %d", err, d.fallbackRepTarget)
			target = d.fallbackRepTarget
			decision.Fallback = true
		}

		anchorReps := 0
		if len(logEntry.ActualReps) > 0 {
			anchorReps = logEntry.ActualReps[0]
		}
		decision.TargetReps = target
		decision.ActualReps = anchorReps

		if anchorReps >= target {
			anchor := weights.Anchor(entry.TargetWeights) + entry.Rounding
			next.TargetWeights = weights.Drop(anchor, entry.Sets, entry.Rounding)
			decision.Action = ActionIncrease
		} else {
			decision.Action = ActionHold
		}

	case workout.StrategyStatic:
		decision.Action = ActionStatic

	default:
		log.Warnf("progression: exercise [%s] has unknown strategy [%s], carrying forward", entry.Exercise, entry.Strategy)
		decision.Action = ActionCarry
	}

	decision.After = next.TargetWeights
	return next, decision
}
