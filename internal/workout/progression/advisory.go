package progression

import (
	"context"
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
)

var ErrInvalidAdvice = errors.New("invalid advice")

// AdviceExercise is one progressing exercise with its last logged performance.
type AdviceExercise struct {
	Key            string    `json:"key"`
	Name           string    `json:"name"`
	Sets           int       `json:"sets"`
	TargetReps     string    `json:"targetReps"`
	Rounding       float64   `json:"rounding"`
	CurrentWeights []float64 `json:"currentWeights"`
	ActualWeights  []float64 `json:"actualWeights,omitempty"`
	ActualReps     []int     `json:"actualReps,omitempty"`
	RPE            *int      `json:"rpe,omitempty"`
}

type AdviceRequest struct {
	Week      int              `json:"week"`
	Exercises []AdviceExercise `json:"exercises"`
}

// Advice maps exercise keys to next week's target weights.
type Advice struct {
	Weights map[string][]float64
}

//go:generate mockgen -source=$GOFILE -destination=advisory_mocks_test.go -package=progression_test
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (*Advice, error)
}

// ExternalAdvisory asks an Advisor for the weights of linear and variable_drop
// exercises. Bench, static entries and the state advance always come from the
// deterministic rules. Advice is accepted or rejected as a whole.
type ExternalAdvisory struct {
	advisor       Advisor
	deterministic *Deterministic
	onFailure     string
}

func NewExternalAdvisory(advisor Advisor, deterministic *Deterministic, onFailure string) *ExternalAdvisory {
	return &ExternalAdvisory{
		advisor:       advisor,
		deterministic: deterministic,
		onFailure:     onFailure,
	}
}

func (a *ExternalAdvisory) Name() string {
	return NameExternalAdvisory
}

func (a *ExternalAdvisory) NextWeek(ctx context.Context, in WeekInput) (*WeekOutput, error) {
	base, err := a.deterministic.NextWeek(ctx, in)
	if err != nil {
		return nil, err
	}

	req := adviceRequest(in)
	if len(req.Exercises) == 0 {
		return base, nil
	}

	advice, err := a.advisor.Advise(ctx, req)
	if err == nil {
		err = validateAdvice(in.Plan, advice)
	}
	if err != nil {
		if a.onFailure == OnFailureAbort {
			return nil, fmt.Errorf("external advisory: %w", err)
		}
		log.Warnf("progression: external advisory for week %d failed, using deterministic rules: %s", in.Week, err)
		for i := range base.Decisions {
			base.Decisions[i].Fallback = base.Decisions[i].Fallback || base.Decisions[i].Strategy.Progresses()
		}
		return base, nil
	}

	out := &WeekOutput{
		Week:      base.Week,
		Plan:      base.Plan,
		State:     base.State,
		Decisions: base.Decisions,
		Source:    NameExternalAdvisory,
	}
	for i, entry := range out.Plan {
		if !entry.Strategy.Progresses() {
			continue
		}
		advised := make([]float64, len(advice.Weights[entry.ExerciseKey]))
		for j, w := range advice.Weights[entry.ExerciseKey] {
			advised[j] = max(0, bench.RoundToIncrement(w, entry.Rounding))
		}
		out.Plan[i].TargetWeights = advised
		out.Decisions[i].Action = ActionAdvised
		out.Decisions[i].After = advised
		out.Decisions[i].Fallback = false
	}

	return out, nil
}

func adviceRequest(in WeekInput) AdviceRequest {
	latest := workout.LatestLogs(in.Logs)
	req := AdviceRequest{Week: in.Week}
	seen := make(map[string]bool)
	for _, e := range in.Plan {
		key := e.Key()
		if !e.Strategy.Progresses() || seen[key] {
			continue
		}
		seen[key] = true

		ex := AdviceExercise{
			Key:            key,
			Name:           e.Exercise,
			Sets:           e.Sets,
			TargetReps:     e.TargetReps,
			Rounding:       e.Rounding,
			CurrentWeights: e.TargetWeights,
		}
		if l, ok := latest[key]; ok {
			ex.ActualWeights = l.ActualWeights
			ex.ActualReps = l.ActualReps
			ex.RPE = l.RPE
		}
		req.Exercises = append(req.Exercises, ex)
	}
	return req
}

func validateAdvice(plan []workout.Entry, advice *Advice) error {
	if advice == nil || advice.Weights == nil {
		return fmt.Errorf("%w: empty", ErrInvalidAdvice)
	}
	for _, e := range plan {
		if !e.Strategy.Progresses() {
			continue
		}
		key := e.Key()
		ws, ok := advice.Weights[key]
		if !ok {
			return fmt.Errorf("%w: missing exercise %s", ErrInvalidAdvice, key)
		}
		if len(ws) != e.Sets {
			return fmt.Errorf("%w: exercise %s has %d weights for %d sets", ErrInvalidAdvice, key, len(ws), e.Sets)
		}
		for _, w := range ws {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: exercise %s weight %v", ErrInvalidAdvice, key, w)
			}
		}
	}
	return nil
}
