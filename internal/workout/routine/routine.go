// Package routine turns a YAML routine definition into the first week of the plan.
package routine

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/internal/workout/weights"
)

const (
	DefaultOneRepMax = 90
	FirstWeek        = 1
)

var ErrInvalidRoutine = errors.New("invalid routine")

//go:embed default_routine.yaml
var defaultRoutine []byte

// WeightInput is either an anchor weight or an explicit per-set list.
type WeightInput struct {
	Anchor float64
	List   []float64
}

func (w *WeightInput) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&w.Anchor)
	case yaml.SequenceNode:
		return value.Decode(&w.List)
	default:
		return fmt.Errorf("weight must be a number or a list, line %d", value.Line)
	}
}

// Weights expands the input into one weight per set.
func (w WeightInput) Weights(sets int, rounding float64) []float64 {
	if w.List != nil {
		return weights.Passthrough(w.List)
	}
	return weights.Drop(w.Anchor, sets, rounding)
}

type Exercise struct {
	Name     string           `yaml:"name"`
	Sets     int              `yaml:"sets"`
	Reps     string           `yaml:"reps"`
	Weight   WeightInput      `yaml:"weight"`
	Strategy workout.Strategy `yaml:"strategy"`
	Rounding float64          `yaml:"rounding"`
	Superset string           `yaml:"superset"`
}

type Day struct {
	Day       int        `yaml:"day"`
	Name      string     `yaml:"name"`
	Exercises []Exercise `yaml:"exercises"`
}

// Abs is the static routine appended at the end of every day except SkipDays.
type Abs struct {
	SkipDays  []int      `yaml:"skip_days"`
	Superset  string     `yaml:"superset"`
	Exercises []Exercise `yaml:"exercises"`
}

type Routine struct {
	Abs  Abs   `yaml:"abs"`
	Days []Day `yaml:"days"`
}

func Default() (*Routine, error) {
	return Parse(defaultRoutine)
}

func Load(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routine: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Routine, error) {
	r := &Routine{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoutine, err)
	}
	if len(r.Days) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrInvalidRoutine)
	}
	return r, nil
}

// Build compiles the routine into week 1 entries. The periodized bench entry
// takes uniform weights from the bench session of the given state.
func (r *Routine) Build(state workout.ProgressionState) ([]workout.Entry, error) {
	skipAbs := make(map[int]bool, len(r.Abs.SkipDays))
	for _, d := range r.Abs.SkipDays {
		skipAbs[d] = true
	}

	seenDays := make(map[int]bool, len(r.Days))
	var entries []workout.Entry
	for _, day := range r.Days {
		if day.Day < workout.MinDay || day.Day > workout.MaxDay {
			return nil, fmt.Errorf("%w: day %d out of range", ErrInvalidRoutine, day.Day)
		}
		if seenDays[day.Day] {
			return nil, fmt.Errorf("%w: day %d defined twice", ErrInvalidRoutine, day.Day)
		}
		seenDays[day.Day] = true

		dayName := day.Name
		if dayName == "" {
			dayName = workout.DayNames[day.Day]
		}

		order := 1
		for _, ex := range day.Exercises {
			entry := ex.entry(day.Day, dayName, order, state)
			if err := entry.ValidateNew(); err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			order++
		}

		if skipAbs[day.Day] {
			continue
		}
		for _, ex := range r.Abs.Exercises {
			ex.Strategy = workout.StrategyStatic
			ex.Rounding = 0
			ex.Weight = WeightInput{}
			if ex.Superset == "" {
				ex.Superset = r.Abs.Superset
			}
			entry := ex.entry(day.Day, dayName, order, state)
			if err := entry.ValidateNew(); err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			order++
		}
	}
	return entries, nil
}

func (ex Exercise) entry(day int, dayName string, order int, state workout.ProgressionState) workout.Entry {
	entry := workout.Entry{
		Week:       FirstWeek,
		Day:        day,
		DayName:    dayName,
		Order:      order,
		Exercise:   ex.Name,
		Sets:       ex.Sets,
		TargetReps: ex.Reps,
		Strategy:   ex.Strategy,
		Rounding:   ex.Rounding,
	}
	if ex.Superset != "" {
		group := ex.Superset
		entry.SupersetGroup = &group
	}

	if ex.Strategy == workout.StrategyPeriodizedBench {
		session := bench.SessionFor(state.BenchCycleWeek, state.BenchOneRepMax, ex.Rounding)
		entry.TargetWeights = weights.Uniform(session.Weight, ex.Sets)
		return entry
	}
	entry.TargetWeights = ex.Weight.Weights(ex.Sets, ex.Rounding)
	return entry
}
