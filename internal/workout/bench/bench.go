// Package bench implements the six-week periodized bench press cycle.
package bench

import (
	"math"

	"github.com/sterrysx/gymai/internal/workout/weights"
)

const (
	FirstState = 1
	LastState  = 6
)

// Phase describes one week of the cycle.
type Phase struct {
	State     int     `json:"state"`
	Sets      int     `json:"sets"`
	Reps      string  `json:"reps"`
	Intensity float64 `json:"intensity"`
	Label     string  `json:"label"`
}

var cycle = [...]Phase{
	{State: 1, Sets: 5, Reps: "5", Intensity: 0.75, Label: "Strength"},
	{State: 2, Sets: 4, Reps: "4", Intensity: 0.82, Label: "Strength+"},
	{State: 3, Sets: 3, Reps: "3", Intensity: 0.88, Label: "Heavy"},
	{State: 4, Sets: 2, Reps: "2", Intensity: 0.92, Label: "Peak"},
	{State: 5, Sets: 3, Reps: "5", Intensity: 0.60, Label: "Deload"},
	{State: 6, Sets: 1, Reps: "1", Intensity: 1.02, Label: "PR Test"},
}

// Phases returns a copy of the full cycle table.
func Phases() []Phase {
	return append([]Phase(nil), cycle[:]...)
}

func Valid(state int) bool {
	return state >= FirstState && state <= LastState
}

// Normalize maps any state outside the cycle to the first state.
func Normalize(state int) int {
	if !Valid(state) {
		return FirstState
	}
	return state
}

// Next advances the cycle by one week, wrapping 6 back to 1.
func Next(state int) int {
	return Normalize(state)%LastState + 1
}

// PhaseFor returns the table row for a state, normalized first.
func PhaseFor(state int) Phase {
	return cycle[Normalize(state)-1]
}

// RoundToIncrement snaps raw to the nearest multiple of increment. Exact
// halves go to the even multiple. A zero increment leaves the value untouched.
func RoundToIncrement(raw, increment float64) float64 {
	if increment <= 0 {
		return raw
	}
	return math.RoundToEven(raw/increment) * increment
}

// Session is a projected bench session for a given cycle state.
type Session struct {
	Phase
	OneRepMax    float64   `json:"oneRepMax"`
	Weight       float64   `json:"weight"`
	IntensityPct int       `json:"intensityPct"`
	Weights      []float64 `json:"weights"`
}

// SessionFor derives the working weight of a state from the one-rep-max,
// snapped to the exercise's rounding increment. It never mutates state.
func SessionFor(state int, oneRepMax, rounding float64) Session {
	phase := PhaseFor(state)
	weight := max(0, RoundToIncrement(oneRepMax*phase.Intensity, rounding))
	return Session{
		Phase:        phase,
		OneRepMax:    oneRepMax,
		Weight:       weight,
		IntensityPct: int(math.Round(phase.Intensity * 100)),
		Weights:      weights.Uniform(weight, phase.Sets),
	}
}
