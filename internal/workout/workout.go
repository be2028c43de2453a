package workout

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"
)

const (
	MinDay = 1
	MaxDay = 5
)

// DayNames maps the training day number to its display name.
var DayNames = map[int]string{
	1: "Push",
	2: "Pull",
	3: "Lower",
	4: "Chest & Back",
	5: "Arms",
}

// Strategy decides how an exercise's prescription evolves between weeks.
// It can be one of:
//   - periodized_bench
//   - linear
//   - variable_drop
//   - static
type Strategy string

const (
	StrategyPeriodizedBench Strategy = "periodized_bench"
	StrategyLinear          Strategy = "linear"
	StrategyVariableDrop    Strategy = "variable_drop"
	StrategyStatic          Strategy = "static"
)

func (s Strategy) String() string {
	return string(s)
}

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyPeriodizedBench,
		StrategyLinear,
		StrategyVariableDrop,
		StrategyStatic:
		return true
	default:
		return false
	}
}

// Progresses reports whether the strategy is driven by logged performance.
func (s Strategy) Progresses() bool {
	return s == StrategyLinear || s == StrategyVariableDrop
}

// RequiresLog reports whether the exercise must be logged before the week can close.
func (s Strategy) RequiresLog() bool {
	return s != StrategyStatic
}

// Entry is one exercise of one week's plan.
type Entry struct {
	ID            int64     `json:"id"`
	Week          int       `json:"week"`
	Day           int       `json:"day"`
	DayName       string    `json:"dayName"`
	Order         int       `json:"order"`
	ExerciseKey   string    `json:"exerciseKey"`
	Exercise      string    `json:"exercise"`
	Sets          int       `json:"sets"`
	TargetReps    string    `json:"targetReps"`
	TargetWeights []float64 `json:"targetWeights"`
	Strategy      Strategy  `json:"strategy"`
	Rounding      float64   `json:"rounding"`
	SupersetGroup *string   `json:"supersetGroup,omitempty"`
}

// Key returns the cross-week identity of the exercise.
func (e Entry) Key() string {
	if e.ExerciseKey != "" {
		return e.ExerciseKey
	}
	return ExerciseKeyFor(e.Exercise)
}

// Clone returns a deep copy, so the copy can be changed without touching the original.
func (e Entry) Clone() Entry {
	c := e
	if e.TargetWeights != nil {
		c.TargetWeights = append([]float64(nil), e.TargetWeights...)
	}
	if e.SupersetGroup != nil {
		group := *e.SupersetGroup
		c.SupersetGroup = &group
	}
	return c
}

// Validate checks the shape of a plan row. Any non-empty strategy tag passes so
// rows carried forward under a tag this build does not know still store.
func (e Entry) Validate() error {
	if e.Week < 1 {
		return fmt.Errorf("%w: week must be positive, got %d", ErrInvalidEntry, e.Week)
	}
	if e.Day < MinDay || e.Day > MaxDay {
		return fmt.Errorf("%w: day must be in [%d, %d], got %d", ErrInvalidEntry, MinDay, MaxDay, e.Day)
	}
	if e.Order < 1 {
		return fmt.Errorf("%w: order must be positive, got %d", ErrInvalidEntry, e.Order)
	}
	if strings.TrimSpace(e.Exercise) == "" {
		return fmt.Errorf("%w: exercise name empty", ErrInvalidEntry)
	}
	if e.Sets < 1 {
		return fmt.Errorf("%w: [%s] sets must be positive, got %d", ErrInvalidEntry, e.Exercise, e.Sets)
	}
	if len(e.TargetWeights) != e.Sets {
		return fmt.Errorf("%w: [%s] %d target weights for %d sets", ErrInvalidEntry, e.Exercise, len(e.TargetWeights), e.Sets)
	}
	for _, w := range e.TargetWeights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: [%s] invalid target weight %v", ErrInvalidEntry, e.Exercise, w)
		}
	}
	if strings.TrimSpace(string(e.Strategy)) == "" {
		return fmt.Errorf("%w: [%s] strategy empty", ErrInvalidEntry, e.Exercise)
	}
	if e.Rounding < 0 || math.IsNaN(e.Rounding) {
		return fmt.Errorf("%w: [%s] rounding must not be negative", ErrInvalidEntry, e.Exercise)
	}
	return nil
}

// ValidateNew is Validate plus a known strategy, for entries built from a routine.
func (e Entry) ValidateNew() error {
	if err := e.Validate(); err != nil {
		return err
	}
	if !e.Strategy.IsValid() {
		return fmt.Errorf("%w: [%s] unknown strategy %q", ErrInvalidEntry, e.Exercise, e.Strategy)
	}
	return nil
}

// LogEntry is one logged performance of an exercise. Logs are append-only.
type LogEntry struct {
	ID            int64     `json:"id"`
	LoggedAt      time.Time `json:"loggedAt"`
	Week          int       `json:"week"`
	Day           int       `json:"day"`
	ExerciseKey   string    `json:"exerciseKey"`
	Exercise      string    `json:"exercise"`
	ActualWeights []float64 `json:"actualWeights"`
	ActualReps    []int     `json:"actualReps"`
	RPE           *int      `json:"rpe,omitempty"`
}

func (l LogEntry) Key() string {
	if l.ExerciseKey != "" {
		return l.ExerciseKey
	}
	return ExerciseKeyFor(l.Exercise)
}

func (l LogEntry) Validate() error {
	if l.Week < 1 {
		return fmt.Errorf("%w: week must be positive, got %d", ErrInvalidLog, l.Week)
	}
	if l.Day < MinDay || l.Day > MaxDay {
		return fmt.Errorf("%w: day must be in [%d, %d], got %d", ErrInvalidLog, MinDay, MaxDay, l.Day)
	}
	if strings.TrimSpace(l.Exercise) == "" {
		return fmt.Errorf("%w: exercise name empty", ErrInvalidLog)
	}
	if len(l.ActualReps) == 0 {
		return fmt.Errorf("%w: no sets logged", ErrInvalidLog)
	}
	if len(l.ActualWeights) != len(l.ActualReps) {
		return fmt.Errorf("%w: %d weights for %d reps", ErrInvalidLog, len(l.ActualWeights), len(l.ActualReps))
	}
	for _, w := range l.ActualWeights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: invalid weight %v", ErrInvalidLog, w)
		}
	}
	for _, r := range l.ActualReps {
		if r < 0 {
			return fmt.Errorf("%w: negative reps %d", ErrInvalidLog, r)
		}
	}
	if l.RPE != nil && (*l.RPE < 1 || *l.RPE > 10) {
		return fmt.Errorf("%w: rpe must be in [1, 10], got %d", ErrInvalidLog, *l.RPE)
	}
	return nil
}

const (
	StateKeyBenchCycleWeek = "current_bench_cycle_week"
	StateKeyBenchOneRepMax = "bench_1rm"

	DefaultBenchCycleWeek = 1
	DefaultBenchOneRepMax = 90.0
)

// ProgressionState holds the two persistent facts the weekly transition
// reads and advances. It is passed into and returned from the progression
// engine explicitly.
type ProgressionState struct {
	BenchCycleWeek int     `json:"benchCycleWeek"`
	BenchOneRepMax float64 `json:"benchOneRepMax"`
}

func DefaultState() ProgressionState {
	return ProgressionState{
		BenchCycleWeek: DefaultBenchCycleWeek,
		BenchOneRepMax: DefaultBenchOneRepMax,
	}
}

// WeekArchive is the immutable snapshot of a finished week.
type WeekArchive struct {
	Week       int        `json:"week"`
	Plan       []Entry    `json:"plan"`
	Logs       []LogEntry `json:"logs"`
	ArchivedAt time.Time  `json:"archivedAt"`
}

// DayCompletion counts non-static exercises planned and logged for a day.
type DayCompletion struct {
	Day     int    `json:"day"`
	Name    string `json:"name"`
	Planned int    `json:"planned"`
	Logged  int    `json:"logged"`
}

func (dc DayCompletion) Complete() bool {
	return dc.Logged >= dc.Planned
}

// ExerciseKeyFor derives the stable exercise identifier from a display name,
// e.g. "Lat Pulldowns" -> "lat_pulldowns".
func ExerciseKeyFor(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// LatestLogs returns the most recent log per exercise key. Ties on the
// timestamp are broken by the higher ID.
func LatestLogs(logs []LogEntry) map[string]LogEntry {
	latest := make(map[string]LogEntry, len(logs))
	for _, l := range logs {
		key := l.Key()
		cur, ok := latest[key]
		if !ok ||
			l.LoggedAt.After(cur.LoggedAt) ||
			(l.LoggedAt.Equal(cur.LoggedAt) && l.ID > cur.ID) {
			latest[key] = l
		}
	}
	return latest
}

// MissingLogs lists, in plan order, the non-static exercises that have no log.
func MissingLogs(plan []Entry, logs []LogEntry) []string {
	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.Key()] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, e := range plan {
		key := e.Key()
		if !e.Strategy.RequiresLog() || logged[key] || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, e.Exercise)
	}
	return missing
}

// CompletionByDay counts distinct non-static exercises per day, and how many
// of them have at least one log in the week.
func CompletionByDay(plan []Entry, logs []LogEntry) []DayCompletion {
	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.Key()] = true
	}

	planned := make(map[int]map[string]bool)
	for _, e := range plan {
		if !e.Strategy.RequiresLog() {
			continue
		}
		if planned[e.Day] == nil {
			planned[e.Day] = make(map[string]bool)
		}
		planned[e.Day][e.Key()] = true
	}

	completion := make([]DayCompletion, 0, MaxDay)
	for day := MinDay; day <= MaxDay; day++ {
		dc := DayCompletion{
			Day:     day,
			Name:    DayNames[day],
			Planned: len(planned[day]),
		}
		for key := range planned[day] {
			if logged[key] {
				dc.Logged++
			}
		}
		completion = append(completion, dc)
	}
	return completion
}

// SortPlan orders entries by day, then order within the day.
func SortPlan(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return entries[i].Order < entries[j].Order
	})
}
