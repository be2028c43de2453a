package plans

import (
	"context"
	"errors"
	"time"

	"github.com/sterrysx/gymai/internal/workout"
)

// AllDays as a day filter lists the plan of the whole week.
const AllDays = 0

// ErrPlanSlotTaken is returned when an inserted entry collides with an
// existing (week, day, order).
var ErrPlanSlotTaken = errors.New("plan slot already taken")

// Store is the persistence used by the Service.
// Implemented by Repo (postgres) and MemStore (in-memory).
type Store interface {
	// CurrentWeek returns the highest week in the plan, workout.ErrNoPlanFound when empty.
	CurrentWeek(ctx context.Context) (int, error)
	ListPlan(ctx context.Context, week, day int) ([]workout.Entry, error)
	ListLogs(ctx context.Context, week int) ([]workout.LogEntry, error)
	// AddLog resolves the logged exercise against the plan of (week, day) and appends the log.
	// Returns workout.ErrExerciseNotPlanned when there is no such exercise.
	AddLog(ctx context.Context, l workout.LogEntry) (*workout.LogEntry, error)
	GetState(ctx context.Context) (workout.ProgressionState, error)
	SetOneRepMax(ctx context.Context, oneRepMax float64) error
	GetArchive(ctx context.Context, week int) (*workout.WeekArchive, error)
	SaveDaySummary(ctx context.Context, summary DaySummary) error
	ListDaySummaries(ctx context.Context) ([]DaySummary, error)
	// WithinTransition runs fn holding the exclusive transition lock. Everything
	// fn writes through tx is committed only if fn returns nil.
	WithinTransition(ctx context.Context, fn func(ctx context.Context, tx TransitionTx) error) error
}

type TransitionTx interface {
	CurrentWeek(ctx context.Context) (int, error)
	ListPlan(ctx context.Context, week, day int) ([]workout.Entry, error)
	ListLogs(ctx context.Context, week int) ([]workout.LogEntry, error)
	GetState(ctx context.Context) (workout.ProgressionState, error)
	SaveArchive(ctx context.Context, archive workout.WeekArchive) error
	InsertPlan(ctx context.Context, entries []workout.Entry) error
	SaveState(ctx context.Context, state workout.ProgressionState) error
}

// DayExercise is one logged exercise of a completed day.
type DayExercise struct {
	Exercise      string           `json:"exercise"`
	ExerciseKey   string           `json:"exerciseKey"`
	Strategy      workout.Strategy `json:"strategy"`
	PlannedSets   int              `json:"plannedSets"`
	PlannedReps   string           `json:"plannedReps"`
	ActualWeights []float64        `json:"actualWeights"`
	ActualReps    []int            `json:"actualReps"`
	RPE           *int             `json:"rpe,omitempty"`
}

// DaySummary is the snapshot taken when a training day is marked complete.
type DaySummary struct {
	Week        int           `json:"week"`
	Day         int           `json:"day"`
	CompletedOn time.Time     `json:"completedOn"`
	Exercises   []DayExercise `json:"exercises"`
}

// VolumePoint aggregates the work done in one completed day.
type VolumePoint struct {
	Date      string  `json:"date"`
	Week      int     `json:"week"`
	Day       int     `json:"day"`
	Sets      int     `json:"sets"`
	Reps      int     `json:"reps"`
	TonnageKg float64 `json:"tonnageKg"`
}
