package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sterrysx/gymai/internal/telemetry/metrics"
	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/internal/workout/progression"
)

const DefaultBenchRounding = 2.5

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidOneRepMax = errors.New("invalid one rep max")
	ErrNoLogsForDay     = errors.New("no logs found for day")
	ErrPlanExists       = errors.New("workout plan already exists")
)

// DayPlan is the current week's prescription for one day.
type DayPlan struct {
	Week      int             `json:"week"`
	Day       int             `json:"day"`
	DayName   string          `json:"dayName"`
	Exercises []workout.Entry `json:"exercises"`
}

type LogRequest struct {
	Week          int       `json:"week"`
	Day           int       `json:"day"`
	Exercise      string    `json:"exercise"`
	ActualWeights []float64 `json:"actualWeights"`
	ActualReps    []int     `json:"actualReps"`
	RPE           *int      `json:"rpe,omitempty"`
}

type TransitionResult struct {
	FromWeek    int                      `json:"fromWeek"`
	ToWeek      int                      `json:"toWeek"`
	State       workout.ProgressionState `json:"state"`
	Source      string                   `json:"source"`
	Decisions   []progression.Decision   `json:"decisions"`
	ArchivePath string                   `json:"archivePath,omitempty"`
}

// Stats is the dashboard summary of the current week.
type Stats struct {
	CurrentWeek    int                     `json:"currentWeek"`
	BenchCycleWeek int                     `json:"benchCycleWeek"`
	BenchOneRepMax float64                 `json:"benchOneRepMax"`
	BenchSession   bench.Session           `json:"benchSession"`
	DayCompletion  []workout.DayCompletion `json:"dayCompletion"`
}

type ServiceParams struct {
	Store    Store
	Strategy progression.Strategy
	// MetricsManager defaults to an unregistered manager
	MetricsManager       *metrics.Manager
	ArchiveDir           string
	DefaultBenchRounding float64
	// Now defaults to time.Now
	Now func() time.Time
}

// Service is the weekly plan orchestrator and the read side of the workout plan.
type Service struct {
	store          Store
	strategy       progression.Strategy
	metricsManager *metrics.Manager
	archiveDir     string
	benchRounding  float64

	// serializes transitions within the process, the store lock covers other processes
	transitionMu sync.Mutex
	now          func() time.Time
}

func NewService(params ServiceParams) *Service {
	strategy := params.Strategy
	if strategy == nil {
		strategy = progression.NewDeterministic(progression.DefaultFallbackRepTarget)
	}
	benchRounding := params.DefaultBenchRounding
	if benchRounding <= 0 {
		benchRounding = DefaultBenchRounding
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewManager("gymai", "cli", prometheus.NewRegistry())
	}
	return &Service{
		store:          params.Store,
		strategy:       strategy,
		metricsManager: metricsManager,
		archiveDir:     params.ArchiveDir,
		benchRounding:  benchRounding,
		now:            now,
	}
}

func (s *Service) GetCurrentWeekPlan(ctx context.Context, day int) (_ *DayPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.currentweekplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("day", day))

	if day < workout.MinDay || day > workout.MaxDay {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}

	week, err := s.store.CurrentWeek(ctx)
	if err != nil {
		return nil, fmt.Errorf("current week: %w", err)
	}

	entries, err := s.store.ListPlan(ctx, week, day)
	if err != nil {
		return nil, fmt.Errorf("list plan: %w", err)
	}

	return &DayPlan{
		Week:      week,
		Day:       day,
		DayName:   workout.DayNames[day],
		Exercises: entries,
	}, nil
}

func (s *Service) RecordLog(ctx context.Context, req LogRequest) (_ *workout.LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.recordlog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entry := workout.LogEntry{
		LoggedAt:      s.now(),
		Week:          req.Week,
		Day:           req.Day,
		ExerciseKey:   workout.ExerciseKeyFor(req.Exercise),
		Exercise:      req.Exercise,
		ActualWeights: req.ActualWeights,
		ActualReps:    req.ActualReps,
		RPE:           req.RPE,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	added, err := s.store.AddLog(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("add log: %w", err)
	}
	s.metricsManager.CounterLogsRecorded.Inc()

	log.Debugf("plans: logged [%s] week %d day %d, reps %v", added.Exercise, added.Week, added.Day, added.ActualReps)
	return added, nil
}

// GetBenchCycleStatus projects the bench session of the current cycle week.
// It never advances the cycle.
func (s *Service) GetBenchCycleStatus(ctx context.Context) (_ *bench.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.benchstatus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := s.store.GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	rounding, err := s.benchRoundingFor(ctx)
	if err != nil {
		return nil, err
	}

	session := bench.SessionFor(state.BenchCycleWeek, state.BenchOneRepMax, rounding)
	return &session, nil
}

// benchRoundingFor uses the rounding of the bench exercise in the current plan,
// falling back to the configured default.
func (s *Service) benchRoundingFor(ctx context.Context) (float64, error) {
	week, err := s.store.CurrentWeek(ctx)
	if errors.Is(err, workout.ErrNoPlanFound) {
		return s.benchRounding, nil
	}
	if err != nil {
		return 0, fmt.Errorf("current week: %w", err)
	}

	entries, err := s.store.ListPlan(ctx, week, AllDays)
	if err != nil {
		return 0, fmt.Errorf("list plan: %w", err)
	}
	for _, e := range entries {
		if e.Strategy == workout.StrategyPeriodizedBench {
			return e.Rounding, nil
		}
	}
	return s.benchRounding, nil
}

func (s *Service) GetCompletionStatus(ctx context.Context, week int) (_ []workout.DayCompletion, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.completion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))

	entries, err := s.store.ListPlan(ctx, week, AllDays)
	if err != nil {
		return nil, fmt.Errorf("list plan: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("week %d: %w", week, workout.ErrNoPlanFound)
	}

	logs, err := s.store.ListLogs(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	return workout.CompletionByDay(entries, logs), nil
}

// TransitionToNextWeek archives the current week, progresses every exercise and
// commits the new week with the advanced state, all or nothing.
func (s *Service) TransitionToNextWeek(ctx context.Context) (_ *TransitionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.transition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	start := time.Now()
	defer func() {
		s.metricsManager.HistTransitionDuration.Observe(time.Since(start).Seconds())
		s.metricsManager.CounterTransitions.WithLabelValues(transitionResultLabel(err)).Inc()
	}()

	var (
		week    int
		result  *TransitionResult
		archive workout.WeekArchive
	)
	err = s.store.WithinTransition(ctx, func(ctx context.Context, tx TransitionTx) error {
		var err error
		week, err = tx.CurrentWeek(ctx)
		if err != nil {
			return err
		}

		plan, err := tx.ListPlan(ctx, week, AllDays)
		if err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: fmt.Errorf("list plan: %w", err)}
		}
		logs, err := tx.ListLogs(ctx, week)
		if err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: fmt.Errorf("list logs: %w", err)}
		}
		if missing := workout.MissingLogs(plan, logs); len(missing) > 0 {
			return &workout.IncompleteWeekError{Week: week, Missing: missing}
		}

		state, err := tx.GetState(ctx)
		if err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: fmt.Errorf("get state: %w", err)}
		}

		archive = workout.WeekArchive{
			Week:       week,
			Plan:       plan,
			Logs:       logs,
			ArchivedAt: s.now().UTC(),
		}
		if err := tx.SaveArchive(ctx, archive); err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: err}
		}

		out, err := s.strategy.NextWeek(ctx, progression.WeekInput{
			Week:  week,
			Plan:  plan,
			Logs:  logs,
			State: state,
		})
		if err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: fmt.Errorf("progression %s: %w", s.strategy.Name(), err)}
		}

		if err := tx.InsertPlan(ctx, out.Plan); err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: err}
		}
		if err := tx.SaveState(ctx, out.State); err != nil {
			return &workout.TransitionAbortedError{Week: week, Err: err}
		}

		result = &TransitionResult{
			FromWeek:  week,
			ToWeek:    out.Week,
			State:     out.State,
			Source:    out.Source,
			Decisions: out.Decisions,
		}
		return nil
	})
	if err != nil {
		var aborted *workout.TransitionAbortedError
		var incomplete *workout.IncompleteWeekError
		switch {
		case errors.Is(err, workout.ErrNoPlanFound) && week == 0,
			errors.As(err, &incomplete),
			errors.As(err, &aborted):
			return nil, err
		default:
			// lock, begin or commit failure
			return nil, &workout.TransitionAbortedError{Week: week, Err: err}
		}
	}

	for _, d := range result.Decisions {
		s.metricsManager.CounterProgressionDecisions.WithLabelValues(string(d.Action)).Inc()
	}
	s.metricsManager.GaugeCurrentWeek.Set(float64(result.ToWeek))
	s.metricsManager.GaugeBenchCycleWeek.Set(float64(result.State.BenchCycleWeek))

	if path, err := s.exportArchive(archive); err != nil {
		log.Errorf("plans: export archive of week %d: %s", archive.Week, err)
	} else {
		result.ArchivePath = path
	}

	log.Infof("plans: week %d -> %d done (%s), bench cycle week %d", result.FromWeek, result.ToWeek, result.Source, result.State.BenchCycleWeek)
	return result, nil
}

func transitionResultLabel(err error) string {
	var incomplete *workout.IncompleteWeekError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &incomplete):
		return "incomplete"
	case errors.Is(err, workout.ErrNoPlanFound):
		return "no_plan"
	default:
		return "aborted"
	}
}

// exportArchive writes the committed archive as JSON under the archive dir.
// The database copy is authoritative, so failures here are only logged.
func (s *Service) exportArchive(archive workout.WeekArchive) (string, error) {
	if s.archiveDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(s.archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	archiveJSON, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal archive: %w", err)
	}

	path := filepath.Join(s.archiveDir, fmt.Sprintf("week_%d.json", archive.Week))
	if err := os.WriteFile(path, archiveJSON, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return path, nil
}

func (s *Service) GetArchive(ctx context.Context, week int) (_ *workout.WeekArchive, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.getarchive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))

	archive, err := s.store.GetArchive(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("get archive: %w", err)
	}
	return archive, nil
}

func (s *Service) Stats(ctx context.Context) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := s.store.GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	session, err := s.GetBenchCycleStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		CurrentWeek:    1,
		BenchCycleWeek: state.BenchCycleWeek,
		BenchOneRepMax: state.BenchOneRepMax,
		BenchSession:   *session,
		DayCompletion:  workout.CompletionByDay(nil, nil),
	}

	week, err := s.store.CurrentWeek(ctx)
	if errors.Is(err, workout.ErrNoPlanFound) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current week: %w", err)
	}
	stats.CurrentWeek = week

	if stats.DayCompletion, err = s.GetCompletionStatus(ctx, week); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) SetOneRepMax(ctx context.Context, oneRepMax float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.setonerepmax")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if oneRepMax <= 0 || math.IsNaN(oneRepMax) || math.IsInf(oneRepMax, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidOneRepMax, oneRepMax)
	}
	if err := s.store.SetOneRepMax(ctx, oneRepMax); err != nil {
		return fmt.Errorf("set one rep max: %w", err)
	}
	log.Infof("plans: bench 1RM set to %v", oneRepMax)
	return nil
}

// CompleteDay snapshots what was logged for a day against its plan.
func (s *Service) CompleteDay(ctx context.Context, week, day int) (_ *DaySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.completeday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))
	span.SetAttributes(attribute.Int("day", day))

	if day < workout.MinDay || day > workout.MaxDay {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}

	entries, err := s.store.ListPlan(ctx, week, day)
	if err != nil {
		return nil, fmt.Errorf("list plan: %w", err)
	}
	logs, err := s.store.ListLogs(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	latest := workout.LatestLogs(logs)
	now := s.now()
	summary := DaySummary{
		Week:        week,
		Day:         day,
		CompletedOn: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Exercises:   make([]DayExercise, 0, len(entries)),
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		l, ok := latest[e.Key()]
		if !ok || seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		summary.Exercises = append(summary.Exercises, DayExercise{
			Exercise:      e.Exercise,
			ExerciseKey:   e.Key(),
			Strategy:      e.Strategy,
			PlannedSets:   e.Sets,
			PlannedReps:   e.TargetReps,
			ActualWeights: l.ActualWeights,
			ActualReps:    l.ActualReps,
			RPE:           l.RPE,
		})
	}
	if len(summary.Exercises) == 0 {
		return nil, fmt.Errorf("week %d day %d: %w", week, day, ErrNoLogsForDay)
	}

	if err := s.store.SaveDaySummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("save day summary: %w", err)
	}
	return &summary, nil
}

// VolumeSeries sums sets, reps and tonnage of every completed day.
func (s *Service) VolumeSeries(ctx context.Context) (_ []VolumePoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.volumeseries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	summaries, err := s.store.ListDaySummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list day summaries: %w", err)
	}

	series := make([]VolumePoint, 0, len(summaries))
	for _, summary := range summaries {
		point := VolumePoint{
			Date: summary.CompletedOn.Format(time.DateOnly),
			Week: summary.Week,
			Day:  summary.Day,
		}
		tonnage := 0.0
		for _, ex := range summary.Exercises {
			point.Sets += len(ex.ActualReps)
			for i, reps := range ex.ActualReps {
				point.Reps += reps
				if i < len(ex.ActualWeights) {
					tonnage += ex.ActualWeights[i] * float64(reps)
				}
			}
		}
		point.TonnageKg = math.Round(tonnage*10) / 10
		series = append(series, point)
	}
	return series, nil
}

// SeedInitialWeek writes the first week of the plan and the initial state.
// Fails with ErrPlanExists when any plan is already stored.
func (s *Service) SeedInitialWeek(ctx context.Context, entries []workout.Entry, state workout.ProgressionState) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.store.WithinTransition(ctx, func(ctx context.Context, tx TransitionTx) error {
		week, err := tx.CurrentWeek(ctx)
		if err == nil {
			return fmt.Errorf("%w: current week %d", ErrPlanExists, week)
		}
		if !errors.Is(err, workout.ErrNoPlanFound) {
			return err
		}

		if err := tx.InsertPlan(ctx, entries); err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		if err := tx.SaveState(ctx, state); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		return nil
	})
}
