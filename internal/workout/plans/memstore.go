package plans

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sterrysx/gymai/internal/workout"
)

type memState struct {
	plan      []workout.Entry
	logs      []workout.LogEntry
	progress  workout.ProgressionState
	archives  map[int]workout.WeekArchive
	summaries map[[2]int]DaySummary
	lastPlan  int64
	lastLog   int64
}

func newMemState() memState {
	return memState{
		archives:  make(map[int]workout.WeekArchive),
		summaries: make(map[[2]int]DaySummary),
	}
}

func (s memState) clone() memState {
	c := memState{
		plan:      make([]workout.Entry, len(s.plan)),
		logs:      make([]workout.LogEntry, len(s.logs)),
		progress:  s.progress,
		archives:  make(map[int]workout.WeekArchive, len(s.archives)),
		summaries: make(map[[2]int]DaySummary, len(s.summaries)),
		lastPlan:  s.lastPlan,
		lastLog:   s.lastLog,
	}
	for i, e := range s.plan {
		c.plan[i] = e.Clone()
	}
	copy(c.logs, s.logs)
	for k, v := range s.archives {
		c.archives[k] = v
	}
	for k, v := range s.summaries {
		c.summaries[k] = v
	}
	return c
}

func (s *memState) currentWeek() (int, error) {
	week := 0
	for _, e := range s.plan {
		week = max(week, e.Week)
	}
	if week == 0 {
		return 0, workout.ErrNoPlanFound
	}
	return week, nil
}

func (s *memState) listPlan(week, day int) []workout.Entry {
	entries := make([]workout.Entry, 0)
	for _, e := range s.plan {
		if e.Week == week && (day == AllDays || e.Day == day) {
			entries = append(entries, e.Clone())
		}
	}
	workout.SortPlan(entries)
	return entries
}

func (s *memState) listLogs(week int) []workout.LogEntry {
	logs := make([]workout.LogEntry, 0)
	for _, l := range s.logs {
		if l.Week == week {
			logs = append(logs, l)
		}
	}
	return logs
}

// MemStore keeps everything in process memory. Transitions work on a copy of
// the state that replaces the live state only when the transition succeeds.
type MemStore struct {
	mu    sync.RWMutex
	state memState
	now   func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		state: newMemState(),
		now:   time.Now,
	}
}

func (m *MemStore) CurrentWeek(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.currentWeek()
}

func (m *MemStore) ListPlan(_ context.Context, week, day int) ([]workout.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.listPlan(week, day), nil
}

func (m *MemStore) ListLogs(_ context.Context, week int) ([]workout.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.listLogs(week), nil
}

func (m *MemStore) AddLog(_ context.Context, l workout.LogEntry) (*workout.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := l.Key()
	var planned *workout.Entry
	for i, e := range m.state.plan {
		if e.Week == l.Week && e.Day == l.Day && (e.Key() == key || e.Exercise == l.Exercise) {
			planned = &m.state.plan[i]
			break
		}
	}
	if planned == nil {
		return nil, fmt.Errorf("%w: [%s] week %d day %d", workout.ErrExerciseNotPlanned, l.Exercise, l.Week, l.Day)
	}

	m.state.lastLog++
	l.ID = m.state.lastLog
	l.ExerciseKey = planned.Key()
	l.Exercise = planned.Exercise
	if l.LoggedAt.IsZero() {
		l.LoggedAt = m.now()
	}
	l.ActualWeights = append([]float64(nil), l.ActualWeights...)
	l.ActualReps = append([]int(nil), l.ActualReps...)
	m.state.logs = append(m.state.logs, l)

	return &l, nil
}

func (m *MemStore) GetState(_ context.Context) (workout.ProgressionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return withStateDefaults(m.state.progress), nil
}

func (m *MemStore) SetOneRepMax(_ context.Context, oneRepMax float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.progress.BenchOneRepMax = oneRepMax
	return nil
}

func (m *MemStore) GetArchive(_ context.Context, week int) (*workout.WeekArchive, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	archive, ok := m.state.archives[week]
	if !ok {
		return nil, fmt.Errorf("week %d: %w", week, workout.ErrArchiveNotFound)
	}
	return &archive, nil
}

func (m *MemStore) SaveDaySummary(_ context.Context, summary DaySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.summaries[[2]int{summary.Week, summary.Day}] = summary
	return nil
}

func (m *MemStore) ListDaySummaries(_ context.Context) ([]DaySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]DaySummary, 0, len(m.state.summaries))
	for _, s := range m.state.summaries {
		summaries = append(summaries, s)
	}
	sortDaySummaries(summaries)
	return summaries, nil
}

func (m *MemStore) WithinTransition(ctx context.Context, fn func(ctx context.Context, tx TransitionTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft := m.state.clone()
	if err := fn(ctx, &memTx{state: &draft}); err != nil {
		return err
	}
	m.state = draft
	return nil
}

type memTx struct {
	state *memState
}

func (tx *memTx) CurrentWeek(_ context.Context) (int, error) {
	return tx.state.currentWeek()
}

func (tx *memTx) ListPlan(_ context.Context, week, day int) ([]workout.Entry, error) {
	return tx.state.listPlan(week, day), nil
}

func (tx *memTx) ListLogs(_ context.Context, week int) ([]workout.LogEntry, error) {
	return tx.state.listLogs(week), nil
}

func (tx *memTx) GetState(_ context.Context) (workout.ProgressionState, error) {
	return withStateDefaults(tx.state.progress), nil
}

// SaveArchive keeps the first archive written for a week.
func (tx *memTx) SaveArchive(_ context.Context, archive workout.WeekArchive) error {
	if _, ok := tx.state.archives[archive.Week]; ok {
		return nil
	}
	tx.state.archives[archive.Week] = archive
	return nil
}

func (tx *memTx) InsertPlan(_ context.Context, entries []workout.Entry) error {
	taken := make(map[[3]int]bool, len(tx.state.plan))
	for _, e := range tx.state.plan {
		taken[[3]int{e.Week, e.Day, e.Order}] = true
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		slot := [3]int{e.Week, e.Day, e.Order}
		if taken[slot] {
			return fmt.Errorf("%w: week %d day %d order %d", ErrPlanSlotTaken, e.Week, e.Day, e.Order)
		}
		taken[slot] = true

		tx.state.lastPlan++
		e = e.Clone()
		e.ID = tx.state.lastPlan
		e.ExerciseKey = e.Key()
		tx.state.plan = append(tx.state.plan, e)
	}
	return nil
}

func (tx *memTx) SaveState(_ context.Context, state workout.ProgressionState) error {
	tx.state.progress = state
	return nil
}

func withStateDefaults(s workout.ProgressionState) workout.ProgressionState {
	if s.BenchCycleWeek == 0 {
		s.BenchCycleWeek = workout.DefaultBenchCycleWeek
	}
	if s.BenchOneRepMax <= 0 {
		s.BenchOneRepMax = workout.DefaultBenchOneRepMax
	}
	return s
}

func sortDaySummaries(summaries []DaySummary) {
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.CompletedOn.Equal(b.CompletedOn) {
			return a.CompletedOn.Before(b.CompletedOn)
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Day < b.Day
	})
}
