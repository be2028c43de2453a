package plans

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/pkg"
)

// transitionLockKey identifies the advisory lock guarding plan transitions.
// Transitions take it exclusively, log writes take it shared.
const transitionLockKey int64 = 0x67796d6169

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) CurrentWeek(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.currentweek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return currentWeek(ctx, r.db)
}

func (r *Repo) ListPlan(ctx context.Context, week, day int) (_ []workout.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.listplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))
	span.SetAttributes(attribute.Int("day", day))
	return listPlan(ctx, r.db, week, day)
}

func (r *Repo) ListLogs(ctx context.Context, week int) (_ []workout.LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.listlogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))
	return listLogs(ctx, r.db, week)
}

func (r *Repo) AddLog(ctx context.Context, l workout.LogEntry) (_ *workout.LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.addlog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", l.Week))
	span.SetAttributes(attribute.Int("day", l.Day))
	span.SetAttributes(attribute.String("exercise", l.Exercise))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// waits for any in-flight transition to finish
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock_shared($1)`, transitionLockKey); err != nil {
		return nil, fmt.Errorf("acquire log lock: %w", err)
	}

	err = tx.QueryRow(ctx, `
		SELECT exercise_key, exercise
		FROM workout_plan
		WHERE week_id = $1 AND day = $2 AND (exercise_key = $3 OR exercise = $4)
		ORDER BY exercise_order
		LIMIT 1
	`, l.Week, l.Day, l.Key(), l.Exercise).Scan(&l.ExerciseKey, &l.Exercise)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: [%s] week %d day %d", workout.ErrExerciseNotPlanned, l.Exercise, l.Week, l.Day)
	}
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO workout_log (week_id, day, exercise_key, exercise, actual_weights, actual_reps, rpe)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, logged_at
	`,
		l.Week, l.Day, l.ExerciseKey, l.Exercise,
		l.ActualWeights, l.ActualReps, l.RPE,
	).Scan(&l.ID, &l.LoggedAt)
	if pkg.IsCheckViolationError(err) {
		return nil, fmt.Errorf("%w: %s", workout.ErrInvalidLog, err)
	}
	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *Repo) GetState(ctx context.Context) (_ workout.ProgressionState, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.getstate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return getState(ctx, r.db)
}

func (r *Repo) SetOneRepMax(ctx context.Context, oneRepMax float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.setonerepmax")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Float64("one-rep-max", oneRepMax))

	_, err = r.db.Exec(ctx, `
		INSERT INTO user_progression_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, workout.StateKeyBenchOneRepMax, strconv.FormatFloat(oneRepMax, 'f', -1, 64))
	return err
}

func (r *Repo) GetArchive(ctx context.Context, week int) (_ *workout.WeekArchive, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.getarchive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))

	archive := &workout.WeekArchive{}
	err = r.db.QueryRow(ctx, `
		SELECT week_id, plan, logs, archived_at
		FROM week_archive
		WHERE week_id = $1
	`, week).Scan(&archive.Week, &archive.Plan, &archive.Logs, &archive.ArchivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("week %d: %w", week, workout.ErrArchiveNotFound)
	}
	if err != nil {
		return nil, err
	}
	return archive, nil
}

func (r *Repo) SaveDaySummary(ctx context.Context, summary DaySummary) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.savedaysummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		INSERT INTO workout_day_summary (week_id, day, completed_on, exercises)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (week_id, day) DO UPDATE
			SET completed_on = EXCLUDED.completed_on, exercises = EXCLUDED.exercises
	`, summary.Week, summary.Day, summary.CompletedOn, summary.Exercises)
	return err
}

func (r *Repo) ListDaySummaries(ctx context.Context) (_ []DaySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.listdaysummaries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT week_id, day, completed_on, exercises
		FROM workout_day_summary
		ORDER BY completed_on, week_id, day
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]DaySummary, 0)
	for rows.Next() {
		var s DaySummary
		if err := rows.Scan(&s.Week, &s.Day, &s.CompletedOn, &s.Exercises); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *Repo) WithinTransition(ctx context.Context, fn func(ctx context.Context, tx TransitionTx) error) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.transition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, transitionLockKey); err != nil {
		return fmt.Errorf("acquire transition lock: %w", err)
	}

	return fn(ctx, &repoTx{tx: tx})
}

type repoTx struct {
	tx pgx.Tx
}

func (t *repoTx) CurrentWeek(ctx context.Context) (int, error) {
	return currentWeek(ctx, t.tx)
}

func (t *repoTx) ListPlan(ctx context.Context, week, day int) ([]workout.Entry, error) {
	return listPlan(ctx, t.tx, week, day)
}

func (t *repoTx) ListLogs(ctx context.Context, week int) ([]workout.LogEntry, error) {
	return listLogs(ctx, t.tx, week)
}

func (t *repoTx) GetState(ctx context.Context) (workout.ProgressionState, error) {
	return getState(ctx, t.tx)
}

// SaveArchive writes the archive of a closed week. A week is archived once,
// later writes for the same week are ignored.
func (t *repoTx) SaveArchive(ctx context.Context, archive workout.WeekArchive) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO week_archive (week_id, plan, logs, archived_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (week_id) DO NOTHING
	`, archive.Week, archive.Plan, archive.Logs, archive.ArchivedAt)
	if err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}

func (t *repoTx) InsertPlan(ctx context.Context, entries []workout.Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO workout_plan (
				week_id, day, day_name, exercise_order, exercise_key, exercise,
				sets, target_reps, target_weights, strategy, rounding, superset_group
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			e.Week, e.Day, e.DayName, e.Order, e.Key(), e.Exercise,
			e.Sets, e.TargetReps, e.TargetWeights, string(e.Strategy), e.Rounding, e.SupersetGroup,
		)
	}

	results := t.tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if pkg.IsUniqueViolationError(err) {
				return fmt.Errorf("insert plan: %w: %s", ErrPlanSlotTaken, err)
			}
			return fmt.Errorf("insert plan: %w", err)
		}
	}
	return results.Close()
}

func (t *repoTx) SaveState(ctx context.Context, state workout.ProgressionState) error {
	batch := &pgx.Batch{}
	for key, value := range map[string]string{
		workout.StateKeyBenchCycleWeek: strconv.Itoa(state.BenchCycleWeek),
		workout.StateKeyBenchOneRepMax: strconv.FormatFloat(state.BenchOneRepMax, 'f', -1, 64),
	} {
		batch.Queue(`
			INSERT INTO user_progression_state (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, key, value)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func currentWeek(ctx context.Context, q querier) (int, error) {
	var week *int
	if err := q.QueryRow(ctx, `SELECT MAX(week_id) FROM workout_plan`).Scan(&week); err != nil {
		return 0, err
	}
	if week == nil {
		return 0, workout.ErrNoPlanFound
	}
	return *week, nil
}

func listPlan(ctx context.Context, q querier, week, day int) ([]workout.Entry, error) {
	rows, err := q.Query(ctx, `
		SELECT
			id, week_id, day, day_name, exercise_order, exercise_key, exercise,
			sets, target_reps, target_weights, strategy, rounding, superset_group
		FROM workout_plan
		WHERE week_id = $1 AND ($2 = 0 OR day = $2)
		ORDER BY day, exercise_order
	`, week, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]workout.Entry, 0)
	for rows.Next() {
		var e workout.Entry
		var strategy string
		if err := rows.Scan(
			&e.ID, &e.Week, &e.Day, &e.DayName, &e.Order, &e.ExerciseKey, &e.Exercise,
			&e.Sets, &e.TargetReps, &e.TargetWeights, &strategy, &e.Rounding, &e.SupersetGroup,
		); err != nil {
			return nil, err
		}
		e.Strategy = workout.Strategy(strategy)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func listLogs(ctx context.Context, q querier, week int) ([]workout.LogEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT id, logged_at, week_id, day, exercise_key, exercise, actual_weights, actual_reps, rpe
		FROM workout_log
		WHERE week_id = $1
		ORDER BY id
	`, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]workout.LogEntry, 0)
	for rows.Next() {
		var l workout.LogEntry
		if err := rows.Scan(
			&l.ID, &l.LoggedAt, &l.Week, &l.Day, &l.ExerciseKey, &l.Exercise,
			&l.ActualWeights, &l.ActualReps, &l.RPE,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func getState(ctx context.Context, q querier) (workout.ProgressionState, error) {
	rows, err := q.Query(ctx, `SELECT key, value FROM user_progression_state`)
	if err != nil {
		return workout.ProgressionState{}, err
	}
	defer rows.Close()

	var state workout.ProgressionState
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return workout.ProgressionState{}, err
		}
		switch key {
		case workout.StateKeyBenchCycleWeek:
			if state.BenchCycleWeek, err = strconv.Atoi(value); err != nil {
				return workout.ProgressionState{}, fmt.Errorf("parse %s: %w", key, err)
			}
		case workout.StateKeyBenchOneRepMax:
			if state.BenchOneRepMax, err = strconv.ParseFloat(value, 64); err != nil {
				return workout.ProgressionState{}, fmt.Errorf("parse %s: %w", key, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return workout.ProgressionState{}, err
	}
	return withStateDefaults(state), nil
}
