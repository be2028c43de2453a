package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS workout_plan (
	id             BIGSERIAL PRIMARY KEY,
	week_id        INTEGER NOT NULL CHECK (week_id > 0),
	day            INTEGER NOT NULL CHECK (day BETWEEN 1 AND 5),
	day_name       TEXT NOT NULL DEFAULT '',
	exercise_order INTEGER NOT NULL CHECK (exercise_order > 0),
	exercise_key   TEXT NOT NULL,
	exercise       TEXT NOT NULL,
	sets           INTEGER NOT NULL CHECK (sets > 0),
	target_reps    TEXT NOT NULL DEFAULT '',
	target_weights JSONB NOT NULL,
	strategy       TEXT NOT NULL,
	rounding       DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rounding >= 0),
	superset_group TEXT,
	UNIQUE (week_id, day, exercise_order)
);
CREATE INDEX IF NOT EXISTS workout_plan_week_day_exercise_idx ON workout_plan (week_id, day, exercise);
CREATE INDEX IF NOT EXISTS workout_plan_week_key_idx ON workout_plan (week_id, exercise_key);

CREATE TABLE IF NOT EXISTS workout_log (
	id             BIGSERIAL PRIMARY KEY,
	logged_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	week_id        INTEGER NOT NULL CHECK (week_id > 0),
	day            INTEGER NOT NULL CHECK (day BETWEEN 1 AND 5),
	exercise_key   TEXT NOT NULL,
	exercise       TEXT NOT NULL,
	actual_weights JSONB NOT NULL,
	actual_reps    JSONB NOT NULL,
	rpe            INTEGER CHECK (rpe BETWEEN 1 AND 10)
);
CREATE INDEX IF NOT EXISTS workout_log_week_day_exercise_idx ON workout_log (week_id, day, exercise);
CREATE INDEX IF NOT EXISTS workout_log_week_key_idx ON workout_log (week_id, exercise_key, logged_at DESC);

CREATE TABLE IF NOT EXISTS user_progression_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS week_archive (
	week_id     INTEGER PRIMARY KEY,
	plan        JSONB NOT NULL,
	logs        JSONB NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workout_day_summary (
	week_id      INTEGER NOT NULL,
	day          INTEGER NOT NULL,
	completed_on DATE NOT NULL,
	exercises    JSONB NOT NULL,
	PRIMARY KEY (week_id, day)
);
`

// Migrate creates the workout tables when missing. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
