package mcp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SchemaRepo interface {
	GetWorkoutColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn is a column of one of the workout tables, in the column
// order of the information_schema query below.
type SchemaColumn struct {
	TableName  string
	ColumnName string
	DataType   string
	IsNullable string
	ColumnDef  *string
}

var workoutTables = []string{
	"workout_plan",
	"workout_log",
	"user_progression_state",
	"week_archive",
	"workout_day_summary",
}

// PoolSchemaRepo reads column metadata of the workout tables from Postgres.
type PoolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) *PoolSchemaRepo {
	return &PoolSchemaRepo{pool: pool}
}

func (r *PoolSchemaRepo) GetWorkoutColumns(ctx context.Context) ([]SchemaColumn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name, column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position
	`, workoutTables)
	if err != nil {
		return nil, fmt.Errorf("query workout columns: %w", err)
	}

	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[SchemaColumn])
	if err != nil {
		return nil, fmt.Errorf("collect workout columns: %w", err)
	}
	return cols, nil
}
