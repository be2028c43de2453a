package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/internal/workout/plans"
)

// PlansReader is the read side of the plans service.
type PlansReader interface {
	GetCurrentWeekPlan(ctx context.Context, day int) (*plans.DayPlan, error)
	GetBenchCycleStatus(ctx context.Context) (*bench.Session, error)
	GetCompletionStatus(ctx context.Context, week int) ([]workout.DayCompletion, error)
	GetArchive(ctx context.Context, week int) (*workout.WeekArchive, error)
	Stats(ctx context.Context) (*plans.Stats, error)
	VolumeSeries(ctx context.Context) ([]plans.VolumePoint, error)
}

type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetStats(ctx context.Context) (*plans.Stats, error)
	GetWorkout(ctx context.Context, day int) (*plans.DayPlan, error)
	GetBenchStatus(ctx context.Context) (*bench.Session, error)
	GetCompletion(ctx context.Context, week int) (*WeekCompletion, error)
	GetArchive(ctx context.Context, week int) (*workout.WeekArchive, error)
	GetVolume(ctx context.Context) ([]plans.VolumePoint, error)
}

type WeekCompletion struct {
	Week int                     `json:"week"`
	Days []workout.DayCompletion `json:"days"`
}

// ContextService exposes read-only training data to MCP clients.
type ContextService struct {
	schema SchemaRepo
	plans  PlansReader
}

func NewContextService(schemaRepo SchemaRepo, plansReader PlansReader) *ContextService {
	return &ContextService{
		schema: schemaRepo,
		plans:  plansReader,
	}
}

// GetSchema returns the workout tables formatted as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetWorkoutColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatWorkoutSchema(cols), nil
}

func formatWorkoutSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Workout DB Schema\n\nNo workout tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Workout DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(workoutTables, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) GetStats(ctx context.Context) (*plans.Stats, error) {
	return s.plans.Stats(ctx)
}

func (s *ContextService) GetWorkout(ctx context.Context, day int) (*plans.DayPlan, error) {
	return s.plans.GetCurrentWeekPlan(ctx, day)
}

func (s *ContextService) GetBenchStatus(ctx context.Context) (*bench.Session, error) {
	return s.plans.GetBenchCycleStatus(ctx)
}

// GetCompletion reports per-day logging progress; week 0 means the current week.
func (s *ContextService) GetCompletion(ctx context.Context, week int) (*WeekCompletion, error) {
	if week <= 0 {
		stats, err := s.plans.Stats(ctx)
		if err != nil {
			return nil, err
		}
		week = stats.CurrentWeek
	}
	days, err := s.plans.GetCompletionStatus(ctx, week)
	if err != nil {
		return nil, err
	}
	return &WeekCompletion{Week: week, Days: days}, nil
}

func (s *ContextService) GetArchive(ctx context.Context, week int) (*workout.WeekArchive, error) {
	return s.plans.GetArchive(ctx, week)
}

func (s *ContextService) GetVolume(ctx context.Context) ([]plans.VolumePoint, error) {
	return s.plans.VolumeSeries(ctx)
}
