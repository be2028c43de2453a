package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the read-only training MCP server. The backend mounts it
// at /mcp over HTTP and cmd/gymai_mcp runs it over stdio.
func NewServer(schemaRepo SchemaRepo, plansReader PlansReader) *mcp.Server {
	h := NewHandler(NewContextService(schemaRepo, plansReader))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymai-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_schema",
		Description: "Returns the DB schema of the workout tables (plan, logs, progression state, archives, day summaries): columns, types, nullable, default.",
	}, h.GetSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_training_stats",
		Description: "Returns the current week, bench cycle week and 1RM, this week's bench session and per-day completion.",
	}, h.GetStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout",
		Description: "Returns the current week's plan for one training day (1 Push, 2 Pull, 3 Lower, 4 Chest & Back, 5 Arms): exercises, sets, rep targets, target weights.",
	}, h.GetWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_bench_status",
		Description: "Returns this week's periodized bench session: cycle phase, sets, reps, intensity and weight derived from the stored 1RM.",
	}, h.GetBenchStatusTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_completion",
		Description: "Returns planned vs logged exercises per day for a week (current week when omitted). Static exercises are not counted.",
	}, h.GetCompletionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_week_archive",
		Description: "Returns the archived plan and logs of a finished week.",
	}, h.GetArchiveTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_volume_series",
		Description: "Returns sets, reps and tonnage (kg) per completed training day. Use for volume trends.",
	}, h.GetVolumeTool())

	return s
}
