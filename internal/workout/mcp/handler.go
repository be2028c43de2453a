package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler adapts the context service to MCP tool calls. Service failures are
// reported as tool errors, never as protocol errors.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

type DayInput struct {
	Day int `json:"day" jsonschema:"Training day of the current week, 1 (Push) to 5 (Arms)"`
}

type WeekInput struct {
	Week int `json:"week,omitempty" jsonschema:"Week id; the current week when omitted"`
}

type ArchiveInput struct {
	Week int `json:"week" jsonschema:"Archived week id"`
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func (h *Handler) GetSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (h *Handler) GetStatsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		stats, err := h.service.GetStats(ctx)
		if err != nil {
			return errorResult("Error fetching stats: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

func (h *Handler) GetWorkoutTool() func(context.Context, *mcp.CallToolRequest, DayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayInput) (*mcp.CallToolResult, any, error) {
		if in.Day < 1 || in.Day > 5 {
			return errorResult("Invalid day: use 1 to 5"), nil, nil
		}
		dayPlan, err := h.service.GetWorkout(ctx, in.Day)
		if err != nil {
			return errorResult("Error fetching workout: " + err.Error()), nil, nil
		}
		return jsonResult(dayPlan), nil, nil
	}
}

func (h *Handler) GetBenchStatusTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		session, err := h.service.GetBenchStatus(ctx)
		if err != nil {
			return errorResult("Error fetching bench status: " + err.Error()), nil, nil
		}
		return jsonResult(session), nil, nil
	}
}

func (h *Handler) GetCompletionTool() func(context.Context, *mcp.CallToolRequest, WeekInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeekInput) (*mcp.CallToolResult, any, error) {
		if in.Week < 0 {
			return errorResult("Invalid week: must not be negative"), nil, nil
		}
		completion, err := h.service.GetCompletion(ctx, in.Week)
		if err != nil {
			return errorResult("Error fetching completion: " + err.Error()), nil, nil
		}
		return jsonResult(completion), nil, nil
	}
}

func (h *Handler) GetArchiveTool() func(context.Context, *mcp.CallToolRequest, ArchiveInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ArchiveInput) (*mcp.CallToolResult, any, error) {
		if in.Week < 1 {
			return errorResult("Invalid week: use a week id of 1 or more"), nil, nil
		}
		archive, err := h.service.GetArchive(ctx, in.Week)
		if err != nil {
			return errorResult("Error fetching archive: " + err.Error()), nil, nil
		}
		return jsonResult(archive), nil, nil
	}
}

func (h *Handler) GetVolumeTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		series, err := h.service.GetVolume(ctx)
		if err != nil {
			return errorResult("Error fetching volume: " + err.Error()), nil, nil
		}
		return jsonResult(series), nil, nil
	}
}
