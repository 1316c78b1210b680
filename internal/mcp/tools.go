package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultDateRange returns from/to defaulting to this week through 4 weeks out.
func defaultDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		now := time.Now().UTC()
		from = now.AddDate(0, 0, -int(now.Weekday()))
	}

	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		to = from.AddDate(0, 0, 28)
	}

	return from, to, nil
}

var toolGetCycles = mcp.NewTool("get_cycles",
	mcp.WithDescription("List the user's training cycles with status, split type, and date range."),
)

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Retrieve scheduled workouts in a date range, including status (scheduled/completed/skipped/missed) and week numbers."),
	mcp.WithString("from", mcp.Description("Start date (YYYY-MM-DD). Defaults to the start of the current week.")),
	mcp.WithString("to", mcp.Description("End date (YYYY-MM-DD). Defaults to 4 weeks after 'from'.")),
)

var toolGetNextWorkout = mcp.NewTool("get_next_workout",
	mcp.WithDescription("The next upcoming scheduled workout with its exercise prescriptions (sets, rep ranges, rest)."),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Current personal records per exercise, ranked by estimated one-rep max."),
)

var toolGetWorkoutLogs = mcp.NewTool("get_workout_logs",
	mcp.WithDescription("Recently logged workouts, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of logs to return. Defaults to 20.")),
)

func (h *handlers) getCycles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	cycles, err := h.ds.ListCycles(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_cycles", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(cycles)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, err := defaultDateRange(req.GetString("from", ""), req.GetString("to", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	uid := UserIDFromContext(ctx)

	workouts, err := h.ds.QuerySchedule(ctx, uid, from, to)
	if err != nil {
		h.log.Error("mcp get_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNextWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	next, err := h.ds.NextScheduled(ctx, uid, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		h.log.Error("mcp get_next_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	exercises, err := h.ds.ScheduledExercisesFor(ctx, next.ID)
	if err != nil {
		h.log.Error("mcp get_next_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(map[string]any{"workout": next, "exercises": exercises})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	records, err := h.ds.ListPersonalRecords(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	uid := UserIDFromContext(ctx)

	logs, err := h.ds.ListWorkoutLogs(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_workout_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
