package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/repcycle/internal/schedule"
)

func (h *handlers) todayPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	plan := map[string]any{"date": today.Format("2006-01-02")}

	next, err := h.ds.NextScheduled(ctx, uid, today)
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		plan["workout"] = nil
		plan["message"] = "no upcoming scheduled workouts"
	case err != nil:
		return nil, err
	default:
		exercises, err := h.ds.ScheduledExercisesFor(ctx, next.ID)
		if err != nil {
			h.log.Warn("today_plan: prescriptions query failed", "error", err)
		}
		plan["workout"] = next
		plan["exercises"] = exercises
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
