package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/schedule"
)

// HTTPClient implements DataSource by calling the RepCycle REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server, accessed over Tailscale. Identity comes from
// the Tailscale connection, so the userID arguments are ignored here.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("httpclient: %s: %w", path, schedule.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListCycles(ctx context.Context, _ int) ([]models.Cycle, error) {
	body, err := c.get(ctx, "/api/v1/cycles", nil)
	if err != nil {
		return nil, err
	}
	var cycles []models.Cycle
	if err := json.Unmarshal(body, &cycles); err != nil {
		return nil, fmt.Errorf("httpclient: decode cycles: %w", err)
	}
	return cycles, nil
}

func (c *HTTPClient) QuerySchedule(ctx context.Context, _ int, from, to time.Time) ([]models.ScheduledWorkout, error) {
	params := url.Values{}
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	body, err := c.get(ctx, "/api/v1/schedule", params)
	if err != nil {
		return nil, err
	}
	var workouts []models.ScheduledWorkout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode schedule: %w", err)
	}
	return workouts, nil
}

// workoutDetail matches the {workout, exercises} envelope the schedule
// detail endpoints return.
type workoutDetail struct {
	Workout   *models.ScheduledWorkout   `json:"workout"`
	Exercises []models.ScheduledExercise `json:"exercises"`
}

func (c *HTTPClient) NextScheduled(ctx context.Context, _ int, _ time.Time) (*models.ScheduledWorkout, error) {
	body, err := c.get(ctx, "/api/v1/schedule/next", nil)
	if err != nil {
		return nil, err
	}
	var detail workoutDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("httpclient: decode next workout: %w", err)
	}
	if detail.Workout == nil {
		return nil, schedule.ErrNotFound
	}
	return detail.Workout, nil
}

func (c *HTTPClient) ScheduledExercisesFor(ctx context.Context, workoutID uuid.UUID) ([]models.ScheduledExercise, error) {
	body, err := c.get(ctx, "/api/v1/schedule/"+workoutID.String(), nil)
	if err != nil {
		return nil, err
	}
	var detail workoutDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout detail: %w", err)
	}
	return detail.Exercises, nil
}

func (c *HTTPClient) ListPersonalRecords(ctx context.Context, _ int) ([]models.PersonalRecord, error) {
	body, err := c.get(ctx, "/api/v1/records", nil)
	if err != nil {
		return nil, err
	}
	var records []models.PersonalRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode records: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) ListWorkoutLogs(ctx context.Context, _ int, limit int) ([]models.WorkoutLog, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}
	var logs []models.WorkoutLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout logs: %w", err)
	}
	return logs, nil
}
