package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// workoutPayload is the ingest wire format. Mirrors the server's request
// shape without importing server-side packages.
type workoutPayload struct {
	Login       string       `json:"login"`
	Name        string       `json:"name"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Sets        []setPayload `json:"sets"`
}

type setPayload struct {
	ExerciseName string  `json:"exercise_name"`
	SetNumber    int     `json:"set_number"`
	WeightKg     float64 `json:"weight_kg"`
	Reps         int     `json:"reps"`
	IsWarmup     bool    `json:"is_warmup"`
}

// payloadFromLogFile flattens a parsed log file into the wire format. Set
// numbers restart per exercise, warmups included.
func payloadFromLogFile(lf *LogFile, login string) workoutPayload {
	p := workoutPayload{
		Login:       login,
		Name:        lf.Name,
		StartedAt:   lf.StartedAt,
		CompletedAt: lf.EndedAt,
		Notes:       lf.Notes,
	}
	for _, ex := range lf.Exercises {
		for i, set := range ex.Sets {
			p.Sets = append(p.Sets, setPayload{
				ExerciseName: ex.Name,
				SetNumber:    i + 1,
				WeightKg:     set.WeightKg,
				Reps:         set.Reps,
				IsWarmup:     set.Warmup,
			})
		}
	}
	return p
}

// Client sends workout logs to the RepCycle server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	login      string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the RepCycle ingest endpoint.
func NewClient(serverURL, apiKey, login string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		login:     login,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendLog POSTs one workout log to the ingest endpoint.
// Retries up to 3 times with exponential backoff on failure.
func (c *Client) SendLog(lf *LogFile) error {
	data, err := json.Marshal(payloadFromLogFile(lf, c.login))
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/ingest/workouts", bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			return nil
		}
		// Client errors won't improve on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("server rejected log (status %d): %s", resp.StatusCode, body)
		}
		lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, body)
	}
	return fmt.Errorf("upload failed after retries: %w", lastErr)
}
