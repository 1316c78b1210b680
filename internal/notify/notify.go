// Package notify delivers schedule events to a per-user webhook and records
// every attempt in the notification log. Delivery is best-effort by contract:
// nothing here ever fails a scheduling mutation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/schedule"
	"github.com/meltforce/repcycle/internal/storage"
)

var _ schedule.EventSink = (*Notifier)(nil)

// Notifier posts schedule events to the user's configured webhook.
type Notifier struct {
	db          *storage.DB
	client      *http.Client
	log         *slog.Logger
	fallbackURL string
}

// New creates a Notifier. fallbackURL is used for users without a webhook of
// their own; empty disables the fallback.
func New(db *storage.DB, fallbackURL string, log *slog.Logger) *Notifier {
	return &Notifier{
		db:          db,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
		fallbackURL: fallbackURL,
	}
}

// ScheduleEvent implements schedule.EventSink.
func (n *Notifier) ScheduleEvent(ctx context.Context, ev schedule.Event) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	settings, err := n.db.GetSettings(ctx, ev.UserID)
	if err != nil {
		n.log.Error("notify: loading settings", "user_id", ev.UserID, "error", err)
		return
	}
	url := settings.WebhookURL
	if url == "" {
		url = n.fallbackURL
	}
	if url == "" {
		return
	}

	entry := models.NotificationEntry{
		UserID:      ev.UserID,
		Type:        ev.Type,
		Channel:     "webhook",
		ReferenceID: ev.WorkoutID.String(),
		Status:      "sent",
	}
	if err := n.post(ctx, url, ev); err != nil {
		n.log.Warn("notify: webhook delivery failed", "type", ev.Type, "user_id", ev.UserID, "error", err)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	}
	if err := n.db.AppendNotification(ctx, entry); err != nil {
		n.log.Error("notify: recording notification", "error", err)
	}
}

func (n *Notifier) post(ctx context.Context, url string, ev schedule.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
