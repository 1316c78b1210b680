package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/schedule"
)

// shareAlphabet excludes ambiguous characters (0/O, 1/I/L).
const shareAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const shareCodeLen = 8

func newShareCode() (string, error) {
	buf := make([]byte, shareCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share code: %w", err)
	}
	var b strings.Builder
	for _, c := range buf {
		b.WriteByte(shareAlphabet[int(c)%len(shareAlphabet)])
	}
	return b.String(), nil
}

// CreateShare publishes a cycle under a fresh share code. Retries on the
// unlikely code collision.
func (db *DB) CreateShare(ctx context.Context, cycleID uuid.UUID, userID int, title, description string, isPublic bool) (*models.CycleShare, error) {
	for attempt := 0; attempt < 3; attempt++ {
		code, err := newShareCode()
		if err != nil {
			return nil, err
		}
		share := &models.CycleShare{
			ID:          uuid.New(),
			CycleID:     cycleID,
			UserID:      userID,
			ShareCode:   code,
			IsPublic:    isPublic,
			Title:       title,
			Description: description,
			CreatedAt:   time.Now().UTC(),
		}
		_, err = db.Pool.Exec(ctx,
			`INSERT INTO cycle_shares (id, cycle_id, user_id, share_code, is_public, title, description)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			share.ID, share.CycleID, share.UserID, share.ShareCode, share.IsPublic, share.Title, share.Description)
		if err != nil {
			if isUniqueViolation(err, "cycle_shares_share_code_key") {
				continue
			}
			return nil, fmt.Errorf("inserting share: %w", err)
		}
		return share, nil
	}
	return nil, fmt.Errorf("share code collision after retries")
}

// GetShareByCode looks up a share handle.
func (db *DB) GetShareByCode(ctx context.Context, code string) (*models.CycleShare, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, cycle_id, user_id, share_code, is_public, title, description, copy_count, created_at
		 FROM cycle_shares WHERE share_code = $1`,
		strings.ToUpper(strings.TrimSpace(code)))
	var s models.CycleShare
	err := row.Scan(&s.ID, &s.CycleID, &s.UserID, &s.ShareCode, &s.IsPublic,
		&s.Title, &s.Description, &s.CopyCount, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("share %s", code))
	}
	return &s, nil
}

// DeleteShare unpublishes a cycle. Only the owner may remove it.
func (db *DB) DeleteShare(ctx context.Context, code string, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM cycle_shares WHERE share_code = $1 AND user_id = $2`,
		strings.ToUpper(strings.TrimSpace(code)), userID)
	if err != nil {
		return fmt.Errorf("deleting share: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("share %s: %w", code, schedule.ErrNotFound)
	}
	return nil
}

// CopyFromShare clones the shared cycle into the caller's account and bumps
// the copy counter.
func (db *DB) CopyFromShare(ctx context.Context, code string, userID int, startDate time.Time) (*models.Cycle, error) {
	share, err := db.GetShareByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	clone, err := db.DeepCopyCycle(ctx, share.CycleID, userID, share.Title, startDate)
	if err != nil {
		return nil, err
	}
	if _, err := db.Pool.Exec(ctx,
		`UPDATE cycle_shares SET copy_count = copy_count + 1 WHERE id = $1`, share.ID); err != nil {
		return nil, fmt.Errorf("bumping copy count: %w", err)
	}
	return clone, nil
}
