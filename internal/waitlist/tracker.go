// Package waitlist reconciles the live waitlist position against the record
// persisted between runs.
package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/qwertytam/mtlockyer/internal/models"
	"github.com/qwertytam/mtlockyer/internal/storage"
)

// Tracker compares a freshly scraped position against the saved state object
// and persists the outcome of every check.
type Tracker struct {
	store  storage.ObjectStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a tracker over the given store.
func NewTracker(store storage.ObjectStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Result reports one reconciliation pass.
type Result struct {
	Changed          bool
	Position         string
	PreviousPosition string
}

// Check compares posn against the saved record and persists the outcome. A
// change rewrites the record with both timestamps set to now; no change
// keeps the original change time and refreshes only last_updated. Positions
// are compared numerically so "05" and "5" are the same position.
func (t *Tracker) Check(ctx context.Context, posn string) (Result, error) {
	record, err := t.load(ctx)
	if err != nil {
		return Result{}, err
	}

	current, err := strconv.Atoi(posn)
	if err != nil {
		return Result{}, fmt.Errorf("parse live position %q: %w", posn, err)
	}
	previous, err := strconv.Atoi(record.WaitlistPosition)
	if err != nil {
		return Result{}, fmt.Errorf("parse saved position %q: %w", record.WaitlistPosition, err)
	}

	now := t.now().UTC().Format(models.TimeFormat)
	changed := current != previous
	if changed {
		record = models.WaitlistRecord{
			WaitlistDatetime: now,
			LastUpdated:      now,
			WaitlistPosition: posn,
		}
	} else {
		record.LastUpdated = now
	}

	if err := t.save(ctx, record); err != nil {
		return Result{}, err
	}

	t.logger.InfoContext(ctx, "waitlist position checked",
		slog.String("position", posn),
		slog.String("previous_position", strconv.Itoa(previous)),
		slog.Bool("changed", changed),
	)

	return Result{
		Changed:          changed,
		Position:         posn,
		PreviousPosition: strconv.Itoa(previous),
	}, nil
}

func (t *Tracker) load(ctx context.Context) (models.WaitlistRecord, error) {
	data, err := t.store.Get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		now := t.now().UTC().Format(models.TimeFormat)
		t.logger.InfoContext(ctx, "no saved state, starting from default record")
		return models.DefaultWaitlistRecord(now), nil
	}
	if err != nil {
		return models.WaitlistRecord{}, fmt.Errorf("load waitlist record: %w", err)
	}

	var record models.WaitlistRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return models.WaitlistRecord{}, fmt.Errorf("decode waitlist record: %w", err)
	}
	return record, nil
}

func (t *Tracker) save(ctx context.Context, record models.WaitlistRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode waitlist record: %w", err)
	}
	if err := t.store.Put(ctx, data); err != nil {
		return fmt.Errorf("save waitlist record: %w", err)
	}
	return nil
}
