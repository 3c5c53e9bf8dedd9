package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
)

// Entry describes one administrative action.
type Entry struct {
	UserID     uint64
	Action     Action
	EntityType EntityType
	EntityID   *uint64
	EntityName string
	Changes    *Changes
	IPAddress  string
	UserAgent  string
	Metadata   map[string]any
}

// Outcome reports what happened to an entry. Err is informational only,
// callers are not expected to act on it.
type Outcome struct {
	Recorded bool
	Err      error
}

// Store persists audit records.
type Store interface {
	Insert(ctx context.Context, rec *models.AuditLog) error
}

// Writer appends entries to a Store without ever failing the caller.
type Writer struct {
	store    Store
	failures *prometheus.CounterVec
}

// NewWriter returns a Writer backed by store.
func NewWriter(store Store) *Writer {
	return &Writer{
		store:    store,
		failures: failureCounter(),
	}
}

// LogAdminAction stores e. Errors and panics of the store are recovered,
// logged and counted; they are reported in the Outcome and never returned
// as an error.
func (w *Writer) LogAdminAction(ctx context.Context, e Entry) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = w.fail(e, fmt.Errorf("%w: %v", ErrStorePanic, r))
		}
	}()

	if w == nil || w.store == nil {
		return Outcome{Err: ErrNoStore}
	}

	rec, err := e.record()
	if err != nil {
		return w.fail(e, err)
	}

	if err = w.store.Insert(ctx, rec); err != nil {
		return w.fail(e, err)
	}

	return Outcome{Recorded: true}
}

func (w *Writer) fail(e Entry, err error) Outcome {
	log.Error().Err(err).
		Uint64("user", e.UserID).
		Str("action", string(e.Action)).
		Str("entityType", string(e.EntityType)).
		Msg("audit entry dropped")

	if w.failures != nil {
		w.failures.WithLabelValues(string(e.EntityType), string(e.Action)).Inc()
	}

	return Outcome{Err: err}
}

// record converts e into its persisted form.
func (e Entry) record() (*models.AuditLog, error) {
	rec := &models.AuditLog{
		UserID:     e.UserID,
		Action:     string(e.Action),
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		EntityName: e.EntityName,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
	}

	if e.Changes != nil {
		raw, err := json.Marshal(e.Changes)
		if err != nil {
			return nil, fmt.Errorf("encode changes: %w", err)
		}

		rec.Changes = datatypes.JSON(raw)
	}

	if len(e.Metadata) > 0 {
		rec.Metadata = datatypes.JSONMap(e.Metadata)
	}

	return rec, nil
}
