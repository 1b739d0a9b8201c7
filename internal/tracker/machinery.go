package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/store"
)

// UsageMark is a request to start or end a machinery usage session. Optional fields
// left nil (or blank) are stored as null on entry and preserved on exit.
type UsageMark struct {
	MachineID    int64
	Type         string
	WorkerID     *int64
	WorkType     *string
	Tonnage      *float64
	OperatorName *string
	Notes        *string
}

// UsageTracker enforces the machinery usage state machine. Sessions are keyed only by
// machine: one left open yesterday still blocks today's entry.
type UsageTracker struct {
	store store.SessionStore
	clock Clock
}

// NewUsageTracker creates a machinery usage tracker.
func NewUsageTracker(s store.SessionStore, clock Clock) *UsageTracker {
	return &UsageTracker{store: s, clock: clock}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Mark applies an enter or exit transition and returns the created or closed session.
func (t *UsageTracker) Mark(ctx context.Context, req UsageMark) (*model.MachineryUsageSession, Transition, error) {
	if req.MachineID <= 0 {
		return nil, "", fmt.Errorf("%w: machine_id is required", ErrValidation)
	}
	transition, err := ParseTransition(req.Type, true)
	if err != nil {
		return nil, "", err
	}
	if req.Tonnage != nil && *req.Tonnage < 0 {
		return nil, "", fmt.Errorf("%w: tonnage must not be negative", ErrValidation)
	}
	if req.WorkerID != nil && *req.WorkerID <= 0 {
		req.WorkerID = nil
	}
	req.WorkType = blankToNil(req.WorkType)
	req.OperatorName = blankToNil(req.OperatorName)
	req.Notes = blankToNil(req.Notes)

	now, date := t.clock.today()

	var result *model.MachineryUsageSession
	err = t.store.Transaction(ctx, func(tx store.SessionStore) error {
		open, err := tx.FindOpenUsage(ctx, req.MachineID)
		if err != nil {
			return fmt.Errorf("failed to look up open usage for machine %d: %w", req.MachineID, err)
		}

		switch transition {
		case Enter:
			result, err = t.enter(ctx, tx, req, date, open, now)
		case Exit:
			result, err = t.exit(ctx, tx, req, open, now)
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return result, transition, nil
}

func (t *UsageTracker) enter(ctx context.Context, tx store.SessionStore, req UsageMark, date string, open *model.MachineryUsageSession, now time.Time) (*model.MachineryUsageSession, error) {
	if err := CanEnterUsage(UsageContext{MachineID: req.MachineID, HasOpenSession: open != nil}).Error(); err != nil {
		return nil, err
	}

	rec := &model.MachineryUsageSession{
		MachineID:    req.MachineID,
		WorkerID:     req.WorkerID,
		Date:         date,
		EntryTime:    now,
		WorkType:     req.WorkType,
		Tonnage:      req.Tonnage,
		OperatorName: req.OperatorName,
		Notes:        req.Notes,
	}
	if _, err := tx.InsertUsage(ctx, rec); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: machine %d already has an entry without exit", ErrDuplicateOpenSession, req.MachineID)
		}
		return nil, fmt.Errorf("failed to insert usage for machine %d: %w", req.MachineID, err)
	}
	return rec, nil
}

func (t *UsageTracker) exit(ctx context.Context, tx store.SessionStore, req UsageMark, open *model.MachineryUsageSession, now time.Time) (*model.MachineryUsageSession, error) {
	if err := CanExitUsage(UsageContext{MachineID: req.MachineID, HasOpenSession: open != nil}).Error(); err != nil {
		return nil, err
	}

	upd := store.UsageUpdate{
		ExitTime:     &now,
		WorkType:     req.WorkType,
		Tonnage:      req.Tonnage,
		OperatorName: req.OperatorName,
		Notes:        req.Notes,
	}
	n, err := tx.UpdateUsage(ctx, open.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to close usage %d: %w", open.ID, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: usage %d was closed concurrently", ErrNoOpenSession, open.ID)
	}

	open.ExitTime = &now
	if upd.WorkType != nil {
		open.WorkType = upd.WorkType
	}
	if upd.Tonnage != nil {
		open.Tonnage = upd.Tonnage
	}
	if upd.OperatorName != nil {
		open.OperatorName = upd.OperatorName
	}
	if upd.Notes != nil {
		open.Notes = upd.Notes
	}
	return open, nil
}
