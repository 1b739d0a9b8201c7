// Package tracker holds the two session state machines: worker attendance
// (one open "Dentro" session per worker and day) and machinery usage (one open
// session per machine). Each decision reads a fresh snapshot inside a store
// transaction; the store's partial unique indexes back the invariant under
// concurrency.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/store"
)

// AttendanceMark is a request to clock a worker in or out.
type AttendanceMark struct {
	WorkerID int64
	Type     string
	Method   string
}

// AttendanceTracker enforces the attendance state machine.
type AttendanceTracker struct {
	store        store.SessionStore
	clock        Clock
	allowReentry bool
}

// NewAttendanceTracker creates an attendance tracker. allowReentry permits a new
// entry after the worker has already exited on the same day.
func NewAttendanceTracker(s store.SessionStore, clock Clock, allowReentry bool) *AttendanceTracker {
	return &AttendanceTracker{store: s, clock: clock, allowReentry: allowReentry}
}

var markingMethods = map[string]string{
	"manual":     model.MarkManual,
	"qr":         model.MarkQR,
	"biometrico": model.MarkBiometric,
	"biometric":  model.MarkBiometric,
}

func normalizeMethod(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return model.MarkManual, nil
	}
	m, ok := markingMethods[v]
	if !ok {
		return "", fmt.Errorf("%w: marking_method %q must be manual, QR or biometrico", ErrValidation, raw)
	}
	return m, nil
}

// Mark applies an enter or exit transition and returns the created or closed
// session along with the transition that was applied.
func (t *AttendanceTracker) Mark(ctx context.Context, req AttendanceMark) (*model.AttendanceSession, Transition, error) {
	if req.WorkerID <= 0 {
		return nil, "", fmt.Errorf("%w: worker_id is required", ErrValidation)
	}
	transition, err := ParseTransition(req.Type, false)
	if err != nil {
		return nil, "", err
	}
	method, err := normalizeMethod(req.Method)
	if err != nil {
		return nil, "", err
	}

	now, date := t.clock.today()

	var result *model.AttendanceSession
	err = t.store.Transaction(ctx, func(tx store.SessionStore) error {
		open, err := tx.FindOpenAttendance(ctx, req.WorkerID, date)
		if err != nil {
			return fmt.Errorf("failed to look up open attendance for worker %d: %w", req.WorkerID, err)
		}

		switch transition {
		case Enter:
			result, err = t.enter(ctx, tx, req.WorkerID, date, method, open, now)
		case Exit:
			result, err = t.exit(ctx, tx, req.WorkerID, date, open, now)
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return result, transition, nil
}

func (t *AttendanceTracker) enter(ctx context.Context, tx store.SessionStore, workerID int64, date, method string, open *model.AttendanceSession, now time.Time) (*model.AttendanceSession, error) {
	guard := AttendanceEnterContext{
		WorkerID:       workerID,
		Date:           date,
		HasOpenSession: open != nil,
		AllowReentry:   t.allowReentry,
	}
	if !t.allowReentry && open == nil {
		n, err := tx.CountAttendanceOn(ctx, workerID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to count attendance for worker %d: %w", workerID, err)
		}
		guard.SessionsToday = n
	}
	if err := CanEnterAttendance(guard).Error(); err != nil {
		return nil, err
	}

	rec := &model.AttendanceSession{
		WorkerID:      workerID,
		Date:          date,
		EntryTime:     now,
		MarkingMethod: method,
		Status:        model.AttendanceInside,
	}
	if _, err := tx.InsertAttendance(ctx, rec); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: worker %d already has an open entry on %s", ErrDuplicateOpenSession, workerID, date)
		}
		return nil, fmt.Errorf("failed to insert attendance for worker %d: %w", workerID, err)
	}
	return rec, nil
}

func (t *AttendanceTracker) exit(ctx context.Context, tx store.SessionStore, workerID int64, date string, open *model.AttendanceSession, now time.Time) (*model.AttendanceSession, error) {
	guard := AttendanceExitContext{
		WorkerID:       workerID,
		Date:           date,
		HasOpenSession: open != nil && open.IsOpen(),
	}
	if err := CanExitAttendance(guard).Error(); err != nil {
		return nil, err
	}

	status := model.AttendanceOutside
	n, err := tx.UpdateAttendance(ctx, open.ID, store.AttendanceUpdate{ExitTime: &now, Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to close attendance %d: %w", open.ID, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: attendance %d was closed concurrently", ErrNoOpenSession, open.ID)
	}

	open.ExitTime = &now
	open.Status = status
	return open, nil
}
