package tracker

import "fmt"

// GuardResult is the outcome of a transition guard. Guards are pure: they decide
// from a snapshot read inside the caller's transaction.
type GuardResult struct {
	Allowed bool
	Kind    error
	Reason  string
}

// Error converts the guard result to an error wrapping Kind if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", r.Kind, r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AttendanceEnterContext is the snapshot needed to decide an attendance entry.
type AttendanceEnterContext struct {
	WorkerID       int64
	Date           string
	HasOpenSession bool
	SessionsToday  int64
	AllowReentry   bool
}

// CanEnterAttendance evaluates whether a worker may clock in.
// Rules:
// - No session of the worker may be "Dentro" on the same day
// - Without re-entry, no session of the worker may exist on the same day at all
func CanEnterAttendance(ctx AttendanceEnterContext) GuardResult {
	if ctx.HasOpenSession {
		return deny(ErrDuplicateOpenSession,
			"worker %d already has an open entry on %s", ctx.WorkerID, ctx.Date)
	}
	if !ctx.AllowReentry && ctx.SessionsToday > 0 {
		return deny(ErrDuplicateOpenSession,
			"worker %d already completed an attendance cycle on %s", ctx.WorkerID, ctx.Date)
	}
	return allow()
}

// AttendanceExitContext is the snapshot needed to decide an attendance exit.
type AttendanceExitContext struct {
	WorkerID       int64
	Date           string
	HasOpenSession bool
}

// CanExitAttendance evaluates whether a worker may clock out.
// Rules:
// - The worker must have an entry on the same day that is still "Dentro"
func CanExitAttendance(ctx AttendanceExitContext) GuardResult {
	if !ctx.HasOpenSession {
		return deny(ErrNoOpenSession,
			"no prior entry to close for worker %d on %s", ctx.WorkerID, ctx.Date)
	}
	return allow()
}

// UsageContext is the snapshot needed to decide a machinery transition.
type UsageContext struct {
	MachineID      int64
	HasOpenSession bool
}

// CanEnterUsage evaluates whether a machine may start a usage session.
// Rules:
// - The machine must not have any session without an exit time, whatever its date
func CanEnterUsage(ctx UsageContext) GuardResult {
	if ctx.HasOpenSession {
		return deny(ErrDuplicateOpenSession,
			"machine %d already has an entry without exit; mark the exit first", ctx.MachineID)
	}
	return allow()
}

// CanExitUsage evaluates whether a machine's usage session may be closed.
// Rules:
// - The machine must have a session without an exit time
func CanExitUsage(ctx UsageContext) GuardResult {
	if !ctx.HasOpenSession {
		return deny(ErrNoOpenSession,
			"machine %d has no open entry to close; mark the entry first", ctx.MachineID)
	}
	return allow()
}
