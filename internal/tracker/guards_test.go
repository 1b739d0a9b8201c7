package tracker

import (
	"errors"
	"testing"
)

func TestCanEnterAttendance(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AttendanceEnterContext
		wantAllowed bool
		wantKind    error
	}{
		{
			name:        "first entry of the day",
			ctx:         AttendanceEnterContext{WorkerID: 3, Date: "2024-05-01", AllowReentry: true},
			wantAllowed: true,
		},
		{
			name:        "already inside",
			ctx:         AttendanceEnterContext{WorkerID: 3, Date: "2024-05-01", HasOpenSession: true, SessionsToday: 1, AllowReentry: true},
			wantAllowed: false,
			wantKind:    ErrDuplicateOpenSession,
		},
		{
			name:        "re-entry after exit allowed",
			ctx:         AttendanceEnterContext{WorkerID: 3, Date: "2024-05-01", SessionsToday: 1, AllowReentry: true},
			wantAllowed: true,
		},
		{
			name:        "re-entry after exit refused",
			ctx:         AttendanceEnterContext{WorkerID: 3, Date: "2024-05-01", SessionsToday: 1, AllowReentry: false},
			wantAllowed: false,
			wantKind:    ErrDuplicateOpenSession,
		},
		{
			name:        "no re-entry policy still allows the first entry",
			ctx:         AttendanceEnterContext{WorkerID: 3, Date: "2024-05-01", AllowReentry: false},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanEnterAttendance(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if tt.wantKind != nil && !errors.Is(result.Error(), tt.wantKind) {
				t.Errorf("Error() = %v, want kind %v", result.Error(), tt.wantKind)
			}
			if tt.wantAllowed && result.Error() != nil {
				t.Errorf("Error() = %v, want nil", result.Error())
			}
		})
	}
}

func TestCanExitAttendance(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AttendanceExitContext
		wantAllowed bool
	}{
		{"inside", AttendanceExitContext{WorkerID: 3, Date: "2024-05-01", HasOpenSession: true}, true},
		{"not inside", AttendanceExitContext{WorkerID: 3, Date: "2024-05-01"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanExitAttendance(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && !errors.Is(result.Error(), ErrNoOpenSession) {
				t.Errorf("Error() = %v, want ErrNoOpenSession", result.Error())
			}
		})
	}
}

func TestUsageGuards(t *testing.T) {
	open := UsageContext{MachineID: 7, HasOpenSession: true}
	closed := UsageContext{MachineID: 7}

	if r := CanEnterUsage(closed); !r.Allowed {
		t.Errorf("enter on idle machine refused: %s", r.Reason)
	}
	if r := CanEnterUsage(open); r.Allowed || !errors.Is(r.Error(), ErrDuplicateOpenSession) {
		t.Errorf("enter on busy machine = %+v, want duplicate", r)
	}
	if r := CanExitUsage(open); !r.Allowed {
		t.Errorf("exit on busy machine refused: %s", r.Reason)
	}
	if r := CanExitUsage(closed); r.Allowed || !errors.Is(r.Error(), ErrNoOpenSession) {
		t.Errorf("exit on idle machine = %+v, want no open session", r)
	}
}
