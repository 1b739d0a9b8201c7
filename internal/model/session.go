package model

import "time"

// Attendance statuses. A worker is "Dentro" while the session is open.
const (
	AttendanceInside  = "Dentro"
	AttendanceOutside = "Fuera"
)

// Marking methods accepted for attendance.
const (
	MarkManual    = "manual"
	MarkQR        = "QR"
	MarkBiometric = "biometrico"
)

// AttendanceSession is one clock-in/clock-out cycle of a worker on a calendar day.
type AttendanceSession struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	WorkerID      int64      `gorm:"index:idx_attendance_worker_date;not null" json:"worker_id"`
	Date          string     `gorm:"size:10;index:idx_attendance_worker_date;not null" json:"date"` // YYYY-MM-DD
	EntryTime     time.Time  `gorm:"not null" json:"entry_time"`
	ExitTime      *time.Time `json:"exit_time"`
	MarkingMethod string     `gorm:"size:32;not null;default:manual" json:"marking_method"`
	Status        string     `gorm:"size:16;not null" json:"status"`
	Notes         *string    `gorm:"type:text" json:"notes"`

	Worker *Worker `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsOpen reports whether the worker is still inside. A zero exit time counts as unset.
func (s AttendanceSession) IsOpen() bool {
	return s.Status == AttendanceInside && (s.ExitTime == nil || s.ExitTime.IsZero())
}

// MachineryUsageSession is one usage cycle of a machine. It stays open until an exit is
// marked, regardless of the calendar day.
type MachineryUsageSession struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	MachineID    int64      `gorm:"index;not null" json:"machine_id"`
	WorkerID     *int64     `gorm:"index" json:"worker_id"`
	Date         string     `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	EntryTime    time.Time  `gorm:"not null" json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time"`
	WorkType     *string    `gorm:"size:128" json:"work_type"`
	Tonnage      *float64   `json:"tonnage"`
	OperatorName *string    `gorm:"size:256" json:"operator_name"`
	Notes        *string    `gorm:"type:text" json:"notes"`

	Machine *Machine `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"-"`
	Worker  *Worker  `gorm:"foreignKey:WorkerID;constraint:OnDelete:SET NULL" json:"-"`
}

// IsOpen reports whether the machine is still in use.
func (s MachineryUsageSession) IsOpen() bool {
	return s.ExitTime == nil || s.ExitTime.IsZero()
}

// AuditEntry records a write performed through the API.
type AuditEntry struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	RequestID  string    `gorm:"size:36;index" json:"request_id"`
	UserID     *int64    `gorm:"index" json:"user_id"`
	Username   string    `gorm:"size:64" json:"username"`
	RoleName   string    `gorm:"size:64" json:"role_name"`
	Module     string    `gorm:"size:64;not null" json:"module"`
	Action     string    `gorm:"size:32;not null" json:"action"`
	RecordID   *int64    `json:"record_id"`
	Detail     string    `gorm:"type:text" json:"detail"`
	IP         string    `gorm:"size:64" json:"ip"`
	UserAgent  string    `gorm:"size:512" json:"user_agent"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
}
