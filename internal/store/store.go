package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"minecontrol-backend/internal/model"
)

// SessionStore is the persistence contract the session trackers depend on. Find
// methods return (nil, nil) when no open session exists; a missing session is a
// normal outcome, not an error.
type SessionStore interface {
	// Transaction runs fn against a SessionStore bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx SessionStore) error) error

	FindOpenAttendance(ctx context.Context, workerID int64, date string) (*model.AttendanceSession, error)
	CountAttendanceOn(ctx context.Context, workerID int64, date string) (int64, error)
	InsertAttendance(ctx context.Context, rec *model.AttendanceSession) (int64, error)
	UpdateAttendance(ctx context.Context, id int64, upd AttendanceUpdate) (int64, error)

	FindOpenUsage(ctx context.Context, machineID int64) (*model.MachineryUsageSession, error)
	InsertUsage(ctx context.Context, rec *model.MachineryUsageSession) (int64, error)
	UpdateUsage(ctx context.Context, id int64, upd UsageUpdate) (int64, error)
}

// Store defines the interface for all database operations.
type Store interface {
	SessionStore

	// DB exposes the underlying handle for plain CRUD.
	DB() *gorm.DB

	AttendanceReport(ctx context.Context, r DateRange) ([]AttendanceRow, error)
	WorkerReport(ctx context.Context) ([]model.Worker, error)
	MachineReport(ctx context.Context) ([]model.Machine, error)
	UsageReport(ctx context.Context, r DateRange) ([]UsageRow, error)
	Statistics(ctx context.Context, r DateRange) (*Statistics, error)
}

// AttendanceUpdate lists the attendance columns an update may touch. Nil fields are
// left as stored.
type AttendanceUpdate struct {
	ExitTime *time.Time
	Status   *string
	Notes    *string
}

// UsageUpdate lists the usage columns an update may touch. Nil fields are left as
// stored, which gives the coalescing merge applied when a machine is released.
type UsageUpdate struct {
	ExitTime     *time.Time
	WorkType     *string
	Tonnage      *float64
	OperatorName *string
	Notes        *string
}

func (u AttendanceUpdate) columns() map[string]any {
	fields := make(map[string]any, 3)
	if u.ExitTime != nil {
		fields["exit_time"] = *u.ExitTime
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}

func (u UsageUpdate) columns() map[string]any {
	fields := make(map[string]any, 5)
	if u.ExitTime != nil {
		fields["exit_time"] = *u.ExitTime
	}
	if u.WorkType != nil {
		fields["work_type"] = *u.WorkType
	}
	if u.Tonnage != nil {
		fields["tonnage"] = *u.Tonnage
	}
	if u.OperatorName != nil {
		fields["operator_name"] = *u.OperatorName
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Transaction binds a copy of the store to one transaction.
func (s *gormStore) Transaction(ctx context.Context, fn func(tx SessionStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// lockForUpdate adds FOR UPDATE on dialects that support row locks. SQLite
// serializes writers on its own.
func (s *gormStore) lockForUpdate(q *gorm.DB) *gorm.DB {
	if s.db.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (s *gormStore) FindOpenAttendance(ctx context.Context, workerID int64, date string) (*model.AttendanceSession, error) {
	q := s.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Where("date = ?", date).
		Where("status = ?", model.AttendanceInside).
		Order("id DESC")

	var rec model.AttendanceSession
	res := s.lockForUpdate(q).Limit(1).Find(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (s *gormStore) CountAttendanceOn(ctx context.Context, workerID int64, date string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.AttendanceSession{}).
		Where("worker_id = ?", workerID).
		Where("date = ?", date).
		Count(&n).Error
	return n, err
}

func (s *gormStore) InsertAttendance(ctx context.Context, rec *model.AttendanceSession) (int64, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return 0, translate(err)
	}
	return rec.ID, nil
}

func (s *gormStore) UpdateAttendance(ctx context.Context, id int64, upd AttendanceUpdate) (int64, error) {
	fields := upd.columns()
	if len(fields) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.AttendanceSession{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, translate(res.Error)
}

func (s *gormStore) FindOpenUsage(ctx context.Context, machineID int64) (*model.MachineryUsageSession, error) {
	q := s.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Where("exit_time IS NULL").
		Order("id DESC")

	var rec model.MachineryUsageSession
	res := s.lockForUpdate(q).Limit(1).Find(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (s *gormStore) InsertUsage(ctx context.Context, rec *model.MachineryUsageSession) (int64, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return 0, translate(err)
	}
	return rec.ID, nil
}

func (s *gormStore) UpdateUsage(ctx context.Context, id int64, upd UsageUpdate) (int64, error) {
	fields := upd.columns()
	if len(fields) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.MachineryUsageSession{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, translate(res.Error)
}
