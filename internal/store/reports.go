package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"minecontrol-backend/internal/model"
)

// DateRange filters reports by session date. It only applies when both ends are set.
type DateRange struct {
	From string
	To   string
}

// Active reports whether the range should filter.
func (r DateRange) Active() bool {
	return r.From != "" && r.To != ""
}

// AttendanceRow is one line of the attendance report.
type AttendanceRow struct {
	ID        int64
	FirstName string
	LastName  string
	Date      string
	EntryTime time.Time
	ExitTime  *time.Time
	Status    string
	Notes     *string
}

// UsageRow is one line of the machinery usage report.
type UsageRow struct {
	ID           int64
	MachineName  string
	WorkerName   *string
	OperatorName *string
	Date         string
	EntryTime    time.Time
	ExitTime     *time.Time
	WorkType     *string
	Tonnage      *float64
	Notes        *string
}

// TonnageByWorkType aggregates moved tonnage per work type.
type TonnageByWorkType struct {
	WorkType     string
	TotalTonnage float64
}

// Statistics is the operations summary.
type Statistics struct {
	DaysWorked int64
	Tonnage    []TonnageByWorkType
}

// UnspecifiedWorkType labels usage sessions recorded without a work type.
const UnspecifiedWorkType = "Unspecified"

func (s *gormStore) AttendanceReport(ctx context.Context, r DateRange) ([]AttendanceRow, error) {
	q := s.db.WithContext(ctx).
		Table("attendance_sessions AS a").
		Select("a.id, w.first_name, w.last_name, a.date, a.entry_time, a.exit_time, a.status, a.notes").
		Joins("JOIN workers w ON w.id = a.worker_id")
	if r.Active() {
		q = q.Where("a.date BETWEEN ? AND ?", r.From, r.To)
	}

	var rows []AttendanceRow
	if err := q.Order("a.date ASC, a.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("attendance report query failed: %w", err)
	}
	return rows, nil
}

func (s *gormStore) WorkerReport(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	if err := s.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("worker report query failed: %w", err)
	}
	return workers, nil
}

func (s *gormStore) MachineReport(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Order("status DESC, name ASC").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("machine report query failed: %w", err)
	}
	return machines, nil
}

func (s *gormStore) UsageReport(ctx context.Context, r DateRange) ([]UsageRow, error) {
	// Operator reference is optional, so workers are left-joined.
	q := s.db.WithContext(ctx).
		Table("machinery_usage_sessions AS u").
		Select("u.id, m.name AS machine_name, " +
			"CASE WHEN w.id IS NULL THEN NULL ELSE w.first_name || ' ' || w.last_name END AS worker_name, " +
			"u.operator_name, u.date, u.entry_time, u.exit_time, u.work_type, u.tonnage, u.notes").
		Joins("JOIN machines m ON m.id = u.machine_id").
		Joins("LEFT JOIN workers w ON w.id = u.worker_id")
	if r.Active() {
		q = q.Where("u.date BETWEEN ? AND ?", r.From, r.To)
	}

	var rows []UsageRow
	if err := q.Order("u.date ASC, u.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("usage report query failed: %w", err)
	}
	return rows, nil
}

func (s *gormStore) Statistics(ctx context.Context, r DateRange) (*Statistics, error) {
	var stats Statistics

	days := s.db.WithContext(ctx).Model(&model.AttendanceSession{}).Select("COUNT(DISTINCT date)")
	if r.Active() {
		days = days.Where("date BETWEEN ? AND ?", r.From, r.To)
	}
	if err := days.Scan(&stats.DaysWorked).Error; err != nil {
		return nil, fmt.Errorf("days worked query failed: %w", err)
	}

	workType := "COALESCE(work_type, '" + UnspecifiedWorkType + "')"
	tonnage := s.db.WithContext(ctx).
		Model(&model.MachineryUsageSession{}).
		Select(workType + " AS work_type, SUM(COALESCE(tonnage, 0)) AS total_tonnage").
		Group(workType)
	if r.Active() {
		tonnage = tonnage.Where("date BETWEEN ? AND ?", r.From, r.To)
	}
	if err := tonnage.Order("total_tonnage DESC").Scan(&stats.Tonnage).Error; err != nil {
		return nil, fmt.Errorf("tonnage query failed: %w", err)
	}
	for i := range stats.Tonnage {
		stats.Tonnage[i].TotalTonnage = math.Round(stats.Tonnage[i].TotalTonnage*100) / 100
	}
	return &stats, nil
}
