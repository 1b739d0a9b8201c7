package tracker

import (
	"context"
	"sync"

	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/store"
)

// fakeStore is an in-memory SessionStore. Transaction serializes callers and rolls
// back on error; inserts emulate the partial unique indexes.
type fakeStore struct {
	mu         sync.Mutex
	attendance []model.AttendanceSession
	usage      []model.MachineryUsageSession
	nextID     int64

	// insertErr, when set, is returned by the next insert instead of writing.
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx store.SessionStore) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	att := append([]model.AttendanceSession(nil), f.attendance...)
	use := append([]model.MachineryUsageSession(nil), f.usage...)
	next := f.nextID
	if err := fn(f); err != nil {
		f.attendance, f.usage, f.nextID = att, use, next
		return err
	}
	return nil
}

func (f *fakeStore) FindOpenAttendance(ctx context.Context, workerID int64, date string) (*model.AttendanceSession, error) {
	for i := len(f.attendance) - 1; i >= 0; i-- {
		s := f.attendance[i]
		if s.WorkerID == workerID && s.Date == date && s.Status == model.AttendanceInside {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountAttendanceOn(ctx context.Context, workerID int64, date string) (int64, error) {
	var n int64
	for _, s := range f.attendance {
		if s.WorkerID == workerID && s.Date == date {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) InsertAttendance(ctx context.Context, rec *model.AttendanceSession) (int64, error) {
	if err := f.takeInsertErr(); err != nil {
		return 0, err
	}
	for _, s := range f.attendance {
		if s.WorkerID == rec.WorkerID && s.Date == rec.Date && s.Status == model.AttendanceInside && rec.Status == model.AttendanceInside {
			return 0, store.ErrUniqueViolation
		}
	}
	f.nextID++
	rec.ID = f.nextID
	f.attendance = append(f.attendance, *rec)
	return rec.ID, nil
}

func (f *fakeStore) UpdateAttendance(ctx context.Context, id int64, upd store.AttendanceUpdate) (int64, error) {
	for i := range f.attendance {
		if f.attendance[i].ID != id {
			continue
		}
		if upd.ExitTime != nil {
			t := *upd.ExitTime
			f.attendance[i].ExitTime = &t
		}
		if upd.Status != nil {
			f.attendance[i].Status = *upd.Status
		}
		if upd.Notes != nil {
			n := *upd.Notes
			f.attendance[i].Notes = &n
		}
		return 1, nil
	}
	return 0, nil
}

func (f *fakeStore) FindOpenUsage(ctx context.Context, machineID int64) (*model.MachineryUsageSession, error) {
	for i := len(f.usage) - 1; i >= 0; i-- {
		s := f.usage[i]
		if s.MachineID == machineID && s.ExitTime == nil {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertUsage(ctx context.Context, rec *model.MachineryUsageSession) (int64, error) {
	if err := f.takeInsertErr(); err != nil {
		return 0, err
	}
	if rec.ExitTime == nil {
		for _, s := range f.usage {
			if s.MachineID == rec.MachineID && s.ExitTime == nil {
				return 0, store.ErrUniqueViolation
			}
		}
	}
	f.nextID++
	rec.ID = f.nextID
	f.usage = append(f.usage, *rec)
	return rec.ID, nil
}

func (f *fakeStore) UpdateUsage(ctx context.Context, id int64, upd store.UsageUpdate) (int64, error) {
	for i := range f.usage {
		s := &f.usage[i]
		if s.ID != id {
			continue
		}
		if upd.ExitTime != nil {
			t := *upd.ExitTime
			s.ExitTime = &t
		}
		if upd.WorkType != nil {
			v := *upd.WorkType
			s.WorkType = &v
		}
		if upd.Tonnage != nil {
			v := *upd.Tonnage
			s.Tonnage = &v
		}
		if upd.OperatorName != nil {
			v := *upd.OperatorName
			s.OperatorName = &v
		}
		if upd.Notes != nil {
			v := *upd.Notes
			s.Notes = &v
		}
		return 1, nil
	}
	return 0, nil
}

func (f *fakeStore) takeInsertErr() error {
	err := f.insertErr
	f.insertErr = nil
	return err
}

// openAttendance counts "Dentro" rows for a worker and day.
func (f *fakeStore) openAttendance(workerID int64, date string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.attendance {
		if s.WorkerID == workerID && s.Date == date && s.Status == model.AttendanceInside {
			n++
		}
	}
	return n
}

// openUsage counts rows without exit time for a machine.
func (f *fakeStore) openUsage(machineID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.usage {
		if s.MachineID == machineID && s.ExitTime == nil {
			n++
		}
	}
	return n
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64     { return &i }
