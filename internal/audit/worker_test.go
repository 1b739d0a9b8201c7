package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"minecontrol-backend/internal/model"
)

// mockWriter is a mock implementation of the Writer interface.
type mockWriter struct {
	WriteFunc func(ctx context.Context, entry *model.AuditEntry) error
}

// Write calls the mock WriteFunc.
func (m *mockWriter) Write(ctx context.Context, entry *model.AuditEntry) error {
	return m.WriteFunc(ctx, entry)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, 4, &mockWriter{})

	wp.Dispatch(model.AuditEntry{Module: "workers", Action: "create"})

	select {
	case job := <-wp.jobs:
		assert.Equal(t, "workers", job.Module)
		assert.False(t, job.OccurredAt.IsZero(), "OccurredAt should be stamped")
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	wp := NewWorkerPool(1, 1, &mockWriter{})

	done := make(chan struct{})
	go func() {
		wp.Dispatch(model.AuditEntry{Action: "first"})
		wp.Dispatch(model.AuditEntry{Action: "dropped"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	assert.Len(t, wp.Jobs(), 1)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	var (
		mu      sync.Mutex
		written []model.AuditEntry
		wg      sync.WaitGroup
	)
	writer := &mockWriter{
		WriteFunc: func(ctx context.Context, entry *model.AuditEntry) error {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			written = append(written, *entry)
			if entry.Action == "fail" {
				return errors.New("audit table missing")
			}
			return nil
		},
	}

	wp := NewWorkerPool(2, 8, writer)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wg.Add(3)
	wp.Dispatch(model.AuditEntry{Module: "attendance", Action: "entrada"})
	wp.Dispatch(model.AuditEntry{Module: "attendance", Action: "fail"})
	wp.Dispatch(model.AuditEntry{Module: "machinery_usage", Action: "salida"})
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, written, 3, "a failing write must not stop the workers")
}

func TestGormWriter_Write(t *testing.T) {
	gormDB, mock := newTestDB(t)
	w := NewGormWriter(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	recordID := int64(12)
	entry := &model.AuditEntry{
		Username:   "admin",
		Module:     "workers",
		Action:     "update",
		RecordID:   &recordID,
		OccurredAt: time.Now(),
	}
	require.NoError(t, w.Write(context.Background(), entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
