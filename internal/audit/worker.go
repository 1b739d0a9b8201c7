// Package audit records who changed what. Entries are written asynchronously by a
// small worker pool so a slow or failing audit table never fails the request.
package audit

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"minecontrol-backend/internal/model"
)

// Writer persists a single audit entry.
type Writer interface {
	Write(ctx context.Context, entry *model.AuditEntry) error
}

// GormWriter is the database-backed Writer.
type GormWriter struct {
	db *gorm.DB
}

// NewGormWriter creates a Writer that inserts into the audit_entries table.
func NewGormWriter(db *gorm.DB) *GormWriter {
	return &GormWriter{db: db}
}

// Write inserts entry.
func (w *GormWriter) Write(ctx context.Context, entry *model.AuditEntry) error {
	return w.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

// WorkerPool manages a pool of workers for writing audit entries.
type WorkerPool struct {
	size   int
	jobs   chan model.AuditEntry
	writer Writer
}

// NewWorkerPool creates a new worker pool with a queue of queueSize pending entries.
func NewWorkerPool(size, queueSize int, writer Writer) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if queueSize < 1 {
		queueSize = size
	}
	return &WorkerPool{
		size:   size,
		jobs:   make(chan model.AuditEntry, queueSize), // Buffered channel
		writer: writer,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Audit worker %d started", id)
	for {
		select {
		case entry := <-wp.jobs:
			wp.write(ctx, entry)
		case <-ctx.Done():
			log.Printf("Audit worker %d shutting down", id)
			return
		}
	}
}

func (wp *WorkerPool) write(ctx context.Context, entry model.AuditEntry) {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := wp.writer.Write(writeCtx, &entry); err != nil {
		log.Printf("Error writing audit entry %s/%s for %q: %v", entry.Module, entry.Action, entry.Username, err)
	}
}

// Dispatch queues an entry. It never blocks: when the queue is full the entry is
// logged and dropped.
func (wp *WorkerPool) Dispatch(entry model.AuditEntry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	select {
	case wp.jobs <- entry:
	default:
		log.Printf("Audit queue full, dropping %s/%s for %q", entry.Module, entry.Action, entry.Username)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.AuditEntry {
	return wp.jobs
}
