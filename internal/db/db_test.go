package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/store"
)

// lines collects what the gorm logger prints.
type lines struct {
	mu  sync.Mutex
	out []string
}

func (l *lines) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = append(l.out, fmt.Sprintf(format, args...))
}

func (l *lines) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.out...)
}

func TestLogger_QuietOnMissingRows(t *testing.T) {
	printed := &lines{}
	gormDB, err := gorm.Open(sqlite.Open("file:quiet_logger?mode=memory&cache=shared"), &gorm.Config{
		Logger:         newLogger(printed, false),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, Migrate(gormDB))

	ctx := context.Background()
	s := store.NewGormStore(gormDB)

	open, err := s.FindOpenAttendance(ctx, 3, "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, open)
	usage, err := s.FindOpenUsage(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, usage)

	_, err = store.Get[model.Worker](ctx, gormDB, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Empty(t, printed.all(), "a lookup that finds nothing is not an error")

	// Real failures are still reported.
	err = gormDB.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	require.False(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NotEmpty(t, printed.all())
}
