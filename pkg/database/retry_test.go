package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"database is locked", errors.New("database is locked"), true},
		{"database table is locked", errors.New("database table is locked"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY: database is busy"), true},
		{"SQLITE_LOCKED", errors.New("SQLITE_LOCKED: table locked"), true},
		{"modernc busy code", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"modernc locked code", errors.New("table is locked (6)"), true},
		{"constraint violation", errors.New("UNIQUE constraint failed: novels.book_name"), false},
		{"no such table", errors.New("no such table: novels"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(tt *testing.T) {
			tt.Parallel()
			assert.Equal(tt, test.want, isBusyError(test.err))
		})
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately on success", func(tt *testing.T) {
		tt.Parallel()
		calls := 0
		err := retryWithBackoff(context.Background(), 3, func() error {
			calls++
			return nil
		})
		require.NoError(tt, err)
		assert.Equal(tt, 1, calls)
	})

	t.Run("does not retry non-busy errors", func(tt *testing.T) {
		tt.Parallel()
		calls := 0
		wantErr := errors.New("no such table: novels")
		err := retryWithBackoff(context.Background(), 3, func() error {
			calls++
			return wantErr
		})
		assert.Equal(tt, wantErr, err)
		assert.Equal(tt, 1, calls)
	})

	t.Run("retries busy errors until success", func(tt *testing.T) {
		tt.Parallel()
		calls := 0
		err := retryWithBackoff(context.Background(), 3, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(tt, err)
		assert.Equal(tt, 3, calls)
	})

	t.Run("gives up after max retries", func(tt *testing.T) {
		tt.Parallel()
		calls := 0
		busy := errors.New("database is locked")
		err := retryWithBackoff(context.Background(), 2, func() error {
			calls++
			return busy
		})
		assert.Equal(tt, busy, err)
		assert.Equal(tt, 3, calls)
	})

	t.Run("stops when the context is canceled", func(tt *testing.T) {
		tt.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := retryWithBackoff(ctx, 5, func() error {
			calls++
			return errors.New("database is locked")
		})
		assert.ErrorIs(tt, err, context.Canceled)
		assert.Equal(tt, 1, calls)
	})

	t.Run("zero retries runs the function once", func(tt *testing.T) {
		tt.Parallel()
		calls := 0
		start := time.Now()
		err := retryWithBackoff(context.Background(), 0, func() error {
			calls++
			return errors.New("database is locked")
		})
		require.Error(tt, err)
		assert.Equal(tt, 1, calls)
		assert.Less(tt, time.Since(start), time.Second)
	})
}
