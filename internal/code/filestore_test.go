package code

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	dir := t.TempDir()
	return NewFileStore(filepath.Join(dir, "active_code.json"), filepath.Join(dir, "codes_history.json"))
}

func TestFileStoreActiveMissing(t *testing.T) {
	s := newFileStore(t)
	ac, err := s.Active(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ac)
}

func TestFileStoreSaveOverwritesActive(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	first := ActiveCode{Code: "111111", IssuedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)}
	second := ActiveCode{Code: "222222", IssuedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)}

	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "222222", active.Code)
	assert.True(t, active.IssuedAt.Equal(second.IssuedAt))

	history, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "111111", history[0].Code)
	assert.Equal(t, "222222", history[1].Code)
}

func TestFileStoreSecondPrecision(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	issued := time.Date(2024, 3, 5, 14, 30, 45, 123456789, time.Local)

	ac, err := Issue(ctx, s, issued)
	require.NoError(t, err)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, ac.Code, active.Code)
	assert.True(t, active.IssuedAt.Equal(issued.Truncate(time.Second)))
}

func TestFileStoreHistoryEmpty(t *testing.T) {
	s := newFileStore(t)
	history, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}
