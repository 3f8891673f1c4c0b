package groundtruth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/feargreed/pkg/logger"
)

func TestValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260102.txt"), []byte("63.5\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index_20260105.txt"), []byte(" 41.2 "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260106.txt"), []byte("not a number"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260107.csv"), []byte("55"), 0o644))

	src := NewSource(dir, logger.NewTesting())

	date := func(day int) time.Time {
		return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
	}

	t.Run("exact stamp", func(t *testing.T) {
		v := src.Value(date(2))
		require.NotNil(t, v)
		assert.Equal(t, 63.5, *v)
	})

	t.Run("stamp embedded in longer name", func(t *testing.T) {
		v := src.Value(date(5))
		require.NotNil(t, v)
		assert.Equal(t, 41.2, *v)
	})

	t.Run("absent date means unknown", func(t *testing.T) {
		assert.Nil(t, src.Value(date(3)))
	})

	t.Run("unparsable file means unknown", func(t *testing.T) {
		assert.Nil(t, src.Value(date(6)))
	})

	t.Run("non-txt files are ignored", func(t *testing.T) {
		assert.Nil(t, src.Value(date(7)))
	})
}

func TestValue_MissingDirectory(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "nope"), logger.NewTesting())
	assert.Nil(t, src.Value(time.Now()))
}
