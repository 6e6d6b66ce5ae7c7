package engine_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/iamNilotpal/kvs/internal/engine"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, opts ...options.OptionFunc) *engine.Engine {
	t.Helper()
	dir := t.TempDir()
	all := append([]options.OptionFunc{options.WithDataDir(dir)}, opts...)
	o := options.Apply(all...)

	e, err := engine.Open(&engine.Config{Options: &o, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestSetThenGet(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))

	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	v, ok, err = e.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", v)

	_, ok, err = e.Get("c")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOverwriteReturnsLatestValue(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Set("k", "v1"))
	require.NoError(t, e.Set("k", "v2"))

	v, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)
}

func TestRemoveThenGetIsAbsent(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Set("k", "v"))
	require.NoError(t, e.Remove("k"))

	_, ok, err := e.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveAbsentKeyFails(t *testing.T) {
	e := newTestEngine(t)

	err := e.Remove("missing")
	require.Error(t, err)
	require.True(t, kvserrors.IsIndexError(err))
}

func TestEmptyValueRoundTrips(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Set("k", ""))
	v, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, v)
}

func TestReopenRecoversState(t *testing.T) {
	dir := t.TempDir()
	o := options.Apply(options.WithDataDir(dir))

	e1, err := engine.Open(&engine.Config{Options: &o, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Set("b", "2"))
	require.NoError(t, e1.Remove("b"))
	require.NoError(t, e1.Close())

	e2, err := engine.Open(&engine.Config{Options: &o, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer e2.Close()

	v, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok, err = e2.Get("b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCompactionKeepsLiveValues(t *testing.T) {
	e := newTestEngine(t, options.WithMaxSegmentBytes(256), options.WithCompactionThresholdBytes(64))

	for i := range 200 {
		key := "k" + strconv.Itoa(i%5)
		require.NoError(t, e.Set(key, "value-"+strconv.Itoa(i)))
	}

	for i := range 5 {
		key := "k" + strconv.Itoa(i)
		v, ok, err := e.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotEmpty(t, v)
	}
}

func TestCompactionBoundsDiskUsage(t *testing.T) {
	dir := t.TempDir()
	o := options.Apply(
		options.WithDataDir(dir),
		options.WithMaxSegmentBytes(4096),
		options.WithCompactionThresholdBytes(1024),
	)

	e, err := engine.Open(&engine.Config{Options: &o, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer e.Close()

	value := strings.Repeat("x", 100)
	const keys = 300

	// Overwrite every key several times; all but the final copy of each is
	// reclaimable.
	for round := range 4 {
		for i := range keys {
			require.NoError(t, e.Set("key-"+strconv.Itoa(i), value+strconv.Itoa(round)))
		}
	}

	var total int64
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	for _, m := range matches {
		info, err := os.Stat(m)
		require.NoError(t, err)
		total += info.Size()
	}

	// Roughly 150 KiB was appended across all rounds, but only the live
	// copies plus bounded slack (active segment, compaction threshold)
	// should remain on disk.
	require.Less(t, total, int64(75_000), "compaction left too much obsolete data on disk")

	for i := range keys {
		v, ok, err := e.Get("key-" + strconv.Itoa(i))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, value+"3", v)
	}
}

func TestLargeValueExceedsSegmentSize(t *testing.T) {
	e := newTestEngine(t, options.WithMaxSegmentBytes(4096))

	large := strings.Repeat("v", 8192)
	require.NoError(t, e.Set("big", large))

	v, ok, err := e.Get("big")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, large, v)
}

func TestRecoveryStopsAtTornFrame(t *testing.T) {
	dir := t.TempDir()
	o := options.Apply(options.WithDataDir(dir))

	e1, err := engine.Open(&engine.Config{Options: &o, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Set("b", "2"))
	require.NoError(t, e1.Close())

	// Tear the tail of the active segment, as a crash mid-append would.
	path := filepath.Join(dir, "0.log")
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-3))

	e2, err := engine.Open(&engine.Config{Options: &o, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer e2.Close()

	v, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok, err = e2.Get("b")
	require.NoError(t, err)
	require.False(t, ok)
}
