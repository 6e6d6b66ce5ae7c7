package segment_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/kvs/internal/record"
	"github.com/iamNilotpal/kvs/internal/segment"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, rec record.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := record.Encode(&buf, rec)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestAppendAndReadAt(t *testing.T) {
	dir := t.TempDir()
	seg, err := segment.Create(filepath.Join(dir, "0.log"), 0)
	require.NoError(t, err)
	defer seg.Close()

	buf1 := encode(t, record.NewSet("a", "1"))
	buf2 := encode(t, record.NewSet("b", "22"))

	off1, err := seg.Append(buf1)
	require.NoError(t, err)
	require.Zero(t, off1)

	off2, err := seg.Append(buf2)
	require.NoError(t, err)
	require.EqualValues(t, len(buf1), off2)

	got1, err := seg.ReadAt(off1, uint32(len(buf1)))
	require.NoError(t, err)
	require.Equal(t, buf1, got1)

	rec1, err := record.Decode(bytes.NewReader(got1))
	require.NoError(t, err)
	require.Equal(t, "a", rec1.Key)
	require.Equal(t, "1", rec1.Value)

	size, err := seg.Size()
	require.NoError(t, err)
	require.EqualValues(t, len(buf1)+len(buf2), size)
}

func TestScannerReadsFromStart(t *testing.T) {
	dir := t.TempDir()
	seg, err := segment.Create(filepath.Join(dir, "0.log"), 0)
	require.NoError(t, err)
	defer seg.Close()

	buf := encode(t, record.NewSet("k", "v"))
	_, err = seg.Append(buf)
	require.NoError(t, err)

	r, err := seg.Scanner()
	require.NoError(t, err)

	rec, err := record.Decode(r)
	require.NoError(t, err)
	require.Equal(t, "k", rec.Key)

	_, err = record.Decode(r)
	require.ErrorIs(t, err, io.EOF)
}

func TestReopenPreservesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0.log")

	seg, err := segment.Create(path, 0)
	require.NoError(t, err)
	buf := encode(t, record.NewSet("k", "v"))
	_, err = seg.Append(buf)
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	reopened, err := segment.Open(path, 0)
	require.NoError(t, err)
	defer reopened.Close()

	size, err := reopened.Size()
	require.NoError(t, err)
	require.EqualValues(t, len(buf), size)
}
