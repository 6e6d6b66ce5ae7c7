package record_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/iamNilotpal/kvs/internal/record"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := record.Encode(&buf, record.NewSet("city", "Kolkata"))
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)

	got, err := record.Decode(&buf)
	require.NoError(t, err)
	require.False(t, got.IsDelete())
	require.Equal(t, "city", got.Key)
	require.Equal(t, "Kolkata", got.Value)
}

func TestEncodeDecodeDeleteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := record.Encode(&buf, record.NewDelete("city"))
	require.NoError(t, err)

	got, err := record.Decode(&buf)
	require.NoError(t, err)
	require.True(t, got.IsDelete())
	require.Equal(t, "city", got.Key)
	require.Empty(t, got.Value)
}

func TestEncodeDecodeEmptyValue(t *testing.T) {
	var buf bytes.Buffer
	_, err := record.Encode(&buf, record.NewSet("k", ""))
	require.NoError(t, err)

	got, err := record.Decode(&buf)
	require.NoError(t, err)
	require.Empty(t, got.Value)
}

func TestDecodeCleanEOF(t *testing.T) {
	_, err := record.Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeTornFrameIsFatal(t *testing.T) {
	var buf bytes.Buffer
	_, err := record.Encode(&buf, record.NewSet("k", "v"))
	require.NoError(t, err)

	torn := buf.Bytes()[:buf.Len()-3]
	_, err = record.Decode(bytes.NewReader(torn))
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
	require.True(t, kvserrors.IsCodecError(err))

	ce, ok := kvserrors.AsCodecError(err)
	require.True(t, ok)
	require.Equal(t, "decode", ce.Stage())
}

func TestDecodeCorruptChecksum(t *testing.T) {
	var buf bytes.Buffer
	_, err := record.Encode(&buf, record.NewSet("k", "v"))
	require.NoError(t, err)

	corrupted := append([]byte(nil), buf.Bytes()...)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err = record.Decode(bytes.NewReader(corrupted))
	require.Error(t, err)
	require.True(t, kvserrors.IsCodecError(err))
}

func TestSequentialScan(t *testing.T) {
	var buf bytes.Buffer
	want := []record.Record{
		record.NewSet("a", "1"),
		record.NewSet("b", "2"),
		record.NewDelete("a"),
	}
	for _, rec := range want {
		_, err := record.Encode(&buf, rec)
		require.NoError(t, err)
	}

	r := record.NewReader(&buf)
	var got []record.Record
	for {
		rec, err := record.Decode(r)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Equal(t, want, got)
}
