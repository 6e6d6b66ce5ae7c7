package ignite_test

import (
	"context"
	"testing"

	"github.com/iamNilotpal/kvs/pkg/ignite"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestInstanceSetGetDelete(t *testing.T) {
	ctx := context.Background()
	inst, err := ignite.NewInstance(ctx, "ignite-test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.NoError(t, inst.Set(ctx, "a", []byte("1")))

	value, ok, err := inst.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("1"), value)

	require.NoError(t, inst.Delete(ctx, "a"))

	_, ok, err = inst.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInstanceGetMissingKey(t *testing.T) {
	ctx := context.Background()
	inst, err := ignite.NewInstance(ctx, "ignite-test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer inst.Close(ctx)

	_, ok, err := inst.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}
