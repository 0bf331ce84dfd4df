package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/hoprope/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Snapshot {
	return Snapshot{
		Version: Version,
		Tick:    42,
		Knots: []KnotRecord{
			{Pos: common.BlockPos{X: 0, Y: 64, Z: 0}, Block: "oak_fence"},
			{Pos: common.BlockPos{X: 5, Y: 64, Z: 0}, Block: "oak_fence"},
		},
		Ropes: []RopeRecord{{From: common.BlockPos{X: 0, Y: 64, Z: 0}, To: common.BlockPos{X: 5, Y: 64, Z: 0}}},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "world.json"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, sample()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestUnmarshalRejectsNewerVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version":99}`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}

func TestMarshalStampsVersion(t *testing.T) {
	data, err := Marshal(Snapshot{})
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Version, got.Version)
}

func TestRedisStoreDefaultKey(t *testing.T) {
	store := NewRedisStore("127.0.0.1:0", "")
	defer store.Close()
	assert.Equal(t, DefaultRedisKey, store.Key())
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	store := NewRedisStoreFromClient(client, "test:snapshot")
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, store.Save(ctx, sample()))
}
