package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"coldmail-backend/internal/ratelimit/domain"
	"coldmail-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() *domain.Tables {
	t := domain.NewTables()
	t.Daily.Increment("2025-03-09", "alice")
	t.Daily.Increment("2025-03-09", "alice")
	t.Daily.Increment("2025-03-09", "bob")
	t.Hourly.Increment("2025-03-09-14", "alice")
	return t
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "rate_limits.json"))

	tables, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables.Daily)
	assert.Empty(t, tables.Hourly)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate_limits.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tables, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables.Daily)
	assert.Empty(t, tables.Hourly)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate_limits.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleTables()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Daily.Count("2025-03-09", "alice"))
	assert.Equal(t, 1, loaded.Daily.Count("2025-03-09", "bob"))
	assert.Equal(t, 1, loaded.Hourly.Count("2025-03-09-14", "alice"))

	// on-disk shape is {"daily": {label: {session: n}}, "hourly": {...}}
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]map[string]int
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc["daily"]["2025-03-09"]["alice"])
	assert.Equal(t, 1, doc["hourly"]["2025-03-09-14"]["alice"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestFileStore_PartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate_limits.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"daily":{"2025-03-09":{"a":3}}}`), 0o644))

	tables, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tables.Hourly)
	assert.Equal(t, 3, tables.Daily.Count("2025-03-09", "a"))
}

func TestMemoryStore_CopiesOnLoadAndSave(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := sampleTables()
	require.NoError(t, store.Save(ctx, in))
	in.Daily.Increment("2025-03-09", "alice")

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Daily.Count("2025-03-09", "alice"))

	out.Daily.Increment("2025-03-09", "alice")
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Daily.Count("2025-03-09", "alice"))
}

func TestCounterRows(t *testing.T) {
	rows := sampleTables().ToCounters()
	assert.Len(t, rows, 3)

	rows = append(rows, domain.RateLimitCounter{Window: "weekly", Bucket: "x", SessionID: "y", Count: 1})
	back := domain.TablesFromCounters(rows)
	assert.Equal(t, 2, back.Daily.Count("2025-03-09", "alice"))
	assert.Equal(t, 1, back.Hourly.Count("2025-03-09-14", "alice"))
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, &config.Config{RateLimitStore: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &memoryStore{}, s)

	s, err = NewStore(ctx, &config.Config{RateLimitStore: config.StoreFile, RateLimitFile: filepath.Join(t.TempDir(), "x.json")})
	require.NoError(t, err)
	assert.IsType(t, &fileStore{}, s)

	_, err = NewStore(ctx, &config.Config{RateLimitStore: "etcd"})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	store, err := NewRedisStoreFromURL(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	rs := store.(*redisStore)
	rs.key = "coldmail:test:" + t.Name()
	defer rs.rdb.Del(ctx, rs.key)

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Daily)

	require.NoError(t, store.Save(ctx, sampleTables()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Daily.Count("2025-03-09", "alice"))

	ttl, err := rs.rdb.TTL(ctx, rs.key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Hours(), 47.0)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	store, err := NewPostgresStore(dsn)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, sampleTables()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Daily.Count("2025-03-09", "alice"))

	// a save replaces, it does not merge
	next := domain.NewTables()
	next.Hourly.Increment("2025-03-09-15", "carol")
	require.NoError(t, store.Save(ctx, next))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Daily)
	assert.Equal(t, 1, loaded.Hourly.Count("2025-03-09-15", "carol"))
}
