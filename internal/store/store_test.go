package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argshell/pkg/argtypes"
)

func def(suffix, base string, kv ...any) Definition {
	cfg := argtypes.NewConfigMap().Set("type", base)
	for i := 0; i+1 < len(kv); i += 2 {
		cfg.Set(kv[i].(string), kv[i+1])
	}
	return Definition{Suffix: suffix, Config: cfg}
}

func suffixes(defs []Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Suffix)
	}
	return out
}

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	defs, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, defs)

	require.NoError(t, s.Save(ctx, "builder", []Definition{
		def("shade", "term", "options", []any{"red", "blue"}),
		def("level", "int", "min", 1, "max", 10),
	}))
	require.NoError(t, s.Save(ctx, "other", []Definition{def("note", "text")}))

	defs, err = s.Load(ctx, "builder")
	require.NoError(t, err)
	assert.Equal(t, []string{"level", "shade"}, suffixes(defs))

	upper, ok, err := defs[0].Config.Number("max")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10.0, upper)
	options, _, err := defs[1].Config.StringList("options")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, options)
	assert.Equal(t, []string{"type", "options"}, defs[1].Config.Keys())

	require.NoError(t, s.Save(ctx, "builder", []Definition{def("shade", "text")}))
	defs, err = s.Load(ctx, "builder")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	base, _, _ := defs[1].Config.String("type")
	assert.Equal(t, "text", base)

	apps, err := s.Apps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"builder", "other"}, apps)

	require.NoError(t, s.Delete(ctx, "other", "note"))
	require.NoError(t, s.Delete(ctx, "other", "note"))
	apps, err = s.Apps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"builder"}, apps)

	assert.Error(t, s.Save(ctx, "builder", []Definition{{Suffix: "", Config: argtypes.NewConfigMap()}}))
	assert.Error(t, s.Save(ctx, "builder", []Definition{{Suffix: "bare"}}))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_CopiesConfig(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	d := def("shade", "term")
	require.NoError(t, s.Save(ctx, "app", []Definition{d}))

	d.Config.Set("type", "int")
	defs, err := s.Load(ctx, "app")
	require.NoError(t, err)
	base, _, _ := defs[0].Config.String("type")
	assert.Equal(t, "term", base)

	defs[0].Config.Set("type", "float")
	again, err := s.Load(ctx, "app")
	require.NoError(t, err)
	base, _, _ = again[0].Config.String("type")
	assert.Equal(t, "term", base)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "builder", []Definition{def("shade", "term", "case_sensitive", true)}))
	data, err := os.ReadFile(filepath.Join(dir, "builder.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "types:\n  shade:\n    type: term\n    case_sensitive: true\n", string(data))

	require.NoError(t, s.Delete(ctx, "builder", "shade"))
	_, err = os.Stat(filepath.Join(dir, "builder.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := "types:\n  level:\n    type: int\n    min: 0\n  colour:\n    type: term\n    suggest: [red, green]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paint.yaml"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defs, err := s.Load(context.Background(), "paint")
	require.NoError(t, err)
	assert.Equal(t, []string{"colour", "level"}, suffixes(defs))

	apps, err := s.Apps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"paint"}, apps)
}

func TestFileStore_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Load(ctx, "../escape")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("types: [a, b]\n"), 0o644))
	_, err = s.Load(ctx, "bad")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewRedisStore(mr.Addr())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)

	// A new connection sees the persisted definitions.
	s2, err := NewRedisStore("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer s2.Close()
	defs, err := s2.Load(context.Background(), "builder")
	require.NoError(t, err)
	assert.Equal(t, []string{"level", "shade"}, suffixes(defs))
	assert.True(t, mr.Exists("argshell:types:builder"))
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(addr)
	assert.Error(t, err)
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		url    string
		addrs  int
		master string
		db     int
		tls    bool
	}{
		{"localhost:6379", 1, "", 0, false},
		{"redis://:pass@localhost:6379/1", 1, "", 1, false},
		{"redis://host1:6379,host2:6379/0", 2, "", 0, false},
		{"redis://localhost:6379?db=3", 1, "", 3, false},
		{"rediss://localhost:6380", 1, "", 0, true},
		{"redis-sentinel://localhost:26379/mymaster?db=2", 1, "mymaster", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			opts, err := parseRedisURL(tt.url)
			require.NoError(t, err)
			assert.Len(t, opts.Addrs, tt.addrs)
			assert.Equal(t, tt.master, opts.MasterName)
			assert.Equal(t, tt.db, opts.DB)
			assert.Equal(t, tt.tls, opts.TLSConfig != nil)
		})
	}

	for _, bad := range []string{"redis://localhost/abc", "mongodb://localhost"} {
		_, err := parseRedisURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open("memory://")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	dir := t.TempDir()
	s, err = Open("file://" + dir)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open("ftp://example.com")
	assert.ErrorIs(t, err, ErrUnsupportedURL)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	s, err = Open("redis://" + mr.Addr())
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())
}
