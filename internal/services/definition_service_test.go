package services

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argshell/internal/store"
	"argshell/internal/testutils"
	"argshell/pkg/argtypes"
)

func definitionFile(t *testing.T, ts *testServices, name string) *DefinitionFile {
	t.Helper()
	file, err := ts.definitions.Parse([]byte(gen.DefinitionFiles()[name]))
	require.NoError(t, err)
	return file
}

func TestDefinitionService_Parse(t *testing.T) {
	ts := setupServices(t)
	file := definitionFile(t, ts, "paint.yaml")

	assert.Equal(t, ">= 0.1", file.Requires)
	require.Len(t, file.Types, 3)
	assert.Equal(t, "shade", file.Types[0].Suffix)
	assert.Equal(t, "level", file.Types[1].Suffix)
	assert.Equal(t, "target", file.Types[2].Suffix)
	assert.Equal(t, []string{"type", "options"}, file.Types[0].Config.Keys())

	require.Len(t, file.Commands, 2)
	assert.Equal(t, CommandDeclaration{Name: "paint", Params: []string{"where_pos", "wall_shade", "coat_level"}}, file.Commands[0])
	assert.Equal(t, "tag", file.Commands[1].Name)

	empty := definitionFile(t, ts, "empty.yaml")
	assert.Empty(t, empty.Types)
	assert.Empty(t, empty.Commands)
}

func TestDefinitionService_ParseErrors(t *testing.T) {
	ts := setupServices(t)
	tests := []struct {
		name string
		data string
	}{
		{"types not a mapping", "types: [a, b]\n"},
		{"type options not a mapping", "types:\n  shade: term\n"},
		{"command params not a list", "commands:\n  paint: {a: b}\n"},
		{"invalid yaml", "types: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.definitions.Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDefinitionService_LoadFile(t *testing.T) {
	ts := setupServices(t)
	files := testutils.NewFileHelpers()

	path := files.CreateTempFile(t, "paint.yaml", gen.DefinitionFiles()["paint.yaml"])
	file, err := ts.definitions.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, file.Types, 3)

	_, err = ts.definitions.LoadFile(path + ".missing")
	assert.Error(t, err)
}

func TestDefinitionService_Apply(t *testing.T) {
	ts := setupServices(t)
	require.NoError(t, ts.definitions.Apply("builder", definitionFile(t, ts, "paint.yaml")))

	app := ts.ctx.App("builder")
	assert.Equal(t, 3, app.TypeCount())
	assert.Equal(t, []string{"paint", "tag"}, app.CommandNames())

	applied := ts.definitions.Applied("builder")
	require.Len(t, applied, 3)
	assert.Equal(t, "level", applied[0].Suffix)
}

func TestDefinitionService_ApplyPartialFailure(t *testing.T) {
	ts := setupServices(t)
	err := ts.definitions.Apply("", definitionFile(t, ts, "broken.yaml"))
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.WrappedErrors(), 2)
	assert.ErrorIs(t, err, argtypes.ErrUpperBoundOnly)
	assert.ErrorIs(t, err, argtypes.ErrMissingBaseType)

	applied := ts.definitions.Applied("")
	require.Len(t, applied, 1)
	assert.Equal(t, "good", applied[0].Suffix)
}

func TestDefinitionService_ApplyVersionConstraint(t *testing.T) {
	ts := setupServices(t)
	err := ts.definitions.Apply("", definitionFile(t, ts, "future.yaml"))
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
	assert.Equal(t, 0, ts.ctx.App("").TypeCount())

	err = ts.definitions.Apply("", &DefinitionFile{Requires: "not a constraint"})
	assert.Error(t, err)
}

func TestDefinitionService_PersistRestore(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	require.NoError(t, ts.definitions.Apply("builder", definitionFile(t, ts, "paint.yaml")))
	require.NoError(t, ts.definitions.Persist(ctx, "builder"))

	apps, err := ts.definitions.Store().Apps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"builder"}, apps)

	require.NoError(t, ts.types.DropApp("builder"))
	assert.Equal(t, 0, ts.ctx.App("builder").TypeCount())

	require.NoError(t, ts.definitions.Restore(ctx, "builder"))
	assert.Equal(t, 3, ts.ctx.App("builder").TypeCount())
	typ, err := ts.types.Resolve("builder", "coat_level")
	require.NoError(t, err)
	assert.Equal(t, "level", typ.Suffix())
}

func TestDefinitionService_Remove(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	require.NoError(t, ts.definitions.Apply("", definitionFile(t, ts, "paint.yaml")))
	require.NoError(t, ts.definitions.Persist(ctx, ""))

	require.NoError(t, ts.definitions.Remove(ctx, "", "Shade"))
	assert.Len(t, ts.definitions.Applied(""), 2)

	defs, err := ts.definitions.Store().Load(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, defs, 2)
	typ, err := ts.types.Resolve("", "wall_shade")
	require.NoError(t, err)
	assert.Equal(t, "string", typ.Suffix())
}

func TestDefinitionService_RedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rs, err := store.NewRedisStore(mr.Addr())
	require.NoError(t, err)
	defer rs.Close()

	ts := setupServices(t)
	ts.definitions.SetStore(rs)
	ctx := context.Background()

	require.NoError(t, ts.definitions.Apply("builder", definitionFile(t, ts, "paint.yaml")))
	require.NoError(t, ts.definitions.Persist(ctx, "builder"))
	assert.True(t, mr.Exists("argshell:types:builder"))

	// A second session restores the types from Redis.
	other := setupServices(t)
	other.definitions.SetStore(rs)
	require.NoError(t, other.definitions.Restore(ctx, "builder"))
	assert.Equal(t, 3, other.ctx.App("builder").TypeCount())
}
