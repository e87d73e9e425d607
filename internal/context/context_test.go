package context

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argshell/internal/arguments"
	"argshell/pkg/argtypes"
)

func buildType(t *testing.T, suffix, base string) arguments.ArgumentType {
	t.Helper()
	typ, err := arguments.Builtins().Build(suffix, argtypes.NewConfigMap().Set("type", base))
	require.NoError(t, err)
	return typ
}

func TestNew(t *testing.T) {
	ctx := New()
	assert.Equal(t, DefaultApp, ctx.CurrentApp())
	assert.NotEmpty(t, ctx.SessionID())
	assert.NotNil(t, ctx.World())
	assert.Empty(t, ctx.AppNames())

	ctx.SetTestMode(true)
	assert.True(t, ctx.IsTestMode())
	assert.Equal(t, "test-session", ctx.SessionID())
}

func TestApp_CreatedOnDemand(t *testing.T) {
	ctx := New()
	assert.False(t, ctx.HasApp("builder"))

	app := ctx.App("builder")
	assert.Equal(t, "builder", app.Name())
	assert.Same(t, app, ctx.App("builder"))
	assert.True(t, ctx.HasApp("builder"))

	ctx.SetCurrentApp("builder")
	assert.Same(t, app, ctx.App(""))

	ctx.App("alpha")
	assert.Equal(t, []string{"alpha", "builder"}, ctx.AppNames())

	ctx.DropApp("builder")
	assert.Equal(t, []string{"alpha"}, ctx.AppNames())
}

func TestCustomTypes(t *testing.T) {
	app := NewApplication("demo")
	shade := buildType(t, "shade", "term")
	level := buildType(t, "level", "int")

	app.RegisterType(shade)
	app.RegisterType(level)
	assert.Equal(t, 2, app.TypeCount())

	got, ok := app.CustomType("shade")
	require.True(t, ok)
	assert.Same(t, shade, got)

	suffixes := []string{}
	for _, typ := range app.Types() {
		suffixes = append(suffixes, typ.Suffix())
	}
	assert.Equal(t, []string{"level", "shade"}, suffixes)

	replacement := buildType(t, "shade", "text")
	app.RegisterType(replacement)
	got, _ = app.CustomType("shade")
	assert.Same(t, replacement, got)

	assert.True(t, app.UnregisterType("shade"))
	assert.False(t, app.UnregisterType("shade"))
	_, ok = app.CustomType("shade")
	assert.False(t, ok)
}

func TestCustomTypes_ResolutionScope(t *testing.T) {
	app := NewApplication("demo")
	app.RegisterType(buildType(t, "shade", "term"))

	assert.Equal(t, "shade", arguments.Builtins().Resolve("wall_shade", app).Suffix())
	assert.Equal(t, "pos", arguments.Builtins().Resolve("wall_pos", app).Suffix())
	assert.Equal(t, "string", arguments.Builtins().Resolve("wall_paint", app).Suffix())
}

func TestCommands(t *testing.T) {
	app := NewApplication("demo")
	params := []string{"where_pos", "shade"}
	app.DeclareCommand("paint", params)
	app.DeclareCommand("clear", nil)

	params[0] = "mutated"
	got, ok := app.CommandParams("paint")
	require.True(t, ok)
	assert.Equal(t, []string{"where_pos", "shade"}, got)

	assert.Equal(t, []string{"clear", "paint"}, app.CommandNames())
	assert.True(t, app.RemoveCommand("clear"))
	_, ok = app.CommandParams("clear")
	assert.False(t, ok)
}

func TestCustomTypes_Concurrent(t *testing.T) {
	app := NewApplication("demo")
	types := []arguments.ArgumentType{
		buildType(t, "a", "int"),
		buildType(t, "b", "float"),
		buildType(t, "c", "term"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			app.RegisterType(types[i%len(types)])
		}(i)
		go func() {
			defer wg.Done()
			arguments.Builtins().Resolve("x_b", app)
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, app.TypeCount())
}

func TestGlobalContext(t *testing.T) {
	ResetGlobalContext()
	t.Cleanup(ResetGlobalContext)

	first := GetGlobalContext()
	require.NotNil(t, first)
	assert.Same(t, first, GetGlobalContext())

	replacement := New()
	SetGlobalContext(replacement)
	assert.Same(t, replacement, GetGlobalContext())

	ResetGlobalContext()
	assert.NotSame(t, replacement, GetGlobalContext())
}
