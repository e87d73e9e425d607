package arguments

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argshell/internal/host"
	"argshell/pkg/argtypes"
)

// customTable is a CustomTypes backed by a map.
type customTable map[string]ArgumentType

func (c customTable) CustomType(suffix string) (ArgumentType, bool) {
	t, ok := c[suffix]
	return t, ok
}

func cfg(kv ...any) *argtypes.ConfigMap {
	m := argtypes.NewConfigMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

// parseAndExtract runs t's parser over input and extracts the value as param.
func parseAndExtract(t *testing.T, typ ArgumentType, src argtypes.Source, input string) (argtypes.Value, error) {
	t.Helper()
	raw, err := typ.Parser().Parse(argtypes.NewReader(input))
	if err != nil {
		return nil, err
	}
	inv := host.NewInvocation(src)
	inv.Set("value", raw)
	return typ.Extract(inv, "value")
}

func mustBuild(t *testing.T, suffix string, c *argtypes.ConfigMap) ArgumentType {
	t.Helper()
	typ, err := Builtins().Build(suffix, c)
	require.NoError(t, err)
	return typ
}

func TestSuffixOf(t *testing.T) {
	tests := map[string]string{
		"target_entity": "entity",
		"Target_ENTITY": "entity",
		"foo":           "foo",
		"a_b_c":         "c",
		"count__":       "count",
		"_pos":          "pos",
		"":              "",
		"___":           "",
	}
	for param, want := range tests {
		assert.Equal(t, want, SuffixOf(param), param)
	}
}

func TestResolve_Builtins(t *testing.T) {
	cat := Builtins()
	for _, suffix := range cat.Suffixes() {
		typ := cat.Resolve("my_"+suffix, nil)
		assert.Equal(t, suffix, typ.Suffix())
		assert.True(t, typ.Sealed())
	}
	assert.Equal(t, "string", cat.Resolve("foo", nil).Suffix())
	assert.Same(t, cat.Default(), cat.Resolve("foo", nil))
}

func TestResolve_CatalogOrder(t *testing.T) {
	assert.Equal(t, []string{
		"string", "bool", "float", "int", "term", "text", "yaw", "pos", "block",
		"color", "columnpos", "dimension", "entity", "rotation", "swizzle", "time", "location",
	}, Builtins().Suffixes())
}

func TestResolve_CustomFirst(t *testing.T) {
	shade := mustBuild(t, "int", cfg("type", "float", "min", 0))
	custom := customTable{"int": shade}

	typ, origin := Builtins().ResolveOrigin("count_int", custom)
	assert.Same(t, shade, typ)
	assert.Equal(t, FromCustom, origin)

	_, origin = Builtins().ResolveOrigin("count_float", custom)
	assert.Equal(t, FromBuiltin, origin)

	_, origin = Builtins().ResolveOrigin("count_nope", custom)
	assert.Equal(t, FromDefault, origin)
}

func TestResolveStrict(t *testing.T) {
	typ, err := Builtins().ResolveStrict("where_pos", nil)
	require.NoError(t, err)
	assert.Equal(t, "pos", typ.Suffix())

	_, err = Builtins().ResolveStrict("where_spot", nil)
	assert.ErrorIs(t, err, argtypes.ErrUnknownType)
	assert.True(t, argtypes.IsConfigurationError(err))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  *argtypes.ConfigMap
		wantErr error
		wantKey string
	}{
		{"missing type", cfg("min", 1), argtypes.ErrMissingBaseType, "type"},
		{"unknown base", cfg("type", "banana"), argtypes.ErrUnknownBaseType, "type"},
		{"upper bound only float", cfg("type", "float", "max", 5), argtypes.ErrUpperBoundOnly, "max"},
		{"upper bound only int", cfg("type", "int", "max", 5), argtypes.ErrUpperBoundOnly, "max"},
		{"inverted bounds", cfg("type", "int", "min", 5, "max", 1), argtypes.ErrBoundsInverted, "max"},
		{"options not a list", cfg("type", "string", "options", "red"), argtypes.ErrNotAList, "options"},
		{"suggest not a list", cfg("type", "pos", "suggest", 3), argtypes.ErrNotAList, "suggest"},
		{"min not a number", cfg("type", "float", "min", "low"), argtypes.ErrNotANumber, "min"},
		{"flag not a bool", cfg("type", "entity", "single", "maybe"), argtypes.ErrNotABool, "single"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Builtins().Build("custom", tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var ce *argtypes.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "custom", ce.Suffix)
			assert.Equal(t, tt.wantKey, ce.Key)
		})
	}
}

func TestBuild_IndependentClones(t *testing.T) {
	small := mustBuild(t, "small", cfg("type", "int", "min", 0, "max", 10))
	big := mustBuild(t, "big", cfg("type", "int", "min", 100))

	assert.Equal(t, "small", small.Suffix())
	assert.Equal(t, "big", big.Suffix())

	lo, _ := small.(*IntType).Min()
	hi, ok := small.(*IntType).Max()
	assert.Equal(t, int64(0), lo)
	assert.True(t, ok)
	assert.Equal(t, int64(10), hi)

	_, ok = big.(*IntType).Max()
	assert.False(t, ok)

	template, _ := Builtins().Lookup("int")
	_, ok = template.(*IntType).Min()
	assert.False(t, ok, "template must stay unbounded")

	err := small.Configure(cfg("min", 50, "max", 60))
	assert.ErrorIs(t, err, argtypes.ErrSealed)
	hi, _ = small.(*IntType).Max()
	assert.Equal(t, int64(10), hi)

	assert.ErrorIs(t, template.Configure(cfg("min", 1)), argtypes.ErrSealed)
}

func TestBuild_AllBaseTypes(t *testing.T) {
	for _, suffix := range Builtins().Suffixes() {
		typ := mustBuild(t, "my"+suffix, cfg("type", suffix))
		assert.Equal(t, "my"+suffix, typ.Suffix())
		assert.True(t, typ.Sealed())
		assert.NotNil(t, typ.Parser())
	}
}

func TestFloatBounds(t *testing.T) {
	typ := mustBuild(t, "ratio", cfg("type", "float", "min", 0, "max", 5))
	src := host.NewWorld(1).Console()

	v, err := parseAndExtract(t, typ, src, "3.2")
	require.NoError(t, err)
	assert.Equal(t, argtypes.FloatValue(3.2), v)

	v, err = parseAndExtract(t, typ, src, "5.0")
	require.NoError(t, err)
	assert.Equal(t, argtypes.FloatValue(5), v)

	_, err = parseAndExtract(t, typ, src, "7.0")
	assert.ErrorIs(t, err, argtypes.ErrOutOfRange)
	assert.True(t, argtypes.IsParseFailure(err))

	lower := mustBuild(t, "positive", cfg("type", "float", "min", 0))
	_, err = parseAndExtract(t, lower, src, "-0.5")
	assert.ErrorIs(t, err, argtypes.ErrOutOfRange)
	v, err = parseAndExtract(t, lower, src, "123456789")
	require.NoError(t, err)
	assert.Equal(t, argtypes.FloatValue(123456789), v)
}

func TestIntBounds(t *testing.T) {
	typ := mustBuild(t, "level", cfg("type", "int", "min", 1, "max", 3))
	src := host.NewWorld(1).Console()

	for _, in := range []string{"1", "2", "3"} {
		_, err := parseAndExtract(t, typ, src, in)
		assert.NoError(t, err, in)
	}
	for _, in := range []string{"0", "4"} {
		_, err := parseAndExtract(t, typ, src, in)
		assert.ErrorIs(t, err, argtypes.ErrOutOfRange, in)
	}
	v, err := parseAndExtract(t, typ, src, "2")
	require.NoError(t, err)
	assert.Equal(t, argtypes.IntValue(2), v)
}

func TestStringOptions_CaseInsensitive(t *testing.T) {
	typ := mustBuild(t, "shade", cfg("type", "string", "case_sensitive", false, "options", []any{"Red", "Blue"}))
	src := host.NewWorld(1).Console()

	v, err := parseAndExtract(t, typ, src, "red")
	require.NoError(t, err)
	assert.Equal(t, argtypes.StringValue("red"), v)

	v, err = parseAndExtract(t, typ, src, `"BLUE"`)
	require.NoError(t, err)
	assert.Equal(t, argtypes.StringValue("blue"), v)

	_, err = parseAndExtract(t, typ, src, "green")
	assert.ErrorIs(t, err, argtypes.ErrNotInOptions)
	var pf *argtypes.ParseFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "value", pf.Param)
	assert.Equal(t, "green", pf.Input)
}

func TestStringOptions_CaseSensitive(t *testing.T) {
	typ := mustBuild(t, "shade", cfg("type", "string", "case_sensitive", true, "options", []any{"Red", "Blue"}))
	src := host.NewWorld(1).Console()

	_, err := parseAndExtract(t, typ, src, "red")
	assert.ErrorIs(t, err, argtypes.ErrNotInOptions)

	v, err := parseAndExtract(t, typ, src, "Red")
	require.NoError(t, err)
	assert.Equal(t, argtypes.StringValue("Red"), v)
}

func TestStringFamily(t *testing.T) {
	src := host.NewWorld(1).Console()

	v, err := parseAndExtract(t, NewTerm(), src, "Hello")
	require.NoError(t, err)
	assert.Equal(t, argtypes.StringValue("hello"), v)

	v, err = parseAndExtract(t, NewText(), src, "Hello There")
	require.NoError(t, err)
	assert.Equal(t, argtypes.StringValue("hello there"), v)

	term := mustBuild(t, "word", cfg("type", "term"))
	assert.Equal(t, NewTerm().Examples(), term.Examples())
	_, isString := term.(*StringType)
	assert.True(t, isString)
	assert.Equal(t, NewTerm().Parser(), term.Parser())

	str := mustBuild(t, "phrase", cfg("type", "string"))
	assert.Equal(t, NewString().Parser(), str.Parser())
}

func TestExtract_MissingResult(t *testing.T) {
	inv := host.NewInvocation(host.NewWorld(1).Console())
	for _, typ := range Builtins().All() {
		_, err := typ.Extract(inv, "absent")
		assert.ErrorIs(t, err, argtypes.ErrNoArgument, typ.Suffix())
	}
}

func TestBlockPos_Loaded(t *testing.T) {
	world := host.NewWorld(1)
	src := world.Console()
	loaded := mustBuild(t, "here", cfg("type", "pos", "loaded", true))

	v, err := parseAndExtract(t, loaded, src, "1 64 1")
	require.NoError(t, err)
	assert.Equal(t, argtypes.VectorValue{1, 64, 1}, v)

	_, err = parseAndExtract(t, loaded, src, "1000 64 1000")
	assert.ErrorIs(t, err, argtypes.ErrNotLoaded)

	v, err = parseAndExtract(t, NewBlockPos(), src, "1000 64 1000")
	require.NoError(t, err)
	assert.Equal(t, argtypes.VectorValue{1000, 64, 1000}, v)
}

func TestLocation_BlockCentered(t *testing.T) {
	src := host.NewWorld(1).Console()

	v, err := parseAndExtract(t, NewLocation(), src, "1 2 3")
	require.NoError(t, err)
	assert.Equal(t, argtypes.VectorValue{1.5, 2, 3.5}, v)

	raw := mustBuild(t, "exact", cfg("type", "location", "block_centered", false))
	v, err = parseAndExtract(t, raw, src, "1 2 3")
	require.NoError(t, err)
	assert.Equal(t, argtypes.VectorValue{1, 2, 3}, v)
}

func TestEntity_SingleAndPlayers(t *testing.T) {
	world := host.NewWorld(1)
	steve := host.NewPlayer("Steve", argtypes.Vec3{})
	cow := host.NewMob("minecraft:cow", argtypes.Vec3{X: 3})
	world.Spawn(steve, cow)
	src := world.As(steve)

	single := mustBuild(t, "one", cfg("type", "entity", "single", true))

	v, err := parseAndExtract(t, single, src, "@e[type=pig,limit=1]")
	require.NoError(t, err)
	assert.Equal(t, argtypes.Null, v)

	v, err = parseAndExtract(t, single, src, "@s")
	require.NoError(t, err)
	assert.Equal(t, argtypes.EntityValue{Entity: steve}, v)

	_, err = parseAndExtract(t, single, src, "@e")
	assert.ErrorIs(t, err, argtypes.ErrTooManyEntities)

	v, err = parseAndExtract(t, NewEntity(), src, "@e")
	require.NoError(t, err)
	assert.Equal(t, argtypes.ListValue{argtypes.EntityValue{Entity: steve}, argtypes.EntityValue{Entity: cow}}, v)

	v, err = parseAndExtract(t, NewEntity(), src, "@e[type=pig]")
	require.NoError(t, err)
	assert.Equal(t, argtypes.ListValue{}, v)

	players := mustBuild(t, "who", cfg("type", "entity", "players", true))
	_, err = parseAndExtract(t, players, src, "@e")
	assert.ErrorIs(t, err, argtypes.ErrPlayersOnly)
	v, err = parseAndExtract(t, players, src, "@a")
	require.NoError(t, err)
	assert.Equal(t, argtypes.ListValue{argtypes.EntityValue{Entity: steve}}, v)
}

func TestVanillaExtraction(t *testing.T) {
	world := host.NewWorld(1)
	src := world.Console()
	src.Yaw, src.Pitch = 90, 10
	cat := Builtins()

	tests := []struct {
		suffix string
		input  string
		want   argtypes.Value
	}{
		{"bool", "true", argtypes.BoolValue(true)},
		{"yaw", "~100", argtypes.FloatValue(-170)},
		{"block", "stone[lit=true]", argtypes.StringValue("minecraft:stone[lit=true]")},
		{"color", "red", argtypes.ListValue{argtypes.StringValue("red"), argtypes.IntValue(0xFF5555*256 + 255)}},
		{"columnpos", "~3 -4", argtypes.VectorValue{3, -4}},
		{"dimension", "the_nether", argtypes.StringValue("the_nether")},
		{"rotation", "~ 5", argtypes.ListValue{argtypes.FloatValue(90), argtypes.FloatValue(5)}},
		{"swizzle", "zx", argtypes.StringValue("xz")},
		{"time", "2s", argtypes.IntValue(40)},
	}

	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			typ, ok := cat.Lookup(tt.suffix)
			require.True(t, ok)
			v, err := parseAndExtract(t, typ, src, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	dim, _ := cat.Lookup("dimension")
	_, err := parseAndExtract(t, dim, src, "aether")
	assert.ErrorIs(t, err, argtypes.ErrUnknownDimension)

	world.AddDimension("minecraft:aether")
	v, err := parseAndExtract(t, dim, src, "aether")
	require.NoError(t, err)
	assert.Equal(t, argtypes.StringValue("aether"), v)
}

func TestNeedsMatching(t *testing.T) {
	want := map[string]bool{
		"string": true, "bool": false, "float": true, "int": true, "term": true,
		"text": true, "yaw": true, "pos": false, "block": false, "color": false,
		"columnpos": false, "dimension": false, "entity": false, "rotation": true,
		"swizzle": true, "time": false, "location": false,
	}
	for _, typ := range Builtins().All() {
		assert.Equal(t, want[typ.Suffix()], typ.NeedsMatching(), typ.Suffix())
	}
}

func TestSuggest_Placeholder(t *testing.T) {
	pos, _ := Builtins().Lookup("pos")
	assert.Equal(t, []string{"... pos"}, slices.Collect(pos.Suggest("")))
	assert.Empty(t, slices.Collect(pos.Suggest("1")))
}

func TestSuggest_Configured(t *testing.T) {
	dir := mustBuild(t, "heading", cfg("type", "term", "suggest", []any{"north", "north_east", "east", "south_west", "north"}))
	assert.True(t, dir.NeedsMatching())

	assert.Equal(t, []string{"north", "north_east", "east", "south_west"}, slices.Collect(dir.Suggest("")))
	assert.Equal(t, []string{"north_east", "east"}, slices.Collect(dir.Suggest("EA")))
	assert.Equal(t, []string{"south_west"}, slices.Collect(dir.Suggest("west")))
	assert.Empty(t, slices.Collect(dir.Suggest("orth")))

	empty := mustBuild(t, "spot", cfg("type", "pos", "suggest", []any{}))
	assert.False(t, empty.NeedsMatching())
	assert.Equal(t, []string{"... spot"}, slices.Collect(empty.Suggest("")))

	loc := mustBuild(t, "spot", cfg("type", "location", "suggest", []any{"0 64 0"}))
	assert.True(t, loc.NeedsMatching())
	assert.Equal(t, []string{"0 64 0"}, slices.Collect(loc.Suggest("0")))
}

func TestSuggest_StringOptions(t *testing.T) {
	typ := mustBuild(t, "mode", cfg("type", "term", "options", []any{"Fast_Mode", "slow_mode"}))
	assert.Equal(t, []string{"fast_mode", "slow_mode"}, slices.Collect(typ.Suggest("")))
	assert.Equal(t, []string{"fast_mode", "slow_mode"}, slices.Collect(typ.Suggest("MODE")))
	assert.Equal(t, []string{"slow_mode"}, slices.Collect(typ.Suggest("s")))
}

func TestSuggest_Idempotent(t *testing.T) {
	typ := mustBuild(t, "heading", cfg("type", "term", "suggest", []any{"north", "north_east", "east"}))
	seq := typ.Suggest("e")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, first, slices.Collect(typ.Suggest("e")))
}

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		prefix, option string
		want           bool
	}{
		{"east", "north_east", true},
		{"orth", "north_east", false},
		{"", "north_east", true},
		{"north", "north_east", true},
		{"north_e", "north_east", true},
		{"", "", true},
		{"a", "", false},
		{"b", "a__b", true},
		{"", "trailing_", true},
		{"x", "trailing_", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesPrefix(tt.prefix, tt.option), "%q in %q", tt.prefix, tt.option)
	}
}

func TestExamples_AreCopies(t *testing.T) {
	typ := NewString()
	ex := typ.Examples()
	ex[0] = "mutated"
	assert.NotEqual(t, "mutated", typ.Examples()[0])
}

func TestNewCatalog_LaterSuffixWins(t *testing.T) {
	first := NewTerm()
	second := mustBuild(t, "term", cfg("type", "text"))
	cat := NewCatalog(NewString(), first, second)

	assert.Equal(t, []string{"string", "term"}, cat.Suffixes())
	got, ok := cat.Lookup("term")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.True(t, first.Sealed())
}
