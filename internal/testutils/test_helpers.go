package testutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argshell/internal/store"
	"argshell/pkg/argtypes"
)

// TestDataGenerator provides common test data
type TestDataGenerator struct{}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator() *TestDataGenerator {
	return &TestDataGenerator{}
}

// DefinitionFiles returns definition file contents keyed by file name.
func (g *TestDataGenerator) DefinitionFiles() map[string]string {
	return map[string]string{
		"paint.yaml": `requires: ">= 0.1"
types:
  shade:
    type: term
    options: [Red, Blue, Light_Gray]
  level:
    type: int
    min: 0
    max: 10
  target:
    type: entity
    single: true
commands:
  paint: [where_pos, wall_shade, coat_level]
  tag: [who_target, label_text]
`,
		"broken.yaml": `types:
  half:
    type: float
    max: 5
  good:
    type: term
  nobase:
    options: [a]
`,
		"future.yaml": `requires: ">= 99.0"
types:
  later:
    type: term
`,
		"empty.yaml": ``,
	}
}

// Definition creates a definition with base type base and extra options as
// alternating key/value pairs.
func (g *TestDataGenerator) Definition(suffix, base string, kv ...any) store.Definition {
	cfg := argtypes.NewConfigMap().Set("type", base)
	for i := 0; i+1 < len(kv); i += 2 {
		cfg.Set(kv[i].(string), kv[i+1])
	}
	return store.Definition{Suffix: suffix, Config: cfg}
}

// AssertionHelpers provides common assertion patterns
type AssertionHelpers struct {
	t *testing.T
}

// NewAssertionHelpers creates assertion helpers for a test
func NewAssertionHelpers(t *testing.T) *AssertionHelpers {
	return &AssertionHelpers{t: t}
}

// AssertParseFailure checks that err is a ParseFailure for param caused by cause.
func (h *AssertionHelpers) AssertParseFailure(err error, param string, cause error) {
	h.t.Helper()
	var pf *argtypes.ParseFailure
	require.True(h.t, errors.As(err, &pf), "expected a ParseFailure, got %v", err)
	assert.Equal(h.t, param, pf.Param)
	assert.ErrorIs(h.t, err, cause)
}

// AssertConfigurationError checks that err is a ConfigurationError for
// suffix caused by cause.
func (h *AssertionHelpers) AssertConfigurationError(err error, suffix string, cause error) {
	h.t.Helper()
	var ce *argtypes.ConfigurationError
	require.True(h.t, errors.As(err, &ce), "expected a ConfigurationError, got %v", err)
	assert.Equal(h.t, suffix, ce.Suffix)
	assert.ErrorIs(h.t, err, cause)
}

// FileHelpers provides utilities for working with test files
type FileHelpers struct{}

// NewFileHelpers creates a new file helpers instance
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempFile writes content to filename inside a fresh temporary directory.
func (f *FileHelpers) CreateTempFile(t *testing.T, filename, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateTempDir creates a temporary directory holding files, keyed by
// relative path.
func (f *FileHelpers) CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// BenchmarkHelpers provides utilities for benchmark tests
type BenchmarkHelpers struct{}

// NewBenchmarkHelpers creates a new benchmark helpers instance
func NewBenchmarkHelpers() *BenchmarkHelpers {
	return &BenchmarkHelpers{}
}

// GenerateDefinitions creates count term definitions named t0, t1, ...
// each with a handful of options.
func (b *BenchmarkHelpers) GenerateDefinitions(count int) []store.Definition {
	defs := make([]store.Definition, 0, count)
	for i := 0; i < count; i++ {
		options := []any{fmt.Sprintf("north_%d", i), fmt.Sprintf("south_%d", i), "east_west"}
		defs = append(defs, store.Definition{
			Suffix: fmt.Sprintf("t%d", i),
			Config: argtypes.NewConfigMap().Set("type", "term").Set("options", options),
		})
	}
	return defs
}

// GenerateParams creates count parameter names cycling over suffixes.
func (b *BenchmarkHelpers) GenerateParams(count int, suffixes ...string) []string {
	params := make([]string, 0, count)
	for i := 0; i < count; i++ {
		params = append(params, strings.Join([]string{"p", fmt.Sprint(i), suffixes[i%len(suffixes)]}, "_"))
	}
	return params
}
