package argtypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadString(t *testing.T) {
	r := NewReader(`"quoted \"phrase\"" bare_word`)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, `quoted "phrase"`, s)

	r.SkipWhitespace()
	s, err = r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "bare_word", s)
	assert.False(t, r.CanRead())
}

func TestReader_ReadQuotedString_Unclosed(t *testing.T) {
	r := NewReader(`"never ends`)
	_, err := r.ReadQuotedString()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestReader_Numbers(t *testing.T) {
	r := NewReader("42 -1.5 x")

	n, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	r.SkipWhitespace()
	f, err := r.ReadFloat()
	require.NoError(t, err)
	assert.Equal(t, -1.5, f)

	r.SkipWhitespace()
	start := r.Cursor()
	_, err = r.ReadInt64()
	require.Error(t, err)
	assert.Equal(t, start, r.Cursor(), "failed reads leave the cursor in place")
}

func TestReader_InvalidIntegerResetsCursor(t *testing.T) {
	r := NewReader("1.5")
	_, err := r.ReadInt64()
	require.Error(t, err)
	assert.Equal(t, 0, r.Cursor())

	var pf *ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, 0, pf.Cursor)
}

func TestReader_ReadBool(t *testing.T) {
	b, err := NewReader("true").ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = NewReader("yes").ReadBool()
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestValue_Strings(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "3", IntValue(3).String())
	assert.Equal(t, "2.5", FloatValue(2.5).String())
	assert.Equal(t, "[1, 64, -3]", VectorValue{1, 64, -3}.String())
	assert.Equal(t, "[red, 16733695]", ListValue{StringValue("red"), IntValue(16733695)}.String())
	assert.Equal(t, KindNumber, FloatValue(1).Kind())
	assert.Equal(t, "vector", KindVector.String())
}
