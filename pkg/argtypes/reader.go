package argtypes

import (
	"strconv"
	"strings"
)

// Reader is a cursor over a command line. Parsers advance it as they
// consume their argument; on failure they leave it where the argument began.
type Reader struct {
	input  string
	cursor int
}

// NewReader creates a Reader positioned at the start of input.
func NewReader(input string) *Reader {
	return &Reader{input: input}
}

// Input returns the full command line.
func (r *Reader) Input() string { return r.input }

// Cursor returns the current read position.
func (r *Reader) Cursor() int { return r.cursor }

// SetCursor moves the read position.
func (r *Reader) SetCursor(cursor int) { r.cursor = cursor }

// Remaining returns the unread part of the input.
func (r *Reader) Remaining() string { return r.input[r.cursor:] }

// Consumed returns the input between start and the cursor.
func (r *Reader) Consumed(start int) string { return r.input[start:r.cursor] }

// CanRead reports whether at least n more bytes are available (n defaults to 1).
func (r *Reader) CanRead(n ...int) bool {
	need := 1
	if len(n) > 0 {
		need = n[0]
	}
	return r.cursor+need <= len(r.input)
}

// Peek returns the byte at the cursor plus offset without consuming it.
func (r *Reader) Peek(offset ...int) byte {
	i := r.cursor
	if len(offset) > 0 {
		i += offset[0]
	}
	return r.input[i]
}

// Read consumes and returns the next byte.
func (r *Reader) Read() byte {
	c := r.input[r.cursor]
	r.cursor++
	return c
}

// Skip advances past the next byte.
func (r *Reader) Skip() { r.cursor++ }

// SkipWhitespace advances past spaces.
func (r *Reader) SkipWhitespace() {
	for r.CanRead() && r.Peek() == ' ' {
		r.Skip()
	}
}

// AtArgumentEnd reports whether the cursor is at the end of input or at a space.
func (r *Reader) AtArgumentEnd() bool {
	return !r.CanRead() || r.Peek() == ' '
}

// Fail builds a ParseFailure positioned at the cursor.
func (r *Reader) Fail(cause error, format string, args ...any) *ParseFailure {
	pf := Failf(cause, format, args...)
	pf.Cursor = r.cursor
	return pf
}

// Expect consumes c or fails.
func (r *Reader) Expect(c byte) error {
	if !r.CanRead() || r.Peek() != c {
		return r.Fail(ErrSyntax, "expected '%c'", c)
	}
	r.Skip()
	return nil
}

// IsNumberChar reports whether c may appear in a number literal.
func IsNumberChar(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-'
}

// IsUnquotedChar reports whether c may appear in an unquoted string.
func IsUnquotedChar(c byte) bool {
	return c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c == '_' || c == '-' || c == '.' || c == '+'
}

// IsQuote reports whether c opens a quoted string.
func IsQuote(c byte) bool {
	return c == '"' || c == '\''
}

// ReadUnquotedString consumes a run of unquoted-string characters.
func (r *Reader) ReadUnquotedString() string {
	start := r.cursor
	for r.CanRead() && IsUnquotedChar(r.Peek()) {
		r.Skip()
	}
	return r.input[start:r.cursor]
}

// ReadQuotedString consumes a quoted string, honoring backslash escapes.
func (r *Reader) ReadQuotedString() (string, error) {
	if !r.CanRead() {
		return "", nil
	}
	quote := r.Peek()
	if !IsQuote(quote) {
		return "", r.Fail(ErrSyntax, "expected quote to start a string")
	}
	r.Skip()
	var sb strings.Builder
	escaped := false
	for r.CanRead() {
		c := r.Read()
		switch {
		case escaped:
			if c != quote && c != '\\' {
				r.cursor--
				return "", r.Fail(ErrSyntax, "invalid escape sequence '%c' in quoted string", c)
			}
			sb.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			return sb.String(), nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", r.Fail(ErrSyntax, "unclosed quoted string")
}

// ReadString consumes a quoted or unquoted string.
func (r *Reader) ReadString() (string, error) {
	if !r.CanRead() {
		return "", nil
	}
	if IsQuote(r.Peek()) {
		return r.ReadQuotedString()
	}
	return r.ReadUnquotedString(), nil
}

// ReadInt64 consumes an integer literal.
func (r *Reader) ReadInt64() (int64, error) {
	start := r.cursor
	for r.CanRead() && IsNumberChar(r.Peek()) {
		r.Skip()
	}
	number := r.input[start:r.cursor]
	if number == "" {
		return 0, r.Fail(ErrSyntax, "expected integer")
	}
	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		r.cursor = start
		return 0, r.Fail(ErrSyntax, "invalid integer '%s'", number)
	}
	return n, nil
}

// ReadFloat consumes a decimal literal.
func (r *Reader) ReadFloat() (float64, error) {
	start := r.cursor
	for r.CanRead() && IsNumberChar(r.Peek()) {
		r.Skip()
	}
	number := r.input[start:r.cursor]
	if number == "" {
		return 0, r.Fail(ErrSyntax, "expected float")
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		r.cursor = start
		return 0, r.Fail(ErrSyntax, "invalid float '%s'", number)
	}
	return f, nil
}

// ReadBool consumes "true" or "false".
func (r *Reader) ReadBool() (bool, error) {
	start := r.cursor
	value := r.ReadUnquotedString()
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "":
		return false, r.Fail(ErrSyntax, "expected bool")
	}
	r.cursor = start
	return false, r.Fail(ErrSyntax, "invalid bool, expected true or false but found '%s'", value)
}
