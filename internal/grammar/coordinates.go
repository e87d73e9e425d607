package grammar

import (
	"math"
	"strings"

	"argshell/pkg/argtypes"
)

// Coordinate is one axis of a position: an absolute value or an offset
// relative to the command source.
type Coordinate struct {
	Relative bool
	Value    float64
}

// Resolve returns the absolute value of c given the source's value on that axis.
func (c Coordinate) Resolve(origin float64) float64 {
	if c.Relative {
		return origin + c.Value
	}
	return c.Value
}

// Coordinates is a parsed position. Local coordinates (^) are offsets along
// the left, up and forward axes of the source's rotation.
type Coordinates struct {
	Local bool
	Axes  []Coordinate
}

// Position resolves three coordinates against the source.
func (c Coordinates) Position(src argtypes.Source) argtypes.Vec3 {
	origin := src.Position()
	if c.Local {
		yaw, pitch := src.Rotation()
		return localToWorld(origin, yaw, pitch, c.Axes[0].Value, c.Axes[1].Value, c.Axes[2].Value)
	}
	return argtypes.Vec3{
		X: c.Axes[0].Resolve(origin.X),
		Y: c.Axes[1].Resolve(origin.Y),
		Z: c.Axes[2].Resolve(origin.Z),
	}
}

// BlockPosition resolves three coordinates and floors them onto the block grid.
func (c Coordinates) BlockPosition(src argtypes.Source) (x, y, z int) {
	p := c.Position(src)
	return int(math.Floor(p.X)), int(math.Floor(p.Y)), int(math.Floor(p.Z))
}

// Column resolves two coordinates as x and z of the source.
func (c Coordinates) Column(src argtypes.Source) (x, z int) {
	origin := src.Position()
	return int(math.Floor(c.Axes[0].Resolve(origin.X))), int(math.Floor(c.Axes[1].Resolve(origin.Z)))
}

// Rotation resolves two coordinates as yaw and pitch of the source.
func (c Coordinates) Rotation(src argtypes.Source) (yaw, pitch float64) {
	sy, sp := src.Rotation()
	return c.Axes[0].Resolve(sy), c.Axes[1].Resolve(sp)
}

// localToWorld converts left/up/forward offsets into a world position.
func localToWorld(origin argtypes.Vec3, yaw, pitch, left, up, forward float64) argtypes.Vec3 {
	const rad = math.Pi / 180
	f := math.Cos((yaw + 90) * rad)
	g := math.Sin((yaw + 90) * rad)
	h := math.Cos(-pitch * rad)
	i := math.Sin(-pitch * rad)
	j := math.Cos((-pitch + 90) * rad)
	k := math.Sin((-pitch + 90) * rad)

	fwd := argtypes.Vec3{X: f * h, Y: i, Z: g * h}
	upv := argtypes.Vec3{X: f * j, Y: k, Z: g * j}
	// left = -(fwd x up)
	lft := argtypes.Vec3{
		X: -(fwd.Y*upv.Z - fwd.Z*upv.Y),
		Y: -(fwd.Z*upv.X - fwd.X*upv.Z),
		Z: -(fwd.X*upv.Y - fwd.Y*upv.X),
	}
	return origin.Add(argtypes.Vec3{
		X: fwd.X*forward + upv.X*up + lft.X*left,
		Y: fwd.Y*forward + upv.Y*up + lft.Y*left,
		Z: fwd.Z*forward + upv.Z*up + lft.Z*left,
	})
}

// CoordinatesParser parses a fixed number of coordinates.
type CoordinatesParser struct {
	Count int
	// Integer requires absolute values to be integers
	Integer bool
	// Center adds 0.5 to bare integer x and z values
	Center     bool
	AllowLocal bool
	Samples    []string
}

// BlockPos returns a parser for three integer block coordinates.
func BlockPos() CoordinatesParser {
	return CoordinatesParser{
		Count: 3, Integer: true, AllowLocal: true,
		Samples: []string{"0 0 0", "~ ~ ~", "^ ^ ^", "^1 ^ ^-5", "~0.5 ~1 ~-5"},
	}
}

// Vec3 returns a parser for three decimal coordinates.
func Vec3(center bool) CoordinatesParser {
	return CoordinatesParser{
		Count: 3, Center: center, AllowLocal: true,
		Samples: []string{"0 0 0", "~ ~ ~", "^ ^ ^", "^1 ^ ^-5", "0.1 -0.5 .9", "~0.5 ~1 ~-5"},
	}
}

// ColumnPos returns a parser for integer x and z coordinates.
func ColumnPos() CoordinatesParser {
	return CoordinatesParser{
		Count: 2, Integer: true,
		Samples: []string{"0 0", "~ ~", "~1 ~-2"},
	}
}

// Rotation returns a parser for a yaw and pitch pair.
func Rotation() CoordinatesParser {
	return CoordinatesParser{
		Count:   2,
		Samples: []string{"0 0", "~ ~", "~-5 ~5"},
	}
}

// Parse reads the coordinates. The result is a Coordinates value.
func (p CoordinatesParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	if r.CanRead() && r.Peek() == '^' {
		if !p.AllowLocal {
			return nil, r.Fail(argtypes.ErrSyntax, "local coordinates are not allowed here")
		}
		return p.parseLocal(r, start)
	}

	coords := Coordinates{Axes: make([]Coordinate, 0, p.Count)}
	for i := 0; i < p.Count; i++ {
		if i > 0 {
			if !r.CanRead() || r.Peek() != ' ' {
				r.SetCursor(start)
				return nil, r.Fail(argtypes.ErrSyntax, "incomplete (expected %d coordinates)", p.Count)
			}
			r.Skip()
		}
		// y is never centered
		c, err := p.parseWorldAxis(r, p.Center && i != 1)
		if err != nil {
			return nil, err
		}
		coords.Axes = append(coords.Axes, c)
	}
	return coords, nil
}

func (p CoordinatesParser) parseWorldAxis(r *argtypes.Reader, center bool) (Coordinate, error) {
	if !r.CanRead() {
		return Coordinate{}, r.Fail(argtypes.ErrSyntax, "expected coordinate")
	}
	switch r.Peek() {
	case '^':
		return Coordinate{}, r.Fail(argtypes.ErrSyntax, "cannot mix world & local coordinates (everything must either use ^ or not)")
	case '~':
		r.Skip()
		offset := 0.0
		if !r.AtArgumentEnd() {
			f, err := r.ReadFloat()
			if err != nil {
				return Coordinate{}, err
			}
			offset = f
		}
		return Coordinate{Relative: true, Value: offset}, nil
	}

	if p.Integer {
		n, err := r.ReadInt64()
		if err != nil {
			return Coordinate{}, err
		}
		return Coordinate{Value: float64(n)}, nil
	}

	start := r.Cursor()
	f, err := r.ReadFloat()
	if err != nil {
		return Coordinate{}, err
	}
	if center && !strings.Contains(r.Consumed(start), ".") {
		f += 0.5
	}
	return Coordinate{Value: f}, nil
}

func (p CoordinatesParser) parseLocal(r *argtypes.Reader, start int) (any, error) {
	coords := Coordinates{Local: true, Axes: make([]Coordinate, 0, p.Count)}
	for i := 0; i < p.Count; i++ {
		if i > 0 {
			if !r.CanRead() || r.Peek() != ' ' {
				r.SetCursor(start)
				return nil, r.Fail(argtypes.ErrSyntax, "incomplete (expected %d coordinates)", p.Count)
			}
			r.Skip()
		}
		if !r.CanRead() || r.Peek() != '^' {
			return nil, r.Fail(argtypes.ErrSyntax, "cannot mix world & local coordinates (everything must either use ^ or not)")
		}
		r.Skip()
		offset := 0.0
		if !r.AtArgumentEnd() {
			f, err := r.ReadFloat()
			if err != nil {
				return nil, err
			}
			offset = f
		}
		coords.Axes = append(coords.Axes, Coordinate{Relative: true, Value: offset})
	}
	return coords, nil
}

// Examples returns the sample inputs for the parser.
func (p CoordinatesParser) Examples() []string { return p.Samples }

// Angle is a parsed yaw angle.
type Angle struct {
	Coordinate
}

// Degrees resolves the angle against the source yaw, wrapped to [-180, 180).
func (a Angle) Degrees(src argtypes.Source) float64 {
	yaw, _ := src.Rotation()
	return WrapDegrees(a.Resolve(yaw))
}

// AngleParser parses a single, possibly relative, angle.
type AngleParser struct{}

// Parse reads the angle. The result is an Angle.
func (AngleParser) Parse(r *argtypes.Reader) (any, error) {
	if !r.CanRead() {
		return nil, r.Fail(argtypes.ErrSyntax, "incomplete (expected 1 angle)")
	}
	c, err := CoordinatesParser{}.parseWorldAxis(r, false)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return nil, r.Fail(argtypes.ErrSyntax, "invalid angle")
	}
	return Angle{c}, nil
}

// Examples returns the sample inputs for the parser.
func (AngleParser) Examples() []string { return []string{"0", "~", "~-5"} }

// WrapDegrees maps an angle in degrees onto [-180, 180).
func WrapDegrees(d float64) float64 {
	w := math.Mod(d, 360)
	if w >= 180 {
		w -= 360
	}
	if w < -180 {
		w += 360
	}
	return w
}
