package argtypes

import "github.com/google/uuid"

// Parser consumes a single argument from the command line.
// The raw result it returns is stored by the host and later handed back to
// the argument type through Invocation.Result.
type Parser interface {
	Parse(r *Reader) (any, error)
	Examples() []string
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc struct {
	Fn      func(r *Reader) (any, error)
	Samples []string
}

// Parse calls p.Fn.
func (p ParserFunc) Parse(r *Reader) (any, error) { return p.Fn(r) }

// Examples returns p.Samples.
func (p ParserFunc) Examples() []string { return p.Samples }

// Vec3 is a point in the host world.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v translated by o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// DistanceSq returns the squared distance between v and o.
func (v Vec3) DistanceSq(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Entity is a live entity owned by the host.
type Entity interface {
	ID() uuid.UUID
	Name() string
	Type() string
	IsPlayer() bool
	Position() Vec3
}

// Source describes who is running a command and the world around them.
type Source interface {
	Position() Vec3
	// Rotation returns yaw and pitch in degrees.
	Rotation() (yaw, pitch float64)
	// Entity returns the executing entity, or nil for non-entity sources.
	Entity() Entity
	Entities() []Entity
	IsLoaded(x, y, z int) bool
	Dimensions() []string
}

// Invocation is the host's view of a successfully parsed command.
type Invocation interface {
	// Result returns the raw result the parser stored for param.
	Result(param string) (any, bool)
	Source() Source
}
