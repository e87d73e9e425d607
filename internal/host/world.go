// Package host is a small in-memory command host: a world with entities and
// loaded chunks, command sources, invocation contexts and a sequential
// command grammar that drives argument parsers.
package host

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"argshell/pkg/argtypes"
)

// Entity is an in-memory entity.
type Entity struct {
	id     uuid.UUID
	name   string
	kind   string
	player bool
	pos    argtypes.Vec3
}

// NewPlayer creates a player entity.
func NewPlayer(name string, pos argtypes.Vec3) *Entity {
	return &Entity{id: uuid.New(), name: name, kind: "minecraft:player", player: true, pos: pos}
}

// NewMob creates a non-player entity of the given type.
func NewMob(kind string, pos argtypes.Vec3) *Entity {
	return &Entity{id: uuid.New(), name: kind, kind: kind, pos: pos}
}

func (e *Entity) ID() uuid.UUID           { return e.id }
func (e *Entity) Name() string            { return e.name }
func (e *Entity) Type() string            { return e.kind }
func (e *Entity) IsPlayer() bool          { return e.player }
func (e *Entity) Position() argtypes.Vec3 { return e.pos }

// chunk identifies a 16x16 column of blocks.
type chunk struct{ x, z int }

// World holds entities, dimensions and the set of loaded chunks.
type World struct {
	mu         sync.RWMutex
	entities   []argtypes.Entity
	dimensions []string
	loaded     map[chunk]struct{}
	MinY, MaxY int
}

// NewWorld creates a world with the three default dimensions and the chunks
// within spawnRadius chunks of the origin loaded.
func NewWorld(spawnRadius int) *World {
	w := &World{
		dimensions: []string{"minecraft:overworld", "minecraft:the_nether", "minecraft:the_end"},
		loaded:     make(map[chunk]struct{}),
		MinY:       -64,
		MaxY:       319,
	}
	for x := -spawnRadius; x <= spawnRadius; x++ {
		for z := -spawnRadius; z <= spawnRadius; z++ {
			w.loaded[chunk{x, z}] = struct{}{}
		}
	}
	return w
}

// Spawn adds entities to the world.
func (w *World) Spawn(entities ...*Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entities {
		w.entities = append(w.entities, e)
	}
}

// Entities returns a snapshot of the world's entities.
func (w *World) Entities() []argtypes.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.entities)
}

// Player returns the player with the given name.
func (w *World) Player(name string) (*Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, e := range w.entities {
		if e.IsPlayer() && e.Name() == name {
			return e.(*Entity), true
		}
	}
	return nil, false
}

// AddDimension registers a dimension identifier.
func (w *World) AddDimension(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !slices.Contains(w.dimensions, id) {
		w.dimensions = append(w.dimensions, id)
	}
}

// Dimensions returns the registered dimension identifiers.
func (w *World) Dimensions() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.dimensions)
}

// LoadChunk marks the chunk containing block x, z as loaded.
func (w *World) LoadChunk(x, z int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loaded[chunk{x >> 4, z >> 4}] = struct{}{}
}

// UnloadChunk marks the chunk containing block x, z as unloaded.
func (w *World) UnloadChunk(x, z int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.loaded, chunk{x >> 4, z >> 4})
}

// IsLoaded reports whether the block is inside the build height and in a
// loaded chunk.
func (w *World) IsLoaded(x, y, z int) bool {
	if y < w.MinY || y > w.MaxY {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.loaded[chunk{x >> 4, z >> 4}]
	return ok
}

// Console returns a source at the world origin with no executing entity.
func (w *World) Console() *Source {
	return &Source{World: w}
}

// As returns a source executing as e, at its position.
func (w *World) As(e *Entity) *Source {
	return &Source{World: w, Pos: e.Position(), Self: e}
}

// Source is a command source bound to a world.
type Source struct {
	World      *World
	Pos        argtypes.Vec3
	Yaw, Pitch float64
	Self       *Entity
}

func (s *Source) Position() argtypes.Vec3 { return s.Pos }

func (s *Source) Rotation() (yaw, pitch float64) { return s.Yaw, s.Pitch }

func (s *Source) Entity() argtypes.Entity {
	if s.Self == nil {
		return nil
	}
	return s.Self
}

func (s *Source) Entities() []argtypes.Entity { return s.World.Entities() }

func (s *Source) IsLoaded(x, y, z int) bool { return s.World.IsLoaded(x, y, z) }

func (s *Source) Dimensions() []string { return s.World.Dimensions() }
