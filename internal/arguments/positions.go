package arguments

import (
	"argshell/internal/grammar"
	"argshell/pkg/argtypes"
)

// BlockPosType is an integer block position. When configured with loaded,
// extraction also requires the position to be loaded in the host world.
type BlockPosType struct {
	baseType
	mustBeLoaded bool
}

// NewBlockPos returns the variant registered as "pos".
func NewBlockPos() *BlockPosType {
	return &BlockPosType{baseType: newBase("pos", grammar.BlockPos().Examples(), false)}
}

// MustBeLoaded reports whether extraction checks that the position is loaded.
func (b *BlockPosType) MustBeLoaded() bool { return b.mustBeLoaded }

func (b *BlockPosType) Parser() argtypes.Parser { return grammar.BlockPos() }

// Extract resolves the position against the invocation's source.
func (b *BlockPosType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	coords, err := result[grammar.Coordinates](inv, param)
	if err != nil {
		return nil, err
	}
	x, y, z := coords.BlockPosition(inv.Source())
	if b.mustBeLoaded && !inv.Source().IsLoaded(x, y, z) {
		return nil, &argtypes.ParseFailure{Param: param, Cursor: -1, Err: argtypes.ErrNotLoaded}
	}
	return argtypes.VectorValue{float64(x), float64(y), float64(z)}, nil
}

func (b *BlockPosType) Configure(cfg *argtypes.ConfigMap) error {
	if err := b.configure(cfg); err != nil {
		return err
	}
	loaded, err := cfg.Bool("loaded", false)
	if err != nil {
		return err
	}
	b.mustBeLoaded = loaded
	return nil
}

func (b *BlockPosType) Builder() Factory {
	return func() ArgumentType { return NewBlockPos() }
}

// LocationType is a decimal position. Bare integer x and z values are
// moved to the block center unless block_centered is false.
type LocationType struct {
	baseType
	blockCentered bool
}

// NewLocation returns the variant registered as "location".
func NewLocation() *LocationType {
	return &LocationType{
		baseType:      newBase("location", grammar.Vec3(true).Examples(), false),
		blockCentered: true,
	}
}

// BlockCentered reports whether bare integer coordinates are centered.
func (l *LocationType) BlockCentered() bool { return l.blockCentered }

func (l *LocationType) Parser() argtypes.Parser { return grammar.Vec3(l.blockCentered) }

func (l *LocationType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	coords, err := result[grammar.Coordinates](inv, param)
	if err != nil {
		return nil, err
	}
	p := coords.Position(inv.Source())
	return argtypes.VectorValue{p.X, p.Y, p.Z}, nil
}

func (l *LocationType) Configure(cfg *argtypes.ConfigMap) error {
	if err := l.configure(cfg); err != nil {
		return err
	}
	centered, err := cfg.Bool("block_centered", true)
	if err != nil {
		return err
	}
	l.blockCentered = centered
	return nil
}

func (l *LocationType) Builder() Factory {
	return func() ArgumentType { return NewLocation() }
}
