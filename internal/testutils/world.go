// Package testutils provides fixtures and helpers shared by argshell tests:
// a populated host world, a test-mode context and definition files.
package testutils

import (
	argcontext "argshell/internal/context"
	"argshell/internal/host"
	"argshell/pkg/argtypes"
)

// NewTestWorld creates a world with spawn chunks loaded (radius 4) and three
// entities: the players Steve at the origin and Alex at (10, 64, 10), and a
// zombie at (3, 64, -2).
func NewTestWorld() *host.World {
	w := host.NewWorld(4)
	w.Spawn(
		host.NewPlayer("Steve", argtypes.Vec3{}),
		host.NewPlayer("Alex", argtypes.Vec3{X: 10, Y: 64, Z: 10}),
		host.NewMob("minecraft:zombie", argtypes.Vec3{X: 3, Y: 64, Z: -2}),
	)
	return w
}

// NewTestContext creates a test-mode context over NewTestWorld and installs
// it as the global context. The previous global context is restored by cleanup.
func NewTestContext(cleanup func(func())) *argcontext.ArgContext {
	ctx := argcontext.New()
	ctx.SetTestMode(true)
	ctx.SetWorld(NewTestWorld())

	prev := argcontext.GetGlobalContext()
	argcontext.SetGlobalContext(ctx)
	cleanup(func() { argcontext.SetGlobalContext(prev) })
	return ctx
}
