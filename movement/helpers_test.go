package movement

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

func floorBrush() world.Brush {
	return world.Brush{
		Box:      cube.Box(-4096, -4096, -16, 4096, 4096, 0),
		Contents: world.ContentsSolid,
		Entity:   world.EntityWorld,
	}
}

func solidBrush(x0, y0, z0, x1, y1, z1 float32) world.Brush {
	return world.Brush{Box: cube.Box(x0, y0, z0, x1, y1, z1), Contents: world.ContentsSolid}
}

func newTestSim(brushes ...world.Brush) *Simulator {
	w := world.NewBoxWorld(floorBrush())
	for _, b := range brushes {
		w.Add(b)
	}
	return NewSimulator(w, DefaultParameters(), DefaultOptions(), nil)
}

// standing returns a player whose feet rest on the floor.
func standing(x, y float32) State {
	return NewState(mgl32.Vec3{x, y, 24})
}

func forwardCmd(seq uint32) Command {
	return Command{Sequence: seq, Msec: 16, Forward: 127}
}

func yawCmd(seq uint32, yaw float32) Command {
	cmd := forwardCmd(seq)
	cmd.Angles[game.Yaw] = game.AngleToShort(yaw)
	return cmd
}

func hasEvent(s State, typ EventType) bool {
	for _, e := range s.Events.Since(0) {
		if e.Type == typ {
			return true
		}
	}
	return false
}
