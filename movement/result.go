package movement

import "github.com/oomph-ac/pmove/world"

// SlideOutcome is a bitmask describing how a slide resolved.
type SlideOutcome uint8

const (
	// SlideMovedFully is set when the first trace reached its end.
	SlideMovedFully SlideOutcome = 1 << iota
	// SlideBlocked is set when the velocity had to be clipped against a plane.
	SlideBlocked
	// SlideTrapped is set when the player could not move at all.
	SlideTrapped
	// SlideWallBlocked is set when one of the clipping planes was a wall.
	SlideWallBlocked
	// SlideTouched is set when any trace hit a plane.
	SlideTouched
	// SlideStepped is set when a step slide took the stepped-up path.
	SlideStepped
)

// Has reports whether all bits of o2 are set.
func (o SlideOutcome) Has(o2 SlideOutcome) bool {
	return o&o2 == o2
}

// Result reports what happened during a step. The State itself carries everything that persists.
type Result struct {
	Mode   ActiveMode
	Ground GroundInfo
	Liquid LiquidInfo

	// ImpactDelta is the speed lost on landing this step, zero if the player did not land.
	ImpactDelta float32
	Slide       SlideOutcome
	// StepHeight is how far a step slide lifted the player.
	StepHeight float32
	// Touched lists the entities touched during the step, in touch order.
	Touched []int32

	ScreenContents world.Contents
	// RolledBack is set when the step ended in solid and was undone.
	RolledBack bool
}
