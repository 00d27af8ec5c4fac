package world

import (
	"strings"

	"github.com/oomph-ac/pmove/oerror"
)

// Contents is a bitmask describing what occupies a volume.
type Contents uint32

const (
	ContentsSolid Contents = 1 << iota
	ContentsPlayerClip
	ContentsBody
	ContentsWater
	ContentsSlime
	ContentsLava
	ContentsLadder
	ContentsCurrentEast
	ContentsCurrentNorth
	ContentsCurrentWest
	ContentsCurrentSouth
	ContentsCurrentUp
	ContentsCurrentDown
)

const (
	// MaskPlayerSolid is what a living player collides with.
	MaskPlayerSolid = ContentsSolid | ContentsPlayerClip | ContentsBody
	// MaskDeadSolid is what a dead player or spectator collides with.
	MaskDeadSolid = ContentsSolid | ContentsPlayerClip
	// MaskWater is every liquid a player can swim in.
	MaskWater = ContentsWater | ContentsSlime | ContentsLava
	// MaskCurrent is every liquid current direction.
	MaskCurrent = ContentsCurrentEast | ContentsCurrentNorth | ContentsCurrentWest |
		ContentsCurrentSouth | ContentsCurrentUp | ContentsCurrentDown
)

// SurfaceFlags describe properties of the surface that was hit by a trace.
type SurfaceFlags uint32

const (
	SurfaceSlick SurfaceFlags = 1 << iota
	SurfaceLadder
	SurfaceNoSteps
	SurfaceNoDamage
)

// Material is the surface material used to pick footstep sounds.
type Material uint8

const (
	MaterialDefault Material = iota
	MaterialMetal
	MaterialWood
	MaterialFlesh
)

var contentsNames = map[string]Contents{
	"solid":         ContentsSolid,
	"playerclip":    ContentsPlayerClip,
	"body":          ContentsBody,
	"water":         ContentsWater,
	"slime":         ContentsSlime,
	"lava":          ContentsLava,
	"ladder":        ContentsLadder,
	"current_east":  ContentsCurrentEast,
	"current_north": ContentsCurrentNorth,
	"current_west":  ContentsCurrentWest,
	"current_south": ContentsCurrentSouth,
	"current_up":    ContentsCurrentUp,
	"current_down":  ContentsCurrentDown,
}

var surfaceNames = map[string]SurfaceFlags{
	"slick":    SurfaceSlick,
	"ladder":   SurfaceLadder,
	"nosteps":  SurfaceNoSteps,
	"nodamage": SurfaceNoDamage,
}

var materialNames = map[string]Material{
	"":        MaterialDefault,
	"default": MaterialDefault,
	"metal":   MaterialMetal,
	"wood":    MaterialWood,
	"flesh":   MaterialFlesh,
}

// ParseContents converts a list of content names into a Contents mask.
func ParseContents(names []string) (Contents, error) {
	var c Contents
	for _, name := range names {
		v, ok := contentsNames[strings.ToLower(name)]
		if !ok {
			return 0, oerror.New("unknown contents %q", name)
		}
		c |= v
	}
	return c, nil
}

// ParseSurface converts a list of surface flag names into SurfaceFlags.
func ParseSurface(names []string) (SurfaceFlags, error) {
	var s SurfaceFlags
	for _, name := range names {
		v, ok := surfaceNames[strings.ToLower(name)]
		if !ok {
			return 0, oerror.New("unknown surface flag %q", name)
		}
		s |= v
	}
	return s, nil
}

// ParseMaterial converts a material name into a Material.
func ParseMaterial(name string) (Material, error) {
	m, ok := materialNames[strings.ToLower(name)]
	if !ok {
		return 0, oerror.New("unknown material %q", name)
	}
	return m, nil
}
