package world

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	testMins = mgl32.Vec3{-15, -15, -24}
	testMaxs = mgl32.Vec3{15, 15, 32}
)

func floorWorld() *BoxWorld {
	return NewBoxWorld(Brush{
		Box:      cube.Box(-512, -512, -16, 512, 512, 0),
		Contents: ContentsSolid,
		Material: MaterialMetal,
		Entity:   EntityWorld,
	})
}

func TestTraceStopsShortOfFloor(t *testing.T) {
	w := floorWorld()
	start := mgl32.Vec3{0, 0, 100}
	res := w.Trace(start, testMins, testMaxs, mgl32.Vec3{0, 0, -100}, MaskPlayerSolid)
	if !res.Hit() {
		t.Fatalf("expected the floor to be hit")
	}
	if res.Plane.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("unexpected normal %v", res.Plane.Normal)
	}
	// The feet (origin - 24) end just above z=0.
	if feet := res.EndPos.Z() - 24; feet <= 0 || feet > 0.05 {
		t.Fatalf("expected feet just above the floor, got %v", feet)
	}
	if res.Material != MaterialMetal || res.Entity != EntityWorld {
		t.Fatalf("surface data not reported: %+v", res)
	}
}

func TestTraceMissReportsFullFraction(t *testing.T) {
	w := floorWorld()
	res := w.Trace(mgl32.Vec3{0, 0, 100}, testMins, testMaxs, mgl32.Vec3{50, 0, 100}, MaskPlayerSolid)
	if res.Hit() || res.EndPos != (mgl32.Vec3{50, 0, 100}) || res.Entity != EntityNone {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestTraceStartSolid(t *testing.T) {
	w := floorWorld()
	res := w.Trace(mgl32.Vec3{0, 0, 0}, testMins, testMaxs, mgl32.Vec3{0, 0, 0}, MaskPlayerSolid)
	if !res.AllSolid || !res.StartSolid || res.Fraction != 0 {
		t.Fatalf("expected an all-solid result, got %+v", res)
	}
}

func TestClipIgnoresEntities(t *testing.T) {
	w := NewBoxWorld(Brush{
		Box:      cube.Box(40, -16, -100, 60, 16, 100),
		Contents: ContentsBody,
		Entity:   3,
	})
	start, end := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{100, 0, 0}
	if res := w.Trace(start, testMins, testMaxs, end, MaskPlayerSolid); !res.Hit() || res.Entity != 3 {
		t.Fatalf("trace must hit the entity brush, got %+v", res)
	}
	if res := w.Clip(start, testMins, testMaxs, end, MaskPlayerSolid); res.Hit() {
		t.Fatalf("clip must ignore entity brushes, got %+v", res)
	}
}

func TestPointContents(t *testing.T) {
	w := NewBoxWorld(Brush{
		Box:      cube.Box(-100, -100, -100, 100, 100, 0),
		Contents: ContentsWater | ContentsCurrentEast,
	})
	if c := w.PointContents(mgl32.Vec3{0, 0, -10}); c&ContentsWater == 0 || c&MaskCurrent == 0 {
		t.Fatalf("expected water with a current, got %b", c)
	}
	if c := w.PointContents(mgl32.Vec3{0, 0, 10}); c != 0 {
		t.Fatalf("expected empty contents above the water, got %b", c)
	}
}

func TestParseMap(t *testing.T) {
	w, err := ParseMap([]byte(`
name: test
brushes:
  - min: [-64, -64, -16]
    max: [64, 64, 0]
    surface: [slick]
  - min: [-64, -64, 0]
    max: [64, 64, 64]
    contents: [water]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Brushes()) != 2 {
		t.Fatalf("expected 2 brushes, got %d", len(w.Brushes()))
	}
	if w.Brushes()[0].Contents != ContentsSolid || w.Brushes()[0].Surface != SurfaceSlick {
		t.Fatalf("unexpected first brush %+v", w.Brushes()[0])
	}

	if _, err := ParseMap([]byte("brushes:\n  - min: [0, 0, 0]\n    max: [1, 1, 1]\n    contents: [mud]\n")); err == nil {
		t.Fatalf("expected unknown contents to be rejected")
	}
}
