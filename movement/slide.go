package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// Body is the swept box and collision filter of a moving player.
type Body struct {
	Mins, Maxs mgl32.Vec3
	Mask       world.Contents
	// WorldOnly restricts collision to static world geometry.
	WorldOnly bool
}

func (b Body) trace(q world.Query, start, end mgl32.Vec3) world.TraceResult {
	if b.WorldOnly {
		return q.Clip(start, b.Mins, b.Maxs, end, b.Mask)
	}
	return q.Trace(start, b.Mins, b.Maxs, end, b.Mask)
}

// Motion is the origin and velocity a slide integrates.
type Motion struct {
	Origin   mgl32.Vec3
	Velocity mgl32.Vec3
}

// resolver moves a body through the world, clipping its velocity against everything it hits.
type resolver struct {
	query world.Query
	body  Body

	// gravity is applied during the slide when non-zero.
	gravity float32
	// ground seeds the clip planes when hasGround is set.
	ground    mgl32.Vec3
	hasGround bool
	// keepVelocity restores the original velocity after the slide.
	keepVelocity bool

	touch func(entity int32)
	warn  func(format string, args ...any)
}

// slideMove moves m for frametime seconds, sliding along at most game.MaxClipPlanes planes.
func (r *resolver) slideMove(m *Motion, frametime float32) SlideOutcome {
	var (
		planes    [game.MaxClipPlanes]mgl32.Vec3
		numPlanes int
		outcome   SlideOutcome
		endVel    mgl32.Vec3
	)
	primal := m.Velocity

	if r.gravity != 0 {
		endVel = m.Velocity
		endVel[2] -= r.gravity * frametime
		// Integrate with the average of the start and end vertical velocity.
		m.Velocity[2] = (m.Velocity[2] + endVel[2]) * 0.5
		primal[2] = endVel[2]
		if r.hasGround {
			m.Velocity = game.ClipVelocity(m.Velocity, r.ground, game.OverClip)
		}
	}

	if r.hasGround {
		planes[numPlanes] = r.ground
		numPlanes++
	}
	// Never turn against the original velocity.
	planes[numPlanes], _ = game.Normalize(m.Velocity)
	numPlanes++

	timeLeft := frametime
	bump := 0
	for ; bump < game.NumBumps; bump++ {
		end := m.Origin.Add(m.Velocity.Mul(timeLeft))
		tr := r.body.trace(r.query, m.Origin, end)

		if tr.AllSolid {
			// Stuck inside something: don't build up falling damage, but let the player slide sideways.
			m.Velocity[2] = 0
			return outcome | SlideTrapped | SlideBlocked
		}
		if tr.Fraction > 0 {
			m.Origin = tr.EndPos
		}
		if tr.Fraction == 1 {
			break
		}

		outcome |= SlideTouched
		if r.touch != nil {
			r.touch(tr.Entity)
		}
		timeLeft -= timeLeft * tr.Fraction

		if numPlanes >= game.MaxClipPlanes {
			if r.warn != nil {
				r.warn("slide ran out of clip planes at %v", m.Origin)
			}
			m.Velocity = mgl32.Vec3{}
			return outcome | SlideTrapped | SlideBlocked
		}

		normal := tr.Plane.Normal
		if normal[2] < game.MinWalkNormal && normal[2] > -game.MinWalkNormal {
			outcome |= SlideWallBlocked
		}

		// Hitting the same plane again nudges the velocity out along it to avoid epsilon issues.
		same := false
		for i := 0; i < numPlanes; i++ {
			if normal.Dot(planes[i]) > game.SamePlaneDot {
				m.Velocity = m.Velocity.Add(normal)
				same = true
				break
			}
		}
		if same {
			continue
		}
		planes[numPlanes] = normal
		numPlanes++

		// Modify the velocity so it parallels all of the clip planes.
		for i := 0; i < numPlanes; i++ {
			into := m.Velocity.Dot(planes[i])
			if into >= game.ClipEpsilon {
				continue
			}
			outcome |= SlideBlocked

			clipVel := game.ClipVelocity(m.Velocity, planes[i], game.OverClip)
			endClipVel := game.ClipVelocity(endVel, planes[i], game.OverClip)

			for j := 0; j < numPlanes; j++ {
				if j == i || clipVel.Dot(planes[j]) >= game.ClipEpsilon {
					continue
				}
				clipVel = game.ClipVelocity(clipVel, planes[j], game.OverClip)
				endClipVel = game.ClipVelocity(endClipVel, planes[j], game.OverClip)
				if clipVel.Dot(planes[i]) >= 0 {
					continue
				}

				// Slide along the crease of the two planes.
				dir, _ := game.Normalize(planes[i].Cross(planes[j]))
				clipVel = dir.Mul(dir.Dot(m.Velocity))
				endClipVel = dir.Mul(dir.Dot(endVel))

				for k := 0; k < numPlanes; k++ {
					if k == i || k == j || clipVel.Dot(planes[k]) >= game.ClipEpsilon {
						continue
					}
					// A third plane disagrees: stop dead.
					m.Velocity = mgl32.Vec3{}
					return outcome | SlideTrapped
				}
			}

			m.Velocity = clipVel
			endVel = endClipVel
			break
		}
	}

	if bump == 0 {
		outcome |= SlideMovedFully
	}
	if r.gravity != 0 {
		m.Velocity = endVel
	}
	if r.keepVelocity {
		m.Velocity = primal
	}
	return outcome
}

// stepSlideMove slides m and additionally tries the same move one step higher, keeping whichever got
// further. It returns the outcome and how far the player was lifted.
func (r *resolver) stepSlideMove(m *Motion, frametime float32) (SlideOutcome, float32) {
	start := *m
	outcome := r.slideMove(m, frametime)
	if outcome.Has(SlideMovedFully) {
		return outcome, 0
	}
	down := *m

	// Never step up while still moving up, unless there is ground right below.
	below := r.body.trace(r.query, start.Origin, start.Origin.Sub(mgl32.Vec3{0, 0, game.StepSize}))
	if start.Velocity[2] > 0 && (below.Fraction == 1 || below.Plane.Normal.Dot(game.Up) < game.MinWalkNormal) {
		return outcome, 0
	}

	tr := r.body.trace(r.query, start.Origin, start.Origin.Add(mgl32.Vec3{0, 0, game.StepSize}))
	if tr.AllSolid {
		return outcome, 0
	}
	stepSize := tr.EndPos[2] - start.Origin[2]

	up := Motion{Origin: tr.EndPos, Velocity: start.Velocity}
	upOutcome := r.slideMove(&up, frametime)

	// Push back down the amount that was stepped up.
	tr = r.body.trace(r.query, up.Origin, up.Origin.Sub(mgl32.Vec3{0, 0, stepSize}))
	if !tr.AllSolid {
		up.Origin = tr.EndPos
	}

	downDist := game.Vec3HzDistSqr(down.Origin.Sub(start.Origin))
	upDist := game.Vec3HzDistSqr(up.Origin.Sub(start.Origin))
	if downDist > upDist || tr.Plane.Normal[2] < game.MinWalkNormal {
		*m = down
		return outcome, 0
	}

	if tr.Fraction < 1 {
		up.Velocity = game.ClipVelocity(up.Velocity, tr.Plane.Normal, game.OverClip)
	}
	// Walking along a plane: keep the vertical velocity of the unstepped move.
	up.Velocity[2] = down.Velocity[2]
	*m = up
	return upOutcome | SlideStepped, math32.Max(up.Origin[2]-start.Origin[2], 0)
}

// DryRun resolves a slide of body from m without touching any player state. Gravity is applied when
// gravity is set and the result is stepped like a regular ground move when step is set.
func (s *Simulator) DryRun(body Body, m Motion, frametime float32, gravity, step bool) (Motion, SlideOutcome) {
	r := resolver{query: s.World, body: body}
	if gravity {
		r.gravity = s.Params.Gravity
	}
	if step {
		outcome, _ := r.stepSlideMove(&m, frametime)
		return m, outcome
	}
	return m, r.slideMove(&m, frametime)
}

// resolver returns a resolver for the player's current body and ground.
func (ctx *moveContext) resolver(gravity bool) *resolver {
	r := &resolver{
		query:        ctx.sim.World,
		body:         ctx.body(),
		ground:       ctx.ground.Plane.Normal,
		hasGround:    ctx.ground.HasPlane,
		keepVelocity: ctx.state.Timer.Is(TimerWaterJump) || ctx.state.Timer.Is(TimerKnockback),
		touch:        ctx.touch,
		warn:         ctx.sim.anomaly,
	}
	if gravity {
		r.gravity = ctx.sim.Params.Gravity
	}
	return r
}

func (ctx *moveContext) slideMove(gravity bool) {
	m := ctx.motion()
	ctx.slide |= ctx.resolver(gravity).slideMove(&m, ctx.frametime)
	ctx.setMotion(m)
}

func (ctx *moveContext) stepSlideMove(gravity bool) {
	m := ctx.motion()
	outcome, stepped := ctx.resolver(gravity).stepSlideMove(&m, ctx.frametime)
	ctx.setMotion(m)
	ctx.slide |= outcome
	if stepped > ctx.stepHeight {
		ctx.stepHeight = stepped
	}
	if outcome.Has(SlideStepped) && stepped > game.StepEventMin {
		ctx.stepEvent(stepped)
	}
}
