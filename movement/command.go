package movement

import "github.com/oomph-ac/pmove/game"

// Buttons is the button bitmask of a Command.
type Buttons uint16

const (
	ButtonJump Buttons = 1 << iota
	ButtonCrouch
	ButtonWalk
	ButtonAttack
)

// walkMove is the largest move magnitude while the walk button is held.
const walkMove = int8(64)

// Command is one frame of player input.
type Command struct {
	// Sequence numbers commands in the order they were produced.
	Sequence uint32 `json:"seq"`
	// Msec is the duration the command covers.
	Msec    uint8   `json:"msec"`
	Forward int8    `json:"fwd"`
	Right   int8    `json:"right"`
	Up      int8    `json:"up"`
	Buttons Buttons `json:"buttons"`
	// Angles are the absolute view angles of the command in 16-bit short units.
	Angles [3]int32 `json:"angles"`
}

// Has reports whether any of the given buttons is held.
func (c Command) Has(b Buttons) bool {
	return c.Buttons&b != 0
}

// normalize clamps the command into the ranges the simulator accepts.
func (c Command) normalize(limit int8) Command {
	if limit <= 0 {
		limit = 127
	}
	if c.Has(ButtonWalk) && limit > walkMove {
		limit = walkMove
	}
	c.Forward = game.ClampInt8(c.Forward, limit)
	c.Right = game.ClampInt8(c.Right, limit)
	c.Up = game.ClampInt8(c.Up, limit)
	if c.Up == 0 {
		switch {
		case c.Has(ButtonJump):
			c.Up = limit
		case c.Has(ButtonCrouch):
			c.Up = -limit
		}
	}
	if c.Msec < game.MinMsec {
		c.Msec = game.MinMsec
	} else if c.Msec > game.MaxMsec {
		c.Msec = game.MaxMsec
	}
	return c
}

// strip removes all movement input from the command.
func (c Command) strip() Command {
	c.Forward, c.Right, c.Up = 0, 0, 0
	c.Buttons = 0
	return c
}
