package movement

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// Digest returns a hash of every field of the state. Two states have the same digest exactly when they
// are bit-for-bit identical, which is what deterministic replays are checked against.
func (s *State) Digest() uint64 {
	buf := make([]byte, 0, 160)
	buf = binary.LittleEndian.AppendUint32(buf, s.Sequence)
	buf = appendVec(buf, s.Origin)
	buf = appendVec(buf, s.Velocity)
	buf = append(buf, byte(s.Type))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(s.Flags))
	buf = append(buf, byte(s.Timer.Kind))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Timer.RemainingMs))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.TrickJumpMs))
	buf = appendVec(buf, s.ViewAngles)
	for _, d := range s.DeltaAngles {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(d))
	}
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.ViewHeight))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.XYSpeed))
	buf = append(buf, s.BobCycle)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.GroundEntity))
	buf = append(buf, byte(s.Liquid.Level))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Liquid.Type))
	buf = appendVec(buf, s.GrapplePoint)
	buf = append(buf, byte(s.LastMode))
	buf = binary.LittleEndian.AppendUint32(buf, s.Events.Sequence)
	for _, e := range s.Events.Entries {
		buf = append(buf, byte(e.Type))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.Param))
	}
	return xxh3.Hash(buf)
}

func appendVec(buf []byte, v mgl32.Vec3) []byte {
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
