package engine

import "math"

// HashSchemaVersion identifies the fold below. Any change to the field list,
// byte order or constants must bump it: recorded baselines are only
// comparable under the schema they were captured with. Traces carry it as
// their schemaVersion.
const HashSchemaVersion = 1

// FNV-1a 64-bit parameters.
const (
	HashOffsetBasis uint64 = 0xcbf29ce484222325
	hashPrime       uint64 = 0x100000001b3
)

// FoldTick folds one processed tick into h. Fields are folded byte by byte,
// little endian, in this order: tick, raw x, raw y, raw dx, raw dy, raw
// buttons, output x, output y, output buttons. Floats contribute their IEEE
// 754 bit patterns.
func FoldTick(h uint64, tick uint64, raw InputSample, out TransformResult) uint64 {
	h = foldUint64(h, tick)
	h = foldUint64(h, math.Float64bits(raw.Position.X))
	h = foldUint64(h, math.Float64bits(raw.Position.Y))
	h = foldUint64(h, math.Float64bits(raw.Delta.X))
	h = foldUint64(h, math.Float64bits(raw.Delta.Y))
	h = foldByte(h, raw.Buttons())
	h = foldUint64(h, math.Float64bits(out.Position.X))
	h = foldUint64(h, math.Float64bits(out.Position.Y))
	h = foldByte(h, out.Buttons)
	return h
}

func foldUint64(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= v & 0xff
		h *= hashPrime
		v >>= 8
	}
	return h
}

func foldByte(h uint64, b uint8) uint64 {
	h ^= uint64(b)
	h *= hashPrime
	return h
}
