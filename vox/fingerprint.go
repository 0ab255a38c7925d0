package vox

import (
	"encoding/binary"

	xxhash "github.com/cespare/xxhash/v2"
)

// Fingerprint digests the set of (coordinate, colour) pairs of m. Two models
// holding the same coloured voxels hash equal regardless of palette layout or
// insertion order.
func (m *Model) Fingerprint() uint64 {
	d := xxhash.New()
	var b [16]byte
	for _, v := range m.Voxels() {
		c := m.Palette.At(v.Index)
		binary.LittleEndian.PutUint32(b[0:], uint32(int32(v.X)))
		binary.LittleEndian.PutUint32(b[4:], uint32(int32(v.Y)))
		binary.LittleEndian.PutUint32(b[8:], uint32(int32(v.Z)))
		b[12], b[13], b[14], b[15] = c.R, c.G, c.B, c.A
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}
