package paint

import "github.com/NilsSchnorr/MeshNotes/pkg/math"

// floatsPerTriangle is the buffer stride: 3 vertices of 3 floats.
const floatsPerTriangle = 9

// initialBufferTriangles sizes a fresh buffer.
const initialBufferTriangles = 256

// HighlightBuffer is the triangle-soup position buffer backing the live
// paint preview. It grows by doubling and tracks the dirty float range
// so the renderer only re-uploads what changed since the last frame.
type HighlightBuffer struct {
	data []float32
	used int

	dirtyStart int
	dirtyEnd   int
}

// NewHighlightBuffer returns an empty buffer.
func NewHighlightBuffer() *HighlightBuffer {
	return &HighlightBuffer{
		data:       make([]float32, initialBufferTriangles*floatsPerTriangle),
		dirtyStart: -1,
	}
}

// VertexCount returns the number of valid leading vertices, the
// renderer's draw range.
func (b *HighlightBuffer) VertexCount() int {
	return b.used / 3
}

// TriangleCount returns the number of valid triangles.
func (b *HighlightBuffer) TriangleCount() int {
	return b.used / floatsPerTriangle
}

// Data returns the valid prefix of the position array.
func (b *HighlightBuffer) Data() []float32 {
	return b.data[:b.used]
}

// AppendTriangle pushes one world-space triangle onto the end of the
// buffer, growing capacity by doubling when needed.
func (b *HighlightBuffer) AppendTriangle(p0, p1, p2 math.Vec3) {
	if b.used+floatsPerTriangle > len(b.data) {
		grown := make([]float32, len(b.data)*2)
		copy(grown, b.data[:b.used])
		b.data = grown
	}
	o := b.used
	b.data[o+0], b.data[o+1], b.data[o+2] = p0.X, p0.Y, p0.Z
	b.data[o+3], b.data[o+4], b.data[o+5] = p1.X, p1.Y, p1.Z
	b.data[o+6], b.data[o+7], b.data[o+8] = p2.X, p2.Y, p2.Z
	b.used += floatsPerTriangle
	b.markDirty(o, b.used)
}

// Reset empties the buffer and marks everything previously valid dirty
// so the renderer shrinks its draw range.
func (b *HighlightBuffer) Reset() {
	if b.used > 0 {
		b.markDirty(0, b.used)
	}
	b.used = 0
}

// markDirty widens the dirty range to cover [start, end).
func (b *HighlightBuffer) markDirty(start, end int) {
	if b.dirtyStart < 0 {
		b.dirtyStart, b.dirtyEnd = start, end
		return
	}
	if start < b.dirtyStart {
		b.dirtyStart = start
	}
	if end > b.dirtyEnd {
		b.dirtyEnd = end
	}
}

// DirtyRange returns the float offset and count awaiting upload.
// ok is false when nothing changed since the last ClearDirty.
func (b *HighlightBuffer) DirtyRange() (offset, count int, ok bool) {
	if b.dirtyStart < 0 {
		return 0, 0, false
	}
	return b.dirtyStart, b.dirtyEnd - b.dirtyStart, true
}

// ClearDirty resets dirty tracking, typically after an upload.
func (b *HighlightBuffer) ClearDirty() {
	b.dirtyStart = -1
	b.dirtyEnd = 0
}
