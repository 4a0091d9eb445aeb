package mesh

import (
	"fmt"
	"strconv"
	"strings"
)

// FaceIDStride separates the mesh index from the triangle index inside
// a FaceID. It must exceed the maximum triangle count of any sub-mesh.
const FaceIDStride = 100_000_000

// FaceID identifies one triangle within the full model. It encodes the
// owning sub-mesh and the triangle index in a single integer so painted
// sets can use plain map keys.
type FaceID int64

// EncodeFaceID packs a mesh index and triangle index into a FaceID.
func EncodeFaceID(meshIndex, triangleIndex int) FaceID {
	return FaceID(int64(meshIndex)*FaceIDStride + int64(triangleIndex))
}

// Split returns the mesh index and triangle index of the FaceID.
func (id FaceID) Split() (meshIndex, triangleIndex int) {
	return int(int64(id) / FaceIDStride), int(int64(id) % FaceIDStride)
}

// MeshIndex returns the owning sub-mesh index.
func (id FaceID) MeshIndex() int {
	return int(int64(id) / FaceIDStride)
}

// TriangleIndex returns the triangle index within the owning sub-mesh.
func (id FaceID) TriangleIndex() int {
	return int(int64(id) % FaceIDStride)
}

// LegacyString renders the FaceID in the document format's
// "meshIndex_triangleIndex" form.
func (id FaceID) LegacyString() string {
	m, t := id.Split()
	return strconv.Itoa(m) + "_" + strconv.Itoa(t)
}

// ParseLegacyFaceID parses the document format's
// "meshIndex_triangleIndex" form.
func ParseLegacyFaceID(s string) (FaceID, error) {
	mStr, tStr, ok := strings.Cut(s, "_")
	if !ok {
		return 0, fmt.Errorf("face id %q: missing separator", s)
	}
	m, err := strconv.Atoi(mStr)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("face id %q: bad mesh index", s)
	}
	t, err := strconv.Atoi(tStr)
	if err != nil || t < 0 || t >= FaceIDStride {
		return 0, fmt.Errorf("face id %q: bad triangle index", s)
	}
	return EncodeFaceID(m, t), nil
}
