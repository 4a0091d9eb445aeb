package mesh

import (
	"testing"

	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

func TestFaceIDRoundTrip(t *testing.T) {
	cases := []struct{ mesh, tri int }{
		{0, 0},
		{0, 1},
		{1, 0},
		{3, 12345},
		{7, FaceIDStride - 1},
	}
	for _, tc := range cases {
		id := EncodeFaceID(tc.mesh, tc.tri)
		m, tri := id.Split()
		if m != tc.mesh || tri != tc.tri {
			t.Errorf("Split(Encode(%d, %d)) = (%d, %d)", tc.mesh, tc.tri, m, tri)
		}
	}
}

func TestFaceIDDistinctMeshesNeverCollide(t *testing.T) {
	seen := map[FaceID]bool{}
	for m := 0; m < 4; m++ {
		for tri := 0; tri < 100; tri++ {
			id := EncodeFaceID(m, tri)
			if seen[id] {
				t.Fatalf("duplicate FaceID for mesh %d triangle %d", m, tri)
			}
			seen[id] = true
		}
	}
}

func TestFaceIDLegacyString(t *testing.T) {
	id := EncodeFaceID(2, 917)
	if got := id.LegacyString(); got != "2_917" {
		t.Errorf("LegacyString() = %q, want %q", got, "2_917")
	}
	parsed, err := ParseLegacyFaceID("2_917")
	if err != nil {
		t.Fatalf("ParseLegacyFaceID() error: %v", err)
	}
	if parsed != id {
		t.Errorf("ParseLegacyFaceID() = %v, want %v", parsed, id)
	}
}

func TestParseLegacyFaceIDRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "12", "a_b", "1_", "_2", "-1_3", "1_-3"} {
		if _, err := ParseLegacyFaceID(s); err == nil {
			t.Errorf("ParseLegacyFaceID(%q) accepted malformed input", s)
		}
	}
}

// unitSquare is one quad in the XY plane, two triangles.
func unitSquare() []float32 {
	return []float32{
		0, 0, 0, 1, 0, 0, 1, 1, 0,
		0, 0, 0, 1, 1, 0, 0, 1, 0,
	}
}

func TestMeshWorldLocalRoundTrip(t *testing.T) {
	tr := Transform{
		Position: math.Vec3{X: 10, Y: 0, Z: -5},
		Rotation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.7),
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}
	m := NewMesh("sq", unitSquare(), tr)

	p := math.Vec3{X: 0.3, Y: 0.4, Z: 0}
	back := m.WorldToLocal(m.LocalToWorld(p))
	if back.Distance(p) > 1e-4 {
		t.Errorf("WorldToLocal(LocalToWorld(p)) = %v, want %v", back, p)
	}
}

func TestMeshAverageScale(t *testing.T) {
	tr := IdentityTransform()
	tr.Scale = math.Vec3{X: 1, Y: 2, Z: 3}
	m := NewMesh("sq", unitSquare(), tr)
	got := m.AverageScale()
	if got < 1.999 || got > 2.001 {
		t.Errorf("AverageScale() = %v, want 2", got)
	}
}

func TestSceneBoundingSize(t *testing.T) {
	s := NewScene(nil)
	s.Add(NewMesh("a", unitSquare(), IdentityTransform()))

	tr := IdentityTransform()
	tr.Position = math.Vec3{X: 3, Y: 0, Z: 0}
	s.Add(NewMesh("b", unitSquare(), tr))

	// Combined bounds span (0,0,0) to (4,1,0).
	got := s.BoundingSize()
	want := math.Vec3{X: 4, Y: 1, Z: 0}.Length()
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("BoundingSize() = %v, want %v", got, want)
	}
}

func TestSceneBuildIndexesRespectsBudget(t *testing.T) {
	s := NewScene(nil)
	small := NewMesh("small", unitSquare(), IdentityTransform())
	big := NewMesh("big", append(unitSquare(), unitSquare()...), IdentityTransform())
	s.Add(small)
	s.Add(big)

	s.BuildIndexes(2)
	if small.Index() == nil {
		t.Error("small mesh under budget did not get an index")
	}
	if big.Index() != nil {
		t.Error("mesh over budget got an index")
	}
}
