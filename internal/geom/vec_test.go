package geom

import (
	"math"
	"testing"
)

func TestVec3_Dist(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 6, Z: 3}
	if d := a.Dist(b); math.Abs(d-5) > 1e-9 {
		t.Fatalf("expected distance 5, got %.6f", d)
	}
}

func TestVec3_Normalize_Zero(t *testing.T) {
	z := Vec3{}.Normalize()
	if z != (Vec3{}) {
		t.Fatalf("normalizing zero vector should return zero, got %+v", z)
	}
}

func TestVec3_GroundProject_DropsY(t *testing.T) {
	v := Vec3{X: 3, Y: 10, Z: 4}.GroundProject()
	if math.Abs(v.Len()-1) > 1e-9 {
		t.Fatalf("projected facing should be unit length, got %.6f", v.Len())
	}
	if v.Y != 0 {
		t.Fatalf("projected facing should have Y=0, got %.6f", v.Y)
	}
}

func TestVec3_GroundProject_VerticalFallsBackNorth(t *testing.T) {
	v := Vec3{Y: 1}.GroundProject()
	if v != (Vec3{Z: 1}) {
		t.Fatalf("vertical facing should fall back to +Z, got %+v", v)
	}
}

func TestRightOf_North(t *testing.T) {
	// Facing north (+Z), right is east (+X) under the clockwise-from-above rule.
	r := RightOf(Vec3{Z: 1})
	if math.Abs(r.X-1) > 1e-9 || math.Abs(r.Z) > 1e-9 {
		t.Fatalf("right of north should be +X, got %+v", r)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Vec3{{X: 0, Z: 0}, {X: 2, Z: 0}, {X: 1, Z: 3}}
	c, ok := Centroid(pts)
	if !ok {
		t.Fatal("centroid of non-empty slice should be ok")
	}
	if math.Abs(c.X-1) > 1e-9 || math.Abs(c.Z-1) > 1e-9 {
		t.Fatalf("expected centroid (1,0,1), got %+v", c)
	}

	if _, ok := Centroid(nil); ok {
		t.Fatal("centroid of empty slice should not be ok")
	}
}
