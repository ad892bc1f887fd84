package world

import (
	"math"

	"github.com/udisondev/zsurvive/internal/model"
)

// Box is an axis-aligned obstacle that blocks sight, shots and wandering.
type Box struct {
	Min model.Vec3
	Max model.Vec3
}

// Contains reports whether p lies inside the box (inclusive).
func (b Box) Contains(p model.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsXZ reports whether p lies inside the box footprint.
func (b Box) ContainsXZ(p model.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// intersectRay returns the entry parameter t of origin + t*dir into the box
// using the slab method. t is in units of dir, so callers pass either a
// unit direction (t = distance) or a segment delta (t in [0, 1]).
func (b Box) intersectRay(origin, dir model.Vec3) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)

	slab := func(o, d, lo, hi float64) bool {
		if math.Abs(d) < 1e-12 {
			return o >= lo && o <= hi
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		return tmin <= tmax
	}

	if !slab(origin.X, dir.X, b.Min.X, b.Max.X) ||
		!slab(origin.Y, dir.Y, b.Min.Y, b.Max.Y) ||
		!slab(origin.Z, dir.Z, b.Min.Z, b.Max.Z) {
		return 0, false
	}
	if tmax < 0 {
		return 0, false
	}
	return max(tmin, 0), true
}

// raySphere returns the nearest non-negative t where origin + t*dir (dir
// normalized) enters the sphere.
func raySphere(origin, dir, center model.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.LenSquared() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq // origin inside the sphere
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// rayCylinder intersects origin + t*dir (dir normalized) with a vertical
// cylinder standing on base with the given radius and height.
func rayCylinder(origin, dir, base model.Vec3, radius, height float64) (float64, bool) {
	ox, oz := origin.X-base.X, origin.Z-base.Z
	a := dir.X*dir.X + dir.Z*dir.Z
	if a < 1e-12 {
		// vertical ray: hits the cap if it starts within the footprint
		if ox*ox+oz*oz > radius*radius {
			return 0, false
		}
		top := base.Y + height
		switch {
		case dir.Y < 0 && origin.Y >= top:
			return origin.Y - top, true
		case dir.Y > 0 && origin.Y <= base.Y:
			return base.Y - origin.Y, true
		}
		return 0, false
	}

	b := ox*dir.X + oz*dir.Z
	c := ox*ox + oz*oz - radius*radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	for _, t := range [2]float64{(-b - sq) / a, (-b + sq) / a} {
		if t < 0 {
			continue
		}
		y := origin.Y + t*dir.Y
		if y >= base.Y && y <= base.Y+height {
			return t, true
		}
	}
	return 0, false
}
