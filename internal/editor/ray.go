package editor

import (
	"math"

	"designer-dashboard-backend/internal/model"
)

// Ray is a pointer ray cast from the camera into the scene.
type Ray struct {
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
}

const parallelEpsilon = 1e-9

// IntersectGround returns where r crosses the ground plane y=0. It reports
// false for rays parallel to the plane or pointing away from it, and for
// hits too far away to be represented.
func IntersectGround(r Ray) (model.Position, bool) {
	dy := r.Direction[1]
	if math.Abs(dy) < parallelEpsilon {
		return model.Position{}, false
	}
	t := -r.Origin[1] / dy
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return model.Position{}, false
	}
	x := r.Origin[0] + t*r.Direction[0]
	z := r.Origin[2] + t*r.Direction[2]
	if !finite(x) || !finite(z) {
		return model.Position{}, false
	}
	return model.Position{x, 0, z}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
