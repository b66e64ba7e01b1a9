package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrustumParams holds the scalars of the radar-style sphere test. For
// each axis, tan is the slope of the side planes and factor scales a
// sphere radius to its extent perpendicular to those planes.
type FrustumParams struct {
	FactorY, TanY float32
	FactorX, TanX float32
	Near, Far     float32
}

// NewFrustumParams derives the culling scalars from a vertical field of
// view in radians and an aspect ratio.
func NewFrustumParams(fovY, aspect, near, far float32) FrustumParams {
	halfY := float64(fovY) / 2
	tanY := math.Tan(halfY)
	halfX := math.Atan(tanY * float64(aspect))
	return FrustumParams{
		FactorY: float32(1 / math.Cos(halfY)),
		TanY:    float32(tanY),
		FactorX: float32(1 / math.Cos(halfX)),
		TanX:    float32(math.Tan(halfX)),
		Near:    near,
		Far:     far,
	}
}

// IsVisible tests a bounding sphere against the frustum spanned by the
// camera basis. forward, up and right must be unit length.
func IsVisible(center mgl32.Vec3, radius float32, pos, forward, up, right mgl32.Vec3, p FrustumParams) bool {
	v := center.Sub(pos)

	sz := v.Dot(forward)
	if sz < p.Near-radius || sz > p.Far+radius {
		return false
	}

	sy := v.Dot(up)
	if dist := p.FactorY*radius + sz*p.TanY; sy > dist || sy < -dist {
		return false
	}

	sx := v.Dot(right)
	if dist := p.FactorX*radius + sz*p.TanX; sx > dist || sx < -dist {
		return false
	}
	return true
}
