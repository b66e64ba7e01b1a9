package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89.0

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a free-fly camera. Yaw and Pitch are in degrees; yaw 0 looks
// down +X and yaw -90 looks down -Z.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera for a viewport of the given size.
func New(width, height int) *Camera {
	c := &Camera{
		Yaw:  -90,
		FOV:  70,
		Near: 0.1,
		Far:  2000,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	if height <= 0 {
		height = 1
	}
	c.Aspect = float32(width) / float32(height)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	y := float64(mgl32.DegToRad(c.Yaw))
	p := float64(mgl32.DegToRad(c.Pitch))
	fx := float32(math.Cos(y) * math.Cos(p))
	fy := float32(math.Sin(p))
	fz := float32(math.Sin(y) * math.Cos(p))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(worldUp).Normalize()
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

// Rotate applies a yaw/pitch delta in degrees. Pitch is clamped short of
// straight up or down so the basis stays defined.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Move translates the camera along its own axes.
func (c *Camera) Move(forward, right, up float32) {
	c.Position = c.Position.
		Add(c.Forward().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(worldUp.Mul(up))
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Pitch = mgl32.Clamp(mgl32.RadToDeg(float32(math.Asin(float64(d.Y())))), -maxPitch, maxPitch)
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(d.Z()), float64(d.X()))))
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), worldUp)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Frustum returns the culling parameters for the current lens.
func (c *Camera) Frustum() FrustumParams {
	return NewFrustumParams(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Sees reports whether a bounding sphere intersects the view frustum.
func (c *Camera) Sees(center mgl32.Vec3, radius float32, params FrustumParams) bool {
	return IsVisible(center, radius, c.Position, c.Forward(), c.Up(), c.Right(), params)
}
