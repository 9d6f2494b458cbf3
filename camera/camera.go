// Package camera implements a free flying camera driven by keyboard and
// mouse input. Movement uses WASD for forward, back and strafing, Q and E
// move down and up. Dragging with the mouse looks around, scrolling
// changes the movement speed.
package camera

import (
	"math"

	"github.com/oliverbestmann/town/glimpse"
	"github.com/oliverbestmann/town/glm"
)

const (
	MinSpeed     = 1
	MaxSpeed     = 200
	DefaultSpeed = 40

	// radians per pixel of mouse movement
	DefaultSensitivity = 0.005

	// factor applied to the speed per scroll step
	scrollFactor = 1.1
)

// MaxPitch keeps the view direction away from the up axis.
var MaxPitch = glm.DegToRad[float32](89)

var worldUp = glm.Vec3f{0, 1, 0}

// Camera state. A Camera must only be used from the goroutine that
// handles input and renders.
type Camera struct {
	Position glm.Vec3f

	// rotation around the y axis. A yaw of zero looks along -z.
	Yaw glm.Rad

	// rotation above the horizon, positive looks up
	Pitch glm.Rad

	Speed       float32
	Sensitivity float32

	pressed map[glimpse.Key]bool

	dragging bool
	lastX    float32
	lastY    float32
}

// New creates a camera at position looking towards target.
func New(position, target glm.Vec3f) *Camera {
	c := &Camera{
		Position:    position,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		pressed:     map[glimpse.Key]bool{},
	}

	c.LookAt(target)

	return c
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target glm.Vec3f) {
	dir := target.Sub(c.Position)
	if dir.Length() == 0 {
		return
	}

	dir = dir.Normalize()

	c.setYaw(glm.Rad(math.Atan2(float64(dir[0]), float64(-dir[2]))))
	c.setPitch(glm.Rad(math.Asin(float64(dir[1]))))
}

func (c *Camera) HandleKeyDown(key glimpse.Key) {
	if c.pressed == nil {
		c.pressed = map[glimpse.Key]bool{}
	}

	c.pressed[key] = true
}

func (c *Camera) HandleKeyUp(key glimpse.Key) {
	delete(c.pressed, key)
}

func (c *Camera) HandleMouseDown(x, y float32) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

// HandleMouseDrag rotates the camera by the movement since the last
// mouse event. It has no effect unless a drag was started.
func (c *Camera) HandleMouseDrag(x, y float32) {
	if !c.dragging {
		return
	}

	dx := x - c.lastX
	dy := y - c.lastY
	c.lastX, c.lastY = x, y

	c.setYaw(c.Yaw + glm.Rad(dx*c.Sensitivity))
	c.setPitch(c.Pitch - glm.Rad(dy*c.Sensitivity))
}

func (c *Camera) HandleMouseUp() {
	c.dragging = false
}

// HandleScroll scales the movement speed, scrolling up moves faster.
func (c *Camera) HandleScroll(deltaY float32) {
	speed := float64(c.Speed) * math.Pow(scrollFactor, float64(deltaY))
	c.Speed = clamp(float32(speed), MinSpeed, MaxSpeed)
}

// Update moves the camera along the pressed movement keys.
func (c *Camera) Update(dt float32) {
	forward := c.Forward()
	right := forward.Cross(worldUp).Normalize()

	var dir glm.Vec3f

	if c.pressed[glimpse.KeyW] {
		dir = dir.Add(forward)
	}

	if c.pressed[glimpse.KeyS] {
		dir = dir.Sub(forward)
	}

	if c.pressed[glimpse.KeyD] {
		dir = dir.Add(right)
	}

	if c.pressed[glimpse.KeyA] {
		dir = dir.Sub(right)
	}

	if c.pressed[glimpse.KeyE] {
		dir = dir.Add(worldUp)
	}

	if c.pressed[glimpse.KeyQ] {
		dir = dir.Sub(worldUp)
	}

	// opposite keys cancel each other out
	if dir.Length() < 1e-6 {
		return
	}

	c.Position = c.Position.Add(dir.Normalize().MulScalar(c.Speed * dt))
}

// Forward returns the unit length view direction.
func (c *Camera) Forward() glm.Vec3f {
	sinYaw, cosYaw := glm.Sincos(c.Yaw)
	sinPitch, cosPitch := glm.Sincos(c.Pitch)

	return glm.Vec3f{
		cosPitch * sinYaw,
		sinPitch,
		-cosPitch * cosYaw,
	}
}

func (c *Camera) ViewMatrix() glm.Mat4f {
	return glm.LookAt(c.Position, c.Position.Add(c.Forward()), worldUp)
}

func (c *Camera) setYaw(yaw glm.Rad) {
	c.Yaw = glm.Rad(math.Mod(float64(yaw), 2*math.Pi))

	if c.Yaw < 0 {
		c.Yaw += 2 * math.Pi
	}

	// rounding may produce exactly 2*pi
	if c.Yaw >= 2*math.Pi {
		c.Yaw = 0
	}
}

func (c *Camera) setPitch(pitch glm.Rad) {
	c.Pitch = clamp(pitch, -MaxPitch, MaxPitch)
}

func clamp[T ~float32](value, lo, hi T) T {
	return max(lo, min(value, hi))
}
