package camera

import (
	"math"
	"testing"

	"github.com/oliverbestmann/town/glimpse"
	"github.com/oliverbestmann/town/glm"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func approxVec(a, b glm.Vec3f) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

// looking along -z from the origin
func newTestCamera() *Camera {
	return New(glm.Vec3f{0, 0, 0}, glm.Vec3f{0, 0, -1})
}

func TestNewLooksAtTarget(t *testing.T) {
	c := New(glm.Vec3f{0, 0, 10}, glm.Vec3f{0, 0, 0})

	if !approx(float32(c.Yaw), 0) || !approx(float32(c.Pitch), 0) {
		t.Errorf("yaw=%g pitch=%g, expected zero", c.Yaw, c.Pitch)
	}

	if !approxVec(c.Forward(), glm.Vec3f{0, 0, -1}) {
		t.Errorf("forward = %v", c.Forward())
	}

	c = New(glm.Vec3f{0, 0, 0}, glm.Vec3f{1, 0, 0})
	if !approx(float32(c.Yaw), math.Pi/2) {
		t.Errorf("yaw = %g, expected pi/2", c.Yaw)
	}

	c = New(glm.Vec3f{0, 0, 0}, glm.Vec3f{0, 1, -1})
	if !approx(float32(c.Pitch), math.Pi/4) {
		t.Errorf("pitch = %g, expected pi/4", c.Pitch)
	}

	if c.Speed != DefaultSpeed || c.Sensitivity != DefaultSensitivity {
		t.Errorf("unexpected defaults speed=%g sensitivity=%g", c.Speed, c.Sensitivity)
	}
}

func TestMoveForward(t *testing.T) {
	c := newTestCamera()

	c.HandleKeyDown(glimpse.KeyW)
	c.Update(0.5)

	if !approxVec(c.Position, glm.Vec3f{0, 0, -20}) {
		t.Errorf("position = %v", c.Position)
	}

	c.HandleKeyUp(glimpse.KeyW)
	c.Update(0.5)

	if !approxVec(c.Position, glm.Vec3f{0, 0, -20}) {
		t.Errorf("released key moved the camera to %v", c.Position)
	}
}

func TestStrafeAndVertical(t *testing.T) {
	tests := []struct {
		key      glimpse.Key
		expected glm.Vec3f
	}{
		{glimpse.KeyS, glm.Vec3f{0, 0, 40}},
		{glimpse.KeyD, glm.Vec3f{40, 0, 0}},
		{glimpse.KeyA, glm.Vec3f{-40, 0, 0}},
		{glimpse.KeyE, glm.Vec3f{0, 40, 0}},
		{glimpse.KeyQ, glm.Vec3f{0, -40, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.key.String(), func(t *testing.T) {
			c := newTestCamera()

			c.HandleKeyDown(tc.key)
			c.Update(1)

			if !approxVec(c.Position, tc.expected) {
				t.Errorf("position = %v, expected %v", c.Position, tc.expected)
			}
		})
	}
}

func TestVerticalIgnoresPitch(t *testing.T) {
	c := New(glm.Vec3f{0, 0, 0}, glm.Vec3f{0, -1, -1})

	c.HandleKeyDown(glimpse.KeyE)
	c.Update(1)

	if !approxVec(c.Position, glm.Vec3f{0, 40, 0}) {
		t.Errorf("position = %v", c.Position)
	}
}

func TestDiagonalMovementIsNormalized(t *testing.T) {
	c := newTestCamera()

	c.HandleKeyDown(glimpse.KeyW)
	c.HandleKeyDown(glimpse.KeyD)
	c.Update(1)

	if !approx(c.Position.Length(), 40) {
		t.Errorf("moved %g, expected 40", c.Position.Length())
	}
}

func TestOppositeKeysCancel(t *testing.T) {
	c := newTestCamera()

	c.HandleKeyDown(glimpse.KeyW)
	c.HandleKeyDown(glimpse.KeyS)
	c.HandleKeyDown(glimpse.KeyQ)
	c.HandleKeyDown(glimpse.KeyE)
	c.Update(1)

	if c.Position != (glm.Vec3f{}) {
		t.Errorf("position = %v, expected origin", c.Position)
	}
}

func TestDragRotates(t *testing.T) {
	c := newTestCamera()

	c.HandleMouseDown(100, 100)
	c.HandleMouseDrag(200, 100)

	if !approx(float32(c.Yaw), 100*DefaultSensitivity) {
		t.Errorf("yaw = %g", c.Yaw)
	}

	// moving the mouse up looks up
	c.HandleMouseDrag(200, 50)

	if !approx(float32(c.Pitch), 50*DefaultSensitivity) {
		t.Errorf("pitch = %g", c.Pitch)
	}

	c.HandleMouseUp()
	c.HandleMouseDrag(800, 800)

	if !approx(float32(c.Yaw), 100*DefaultSensitivity) || !approx(float32(c.Pitch), 50*DefaultSensitivity) {
		t.Errorf("drag after mouse up changed orientation: yaw=%g pitch=%g", c.Yaw, c.Pitch)
	}
}

func TestDragWithoutMouseDown(t *testing.T) {
	c := newTestCamera()

	c.HandleMouseDrag(500, 500)

	if c.Yaw != 0 || c.Pitch != 0 {
		t.Errorf("yaw=%g pitch=%g, expected no rotation", c.Yaw, c.Pitch)
	}
}

func TestYawWraps(t *testing.T) {
	c := newTestCamera()

	c.HandleMouseDown(0, 0)

	// 5 radians per drag
	c.HandleMouseDrag(1000, 0)
	c.HandleMouseDrag(2000, 0)

	if c.Yaw < 0 || c.Yaw >= 2*math.Pi {
		t.Fatalf("yaw %g out of range", c.Yaw)
	}

	if !approx(float32(c.Yaw), float32(10-2*math.Pi)) {
		t.Errorf("yaw = %g", c.Yaw)
	}

	c = newTestCamera()
	c.HandleMouseDown(0, 0)
	c.HandleMouseDrag(-100, 0)

	if !approx(float32(c.Yaw), float32(2*math.Pi-0.5)) {
		t.Errorf("yaw = %g", c.Yaw)
	}
}

func TestPitchIsClamped(t *testing.T) {
	c := newTestCamera()

	c.HandleMouseDown(0, 0)
	c.HandleMouseDrag(0, -10000)

	if c.Pitch != MaxPitch {
		t.Errorf("pitch = %g, expected %g", c.Pitch, MaxPitch)
	}

	c.HandleMouseDrag(0, 10000)

	if c.Pitch != -MaxPitch {
		t.Errorf("pitch = %g, expected %g", c.Pitch, -MaxPitch)
	}
}

func TestScrollChangesSpeed(t *testing.T) {
	c := newTestCamera()

	c.HandleScroll(1)
	if !approx(c.Speed, DefaultSpeed*1.1) {
		t.Errorf("speed = %g", c.Speed)
	}

	c.HandleScroll(100)
	if c.Speed != MaxSpeed {
		t.Errorf("speed = %g, expected %d", c.Speed, MaxSpeed)
	}

	c.HandleScroll(-500)
	if c.Speed != MinSpeed {
		t.Errorf("speed = %g, expected %d", c.Speed, MinSpeed)
	}
}

func TestViewMatrix(t *testing.T) {
	c := New(glm.Vec3f{10, 20, 30}, glm.Vec3f{0, 0, 0})

	view := c.ViewMatrix()

	eye := view.Transform(c.Position.Extend(1))
	if !approxVec(eye.Truncate(), glm.Vec3f{}) {
		t.Errorf("camera position maps to %v, expected origin", eye)
	}

	ahead := view.Transform(c.Position.Add(c.Forward()).Extend(1))
	if !approxVec(ahead.Truncate(), glm.Vec3f{0, 0, -1}) {
		t.Errorf("forward maps to %v, expected -z", ahead)
	}
}

func TestZeroValueCamera(t *testing.T) {
	var c Camera

	c.HandleKeyDown(glimpse.KeyW)
	c.Speed = 1
	c.Update(1)

	if !approxVec(c.Position, glm.Vec3f{0, 0, -1}) {
		t.Errorf("position = %v", c.Position)
	}
}
