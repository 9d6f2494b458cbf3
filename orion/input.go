package orion

import (
	"github.com/oliverbestmann/town/camera"
	"github.com/oliverbestmann/town/glimpse"
)

// cameraInput routes window events to the camera. Escape closes the window.
type cameraInput struct {
	camera *camera.Camera
	close  func()
}

func (c *cameraInput) KeyDown(key glimpse.Key) {
	if key == glimpse.KeyEscape {
		if c.close != nil {
			c.close()
		}

		return
	}

	c.camera.HandleKeyDown(key)
}

func (c *cameraInput) KeyUp(key glimpse.Key) {
	c.camera.HandleKeyUp(key)
}

func (c *cameraInput) MouseDown(button glimpse.MouseButton, x, y float32) {
	if button != glimpse.MouseButtonLeft {
		return
	}

	c.camera.HandleMouseDown(x, y)
}

func (c *cameraInput) MouseMove(x, y float32) {
	// the camera ignores moves without a drag in progress
	c.camera.HandleMouseDrag(x, y)
}

func (c *cameraInput) MouseUp(button glimpse.MouseButton) {
	if button != glimpse.MouseButtonLeft {
		return
	}

	c.camera.HandleMouseUp()
}

func (c *cameraInput) Scroll(_, dy float32) {
	c.camera.HandleScroll(dy)
}
