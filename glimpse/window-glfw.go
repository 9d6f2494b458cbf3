package glimpse

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
)

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyW:          KeyW,
	glfw.KeyA:          KeyA,
	glfw.KeyS:          KeyS,
	glfw.KeyD:          KeyD,
	glfw.KeyQ:          KeyQ,
	glfw.KeyE:          KeyE,
	glfw.KeyUp:         KeyUp,
	glfw.KeyDown:       KeyDown,
	glfw.KeyLeft:       KeyLeft,
	glfw.KeyRight:      KeyRight,
	glfw.KeySpace:      KeySpace,
	glfw.KeyLeftShift:  KeyShift,
	glfw.KeyRightShift: KeyShift,
	glfw.KeyEscape:     KeyEscape,
}

type glfwWindow struct {
	win   *glfw.Window
	input InputState
}

// NewWindow opens a window without a client api, the surface is created by
// webgpu. Input events are forwarded to handler, which may be nil.
func NewWindow(width, height int, title string, handler InputHandler) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	configureInput(window, dispatcher{state: &w.input, handler: handler})

	return w, nil
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) Close() {
	g.win.SetShouldClose(true)
}

func (g *glfwWindow) Terminate() {
	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(render func(input UpdateInputState) error) error {
	var updateInputState UpdateInputState = func() InputState {
		g.input.nextTick()
		glfw.PollEvents()
		return g.input
	}

	for !g.win.ShouldClose() {
		if err := render(updateInputState); err != nil {
			return err
		}
	}

	return nil
}

func configureInput(window *glfw.Window, input dispatcher) {
	window.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}

		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		switch action {
		case glfw.Press:
			input.keyDown(key)

		case glfw.Release:
			input.keyUp(key)
		}
	})

	window.SetMouseButtonCallback(func(_win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		button := MouseButton(btn)

		switch action {
		case glfw.Press:
			input.mouseDown(button)
		case glfw.Release:
			input.mouseUp(button)
		}
	})

	window.SetCursorPosCallback(func(_win *glfw.Window, xpos float64, ypos float64) {
		input.mouseMove(float32(xpos), float32(ypos))
	})

	window.SetScrollCallback(func(_win *glfw.Window, xoff float64, yoff float64) {
		input.scroll(float32(xoff), float32(yoff))
	})
}

func keyOf(glfwKey glfw.Key) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug(
			"Unmapped key code",
			slog.String("key", glfw.GetKeyName(glfwKey, 0)),
		)
	}

	return
}
