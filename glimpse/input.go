package glimpse

import "log/slog"

type UpdateInputState func() InputState

type MouseButton uint32

// InputHandler receives input events as they arrive. All methods are
// called on the goroutine that runs the window loop.
type InputHandler interface {
	KeyDown(key Key)
	KeyUp(key Key)
	MouseDown(button MouseButton, x, y float32)
	MouseMove(x, y float32)
	MouseUp(button MouseButton)
	Scroll(dx, dy float32)
}

type KeysState struct {
	// the keys that are currently marked as "pressed"
	Pressed map[Key]bool

	// keys that where just pressed after the last call to nextTick()
	JustPressed map[Key]bool

	// keys that were just released after the last call to nextTick()
	JustReleased map[Key]bool
}

func (k *KeysState) press(key Key) {
	slog.Debug("Key just pressed", slog.String("key", key.String()))

	setTrue(&k.Pressed, key)
	setTrue(&k.JustPressed, key)
}

func (k *KeysState) release(key Key) {
	setFalse(&k.Pressed, key)
	setTrue(&k.JustReleased, key)
}

func (k *KeysState) nextTick() {
	clear(k.JustPressed)
	clear(k.JustReleased)
}

type MouseState struct {
	CursorX, CursorY float32

	// cursor movement since the last tick
	DeltaX, DeltaY float32

	// scroll offset since the last tick
	ScrollX, ScrollY float32

	Pressed map[MouseButton]bool

	// mouse buttons that were just clicked after the last call to nextTick()
	JustPressed map[MouseButton]bool

	// mouse buttons that were just released after the last call to nextTick()
	JustReleased map[MouseButton]bool

	hasPosition bool
}

func (m *MouseState) press(button MouseButton) {
	setTrue(&m.Pressed, button)
	setTrue(&m.JustPressed, button)
}

func (m *MouseState) release(button MouseButton) {
	setFalse(&m.Pressed, button)
	setTrue(&m.JustReleased, button)
}

func (m *MouseState) position(x, y float32) {
	// the first event only establishes the position
	if m.hasPosition {
		m.DeltaX += x - m.CursorX
		m.DeltaY += y - m.CursorY
	}

	m.CursorX = x
	m.CursorY = y
	m.hasPosition = true
}

func (m *MouseState) scroll(dx, dy float32) {
	m.ScrollX += dx
	m.ScrollY += dy
}

func (m *MouseState) nextTick() {
	clear(m.JustPressed)
	clear(m.JustReleased)

	m.DeltaX, m.DeltaY = 0, 0
	m.ScrollX, m.ScrollY = 0, 0
}

type InputState struct {
	Keys  KeysState
	Mouse MouseState
}

func (s *InputState) nextTick() {
	s.Keys.nextTick()
	s.Mouse.nextTick()
}

// dispatcher records events into the InputState and forwards them to the handler.
type dispatcher struct {
	state   *InputState
	handler InputHandler
}

func (d dispatcher) keyDown(key Key) {
	d.state.Keys.press(key)

	if d.handler != nil {
		d.handler.KeyDown(key)
	}
}

func (d dispatcher) keyUp(key Key) {
	d.state.Keys.release(key)

	if d.handler != nil {
		d.handler.KeyUp(key)
	}
}

func (d dispatcher) mouseDown(button MouseButton) {
	d.state.Mouse.press(button)

	if d.handler != nil {
		d.handler.MouseDown(button, d.state.Mouse.CursorX, d.state.Mouse.CursorY)
	}
}

func (d dispatcher) mouseUp(button MouseButton) {
	d.state.Mouse.release(button)

	if d.handler != nil {
		d.handler.MouseUp(button)
	}
}

func (d dispatcher) mouseMove(x, y float32) {
	d.state.Mouse.position(x, y)

	if d.handler != nil {
		d.handler.MouseMove(x, y)
	}
}

func (d dispatcher) scroll(dx, dy float32) {
	d.state.Mouse.scroll(dx, dy)

	if d.handler != nil {
		d.handler.Scroll(dx, dy)
	}
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = true
}

func setFalse[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = false
}
