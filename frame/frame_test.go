package frame

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/oliverbestmann/town/town"
)

func TestUniformLayout(t *testing.T) {
	if UniformSize != 144 {
		t.Errorf("uniform record has %d bytes, expected 144", UniformSize)
	}

	if UniformStride != 256 {
		t.Errorf("uniform stride is %d, expected 256", UniformStride)
	}

	offsets := map[string]uintptr{
		"projection": unsafe.Offsetof(Uniforms{}.Projection),
		"view":       unsafe.Offsetof(Uniforms{}.View),
		"light":      unsafe.Offsetof(Uniforms{}.LightDirection),
		"ambient":    unsafe.Offsetof(Uniforms{}.AmbientIntensity),
	}

	expected := map[string]uintptr{
		"projection": 0,
		"view":       64,
		"light":      128,
		"ambient":    140,
	}

	for name, offset := range offsets {
		if offset != expected[name] {
			t.Errorf("%s at offset %d, expected %d", name, offset, expected[name])
		}
	}
}

func TestUniformArena(t *testing.T) {
	alloc := &fakeAllocator{}

	arena, err := NewUniformArena(alloc)
	if err != nil {
		t.Fatal(err)
	}

	if arena.Buffer().Size() != 256*SlotCount {
		t.Errorf("uniform buffer has %d bytes", arena.Buffer().Size())
	}

	for slot := range SlotCount {
		address := arena.Address(slot)
		if address.Offset != uint64(slot)*256 || address.Size != UniformSize {
			t.Errorf("slot %d at %+v", slot, address)
		}

		arena.Record(slot).AmbientIntensity = float32(slot + 1)
		if err := arena.Flush(slot); err != nil {
			t.Fatal(err)
		}
	}

	data := alloc.byLabel("Town.Uniforms").data
	for slot := range SlotCount {
		offset := uint64(slot)*UniformStride + uint64(unsafe.Offsetof(Uniforms{}.AmbientIntensity))
		value := *(*float32)(unsafe.Pointer(&data[offset]))

		if value != float32(slot+1) {
			t.Errorf("slot %d holds ambient %f", slot, value)
		}
	}
}

func TestSlotFor(t *testing.T) {
	for frameIndex := uint64(0); frameIndex < 10; frameIndex++ {
		if slot := SlotFor(frameIndex); slot != int(frameIndex%3) {
			t.Errorf("frame %d in slot %d", frameIndex, slot)
		}
	}
}

func testMesh(t *testing.T) *town.Mesh {
	t.Helper()

	generated, err := town.Generate(town.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	mesh := town.BuildMesh(generated)
	return &mesh
}

func TestGeometryStoreUploads(t *testing.T) {
	mesh := testMesh(t)

	alloc := &fakeAllocator{}
	residency := &fakeResidency{}
	uniforms := &fakeBuffer{label: "uniforms", data: make([]byte, 768)}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	store, err := NewGeometryStore(alloc, residency, mesh, uniforms, logger)
	if err != nil {
		t.Fatal(err)
	}

	vertices := alloc.byLabel("Town.Vertices")
	if vertices.Size() != uint64(len(mesh.Vertices))*town.VertexStride {
		t.Errorf("vertex buffer has %d bytes", vertices.Size())
	}

	indices := alloc.byLabel("Town.Indices")
	if indices.Size() != uint64(len(mesh.Indices))*4 {
		t.Errorf("index buffer has %d bytes", indices.Size())
	}

	if store.IndexCount() != uint32(len(mesh.Indices)) {
		t.Errorf("index count = %d", store.IndexCount())
	}

	if vertices.usage != BufferUsageVertex || indices.usage != BufferUsageIndex {
		t.Errorf("unexpected buffer usage")
	}

	if len(residency.pending) != 0 || len(residency.committed) != 3 {
		t.Fatalf("residency set not committed: %+v", residency)
	}

	if residency.committed[2] != Buffer(uniforms) {
		t.Errorf("uniform buffer is not resident")
	}

	address := store.VertexAddress()
	if address.Buffer != Buffer(vertices) || address.Offset != 0 || address.Size != vertices.Size() {
		t.Errorf("vertex address %+v", address)
	}

	if !strings.Contains(logs.String(), "Uploaded town geometry") {
		t.Errorf("upload not logged to the given logger: %q", logs.String())
	}

	store.Release()

	if !vertices.released || !indices.released || uniforms.released {
		t.Errorf("release: vertices=%v indices=%v uniforms=%v", vertices.released, indices.released, uniforms.released)
	}
}

func TestGeometryStoreFailures(t *testing.T) {
	mesh := testMesh(t)
	uniforms := &fakeBuffer{label: "uniforms", data: make([]byte, 768)}

	t.Run("allocation", func(t *testing.T) {
		alloc := &fakeAllocator{failLabel: "Town.Indices"}

		_, err := NewGeometryStore(alloc, &fakeResidency{}, mesh, uniforms, nil)
		if err == nil {
			t.Fatal("expected allocation failure")
		}

		if !alloc.byLabel("Town.Vertices").released {
			t.Error("vertex buffer leaked after failed index allocation")
		}
	})

	t.Run("upload", func(t *testing.T) {
		alloc := &fakeAllocator{failWrite: "Town.Indices"}

		_, err := NewGeometryStore(alloc, &fakeResidency{}, mesh, uniforms, nil)
		if err == nil {
			t.Fatal("expected upload failure")
		}

		for _, buffer := range alloc.buffers {
			if !buffer.released {
				t.Errorf("buffer %q leaked after failed upload", buffer.label)
			}
		}
	})

	t.Run("commit", func(t *testing.T) {
		commitErr := errors.New("commit failed")
		residency := &fakeResidency{commitErr: commitErr}
		alloc := &fakeAllocator{}

		_, err := NewGeometryStore(alloc, residency, mesh, uniforms, nil)
		if !errors.Is(err, commitErr) {
			t.Fatalf("expected commit failure, got %v", err)
		}

		if len(alloc.buffers) != 2 || !alloc.buffers[0].released || !alloc.buffers[1].released {
			t.Error("geometry buffers leaked after failed commit")
		}

		if uniforms.released {
			t.Error("uniform buffer is owned by the caller")
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewGeometryStore(&fakeAllocator{}, &fakeResidency{}, &town.Mesh{}, uniforms, nil)
		if err == nil {
			t.Fatal("expected error for empty mesh")
		}
	})
}

func TestBindingTablesSnapshot(t *testing.T) {
	var tables BindingTables
	encoder := &fakeEncoder{}

	first := BufferAddress{Buffer: &fakeBuffer{label: "first"}}
	second := BufferAddress{Buffer: &fakeBuffer{label: "second"}}

	tables.SetAddress(StageVertex, BindingUniforms, first)
	tables.Attach(encoder, StageVertex)

	// not observed by the attached table
	tables.SetAddress(StageVertex, BindingUniforms, second)

	if encoder.bindings[0].table[BindingUniforms] != first {
		t.Error("attached table observed a later change")
	}

	if tables.Table(StageVertex)[BindingUniforms] != second {
		t.Error("table did not record the new address")
	}

	if !tables.Table(StageFragment)[BindingUniforms].IsZero() {
		t.Error("stages share their tables")
	}
}

func TestCounterFence(t *testing.T) {
	fence := NewCounterFence()

	if !fence.Wait(0, time.Millisecond) {
		t.Error("wait for initial value failed")
	}

	if fence.Wait(1, time.Millisecond) {
		t.Error("wait for unsignaled value succeeded")
	}

	fence.Signal(5)
	fence.Signal(2)

	if fence.Value() != 5 {
		t.Errorf("fence moved backwards to %d", fence.Value())
	}
}

func TestCounterFenceOutOfOrderSignals(t *testing.T) {
	fence := NewCounterFence()

	var wg sync.WaitGroup
	results := make([]bool, 2)

	for idx, value := range []uint64{3, 5} {
		wg.Add(1)

		go func() {
			defer wg.Done()
			results[idx] = fence.Wait(value, 5*time.Second)
		}()
	}

	time.Sleep(time.Millisecond)

	// a single signal past both values wakes both waiters
	fence.Signal(5)
	wg.Wait()

	if !results[0] || !results[1] {
		t.Fatalf("waiters not woken: %v", results)
	}

	// a late signal for an older frame is ignored
	fence.Signal(3)

	if fence.Value() != 5 {
		t.Fatalf("fence moved backwards to %d", fence.Value())
	}

	if !fence.Wait(4, 0) {
		t.Error("wait for a completed value failed")
	}

	done := make(chan bool)
	go func() { done <- fence.Wait(7, 5*time.Second) }()

	time.Sleep(time.Millisecond)
	fence.Signal(4)
	fence.Signal(7)

	if !<-done {
		t.Error("waiter for 7 was not woken")
	}

	if fence.Value() != 7 {
		t.Errorf("value = %d, expected 7", fence.Value())
	}
}

func TestCounterFenceWakesWaiters(t *testing.T) {
	fence := NewCounterFence()

	var wg sync.WaitGroup
	results := make([]bool, 4)

	for idx := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()
			results[idx] = fence.Wait(uint64(idx+1), 5*time.Second)
		}()
	}

	for value := range uint64(4) {
		time.Sleep(time.Millisecond)
		fence.Signal(value + 1)
	}

	wg.Wait()

	for idx, reached := range results {
		if !reached {
			t.Errorf("waiter %d timed out", idx)
		}
	}
}

func TestStateTransitions(t *testing.T) {
	valid := [][2]State{
		{StateIdle, StateSlotWaitComplete},
		{StateSlotWaitComplete, StateEncoding},
		{StateEncoding, StateSubmitted},
		{StateEncoding, StateIdle},
		{StateSubmitted, StatePresented},
		{StateSubmitted, StateIdle},
		{StatePresented, StateIdle},
	}

	for _, tc := range valid {
		if !tc[0].canTransitionTo(tc[1]) {
			t.Errorf("%s -> %s should be allowed", tc[0], tc[1])
		}
	}

	invalid := [][2]State{
		{StateIdle, StateEncoding},
		{StateSubmitted, StateEncoding},
		{StatePresented, StateEncoding},
		{StateSlotWaitComplete, StateIdle},
	}

	for _, tc := range invalid {
		if tc[0].canTransitionTo(tc[1]) {
			t.Errorf("%s -> %s should not be allowed", tc[0], tc[1])
		}
	}
}

func TestInvalidTransitionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()

	mustTransition(StateIdle, StatePresented)
}

func TestStateString(t *testing.T) {
	if StateSlotWaitComplete.String() != "SlotWaitComplete" {
		t.Errorf("unexpected name %q", StateSlotWaitComplete.String())
	}

	if State(17).String() != "State(17)" {
		t.Errorf("unexpected name %q", State(17).String())
	}
}

func TestStatsAverage(t *testing.T) {
	var stats Stats

	for range 100 {
		stats.update(20 * time.Millisecond)
		stats.FrameCount += 1
	}

	if stats.AverageDuration != 20*time.Millisecond {
		t.Errorf("average = %s", stats.AverageDuration)
	}

	if fps := stats.FPS(); fps < 49.9 || fps > 50.1 {
		t.Errorf("fps = %f", fps)
	}

	stats.update(100 * time.Millisecond)

	if stats.MaxDuration != 100*time.Millisecond || stats.Delta != 100*time.Millisecond {
		t.Errorf("stats = %+v", stats)
	}
}
