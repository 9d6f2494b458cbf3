package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrUnsupportedDevice is returned if the adapter does not provide the
// limits required to render the town.
var ErrUnsupportedDevice = errors.New("unsupported device")

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// Context encapsulates the low level state of the webgpu context,
// this includes the Device, Surface and active Adapter
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
}

func New(sd *wgpu.SurfaceDescriptor) (st *Context, err error) {
	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Context{}

	// create the webgpu instance
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// create a Surface based on the window
	st.Surface = instance.CreateSurface(sd)

	// create an adapter that can render to the Surface
	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    st.Surface,
	})

	if err != nil {
		return
	}

	// fail early, before any resource is allocated
	if err = CheckLimits(limitsOf(st.Adapter.GetLimits())); err != nil {
		return
	}

	// get a Device with the default settings
	st.Device, err = st.Adapter.RequestDevice(nil)
	if err != nil {
		return
	}

	st.Queue = st.Device.GetQueue()

	return st, nil
}

func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}

// DeviceLimits are the adapter limits the town renderer depends on.
type DeviceLimits struct {
	MaxBindGroups                   uint32
	MaxStorageBuffersPerShaderStage uint32
	MaxStorageBufferBindingSize     uint64
	MinUniformBufferOffsetAlignment uint32
}

// RequiredLimits are the minimum limits: one bind group with the vertices
// in a storage buffer and per slot uniforms at 256 byte aligned offsets.
var RequiredLimits = DeviceLimits{
	MaxBindGroups:                   1,
	MaxStorageBuffersPerShaderStage: 1,
	MaxStorageBufferBindingSize:     128 << 20,
	MinUniformBufferOffsetAlignment: uint32(frame.UniformStride),
}

// Limits returns the limits of the adapter backing this context.
func (d *Context) Limits() DeviceLimits {
	return limitsOf(d.Adapter.GetLimits())
}

func limitsOf(limits wgpu.Limits) DeviceLimits {
	return DeviceLimits{
		MaxBindGroups:                   limits.MaxBindGroups,
		MaxStorageBuffersPerShaderStage: limits.MaxStorageBuffersPerShaderStage,
		MaxStorageBufferBindingSize:     limits.MaxStorageBufferBindingSize,
		MinUniformBufferOffsetAlignment: limits.MinUniformBufferOffsetAlignment,
	}
}

// CheckLimits verifies the limits of an adapter against RequiredLimits.
func CheckLimits(limits DeviceLimits) error {
	var errs []error

	if limits.MaxBindGroups < RequiredLimits.MaxBindGroups {
		errs = append(errs, fmt.Errorf("max bind groups %d", limits.MaxBindGroups))
	}

	if limits.MaxStorageBuffersPerShaderStage < RequiredLimits.MaxStorageBuffersPerShaderStage {
		errs = append(errs, fmt.Errorf("max storage buffers per stage %d", limits.MaxStorageBuffersPerShaderStage))
	}

	if limits.MaxStorageBufferBindingSize < RequiredLimits.MaxStorageBufferBindingSize {
		errs = append(errs, fmt.Errorf("max storage buffer binding size %d", limits.MaxStorageBufferBindingSize))
	}

	// an alignment larger than the slot stride can not address every slot
	alignment := limits.MinUniformBufferOffsetAlignment
	if alignment == 0 || alignment > RequiredLimits.MinUniformBufferOffsetAlignment {
		errs = append(errs, fmt.Errorf("uniform buffer offset alignment %d", alignment))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrUnsupportedDevice, errors.Join(errs...))
	}

	slog.Debug("Device limits are sufficient", slog.Any("limits", limits))

	return nil
}
