package pulse

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// DepthFormat has an 8 bit stencil next to the depth.
const DepthFormat = wgpu.TextureFormatDepth24PlusStencil8

// View owns the configuration of the surface and the depth
// texture, which always matches the size of the surface.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	// true if depth is enabled
	depth bool
}

func NewView(dev *Context, depth bool) *View {
	st := &View{Context: dev, depth: depth}

	caps := dev.Surface.GetCapabilities(dev.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	format := wgpu.TextureFormatBGRA8Unorm
	if !slices.Contains(caps.Formats, format) && len(caps.Formats) > 0 {
		format = caps.Formats[0]
	}

	st.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],

		// try to reduce input latency
		DesiredMaximumFrameLatency: 1,
	}

	return st
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

func (vs *View) Size() (width, height uint32) {
	return vs.surfaceConfig.Width, vs.surfaceConfig.Height
}

func (vs *View) Depth() bool {
	return vs.depth
}

// DepthView returns the view of the depth texture, or nil
// if depth is disabled or the surface was not yet configured.
func (vs *View) DepthView() *wgpu.TextureView {
	return vs.depthView
}

func (vs *View) Configure(width, height uint32) error {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height

	vs.Surface.Configure(vs.Device, vs.surfaceConfig)

	// the depth texture must match the new size
	vs.releaseDepth()

	if vs.depth {
		if err := vs.createDepthTexture(width, height); err != nil {
			// rendering continues without depth
			slog.Warn("Failed to create depth texture", slog.String("err", err.Error()))
		}
	}

	return nil
}

func (vs *View) createDepthTexture(width, height uint32) error {
	texture, err := vs.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "Town.Depth",
		Usage:     wgpu.TextureUsageRenderAttachment,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        DepthFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	})

	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("create depth view: %w", err)
	}

	vs.depthTexture = texture
	vs.depthView = view

	return nil
}

func (vs *View) releaseDepth() {
	if vs.depthView != nil {
		vs.depthView.Release()
		vs.depthView = nil
	}

	if vs.depthTexture != nil {
		vs.depthTexture.Release()
		vs.depthTexture = nil
	}
}

func (vs *View) Release() {
	vs.releaseDepth()
}
