package pulse

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed town.wgsl
var townShaderCode string

// townPipeline specializes the town shader for a render target and raster state.
type townPipeline struct {
	TargetFormat wgpu.TextureFormat

	// wgpu.TextureFormatUndefined if the pass has no depth attachment
	DepthFormat wgpu.TextureFormat

	Raster frame.RasterState
}

func (conf townPipeline) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for town",
		slog.Any("format", conf.TargetFormat),
		slog.Any("depthFormat", conf.DepthFormat),
	)

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Town.Shader",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: townShaderCode},
	})

	if err != nil {
		return nil, fmt.Errorf("compile town shader: %w", err)
	}

	defer shader.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Town.%s", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &wgpu.BlendStateReplace,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topologyOf(conf.Raster.Topology),
			FrontFace: frontFaceOf(conf.Raster.FrontFace),
			CullMode:  cullModeOf(conf.Raster.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if conf.DepthFormat != wgpu.TextureFormatUndefined {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            conf.DepthFormat,
			DepthWriteEnabled: optionalBool(conf.Raster.DepthWrite),
			DepthCompare:      compareFunctionOf(conf.Raster.DepthCompare),
			StencilFront:      stencilKeep,
			StencilBack:       stencilKeep,
		}
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build town pipeline: %w", err)
	}

	return pipeline, nil
}

// the stencil is cleared but never used
var stencilKeep = wgpu.StencilFaceState{
	Compare:     wgpu.CompareFunctionAlways,
	FailOp:      wgpu.StencilOperationKeep,
	DepthFailOp: wgpu.StencilOperationKeep,
	PassOp:      wgpu.StencilOperationKeep,
}

func optionalBool(value bool) wgpu.OptionalBool {
	if value {
		return wgpu.OptionalBoolTrue
	}

	return wgpu.OptionalBoolFalse
}

func topologyOf(topology frame.PrimitiveTopology) wgpu.PrimitiveTopology {
	switch topology {
	case frame.TopologyTriangleList:
		return wgpu.PrimitiveTopologyTriangleList
	default:
		panic(fmt.Sprintf("unknown topology %d", topology))
	}
}

func frontFaceOf(face frame.FrontFace) wgpu.FrontFace {
	switch face {
	case frame.FrontFaceCCW:
		return wgpu.FrontFaceCCW
	case frame.FrontFaceCW:
		return wgpu.FrontFaceCW
	default:
		panic(fmt.Sprintf("unknown front face %d", face))
	}
}

func cullModeOf(mode frame.CullMode) wgpu.CullMode {
	switch mode {
	case frame.CullModeNone:
		return wgpu.CullModeNone
	case frame.CullModeBack:
		return wgpu.CullModeBack
	case frame.CullModeFront:
		return wgpu.CullModeFront
	default:
		panic(fmt.Sprintf("unknown cull mode %d", mode))
	}
}

func compareFunctionOf(fn frame.CompareFunction) wgpu.CompareFunction {
	switch fn {
	case frame.CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	case frame.CompareFunctionLess:
		return wgpu.CompareFunctionLess
	case frame.CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	default:
		panic(fmt.Sprintf("unknown compare function %d", fn))
	}
}
