package pulse

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type renderEncoder struct {
	commands *commandBuffer
	pass     *wgpu.RenderPassEncoder

	targetFormat wgpu.TextureFormat
	depthFormat  wgpu.TextureFormat

	vertexTable   frame.BindingTable
	fragmentTable frame.BindingTable
}

func (e *renderEncoder) SetBindings(stage frame.Stage, table frame.BindingTable) {
	switch stage {
	case frame.StageVertex:
		e.vertexTable = table
	case frame.StageFragment:
		e.fragmentTable = table
	}
}

func (e *renderEncoder) DrawIndexed(draw frame.IndexedDraw) error {
	if e.pass == nil {
		return errors.New("render pass already ended")
	}

	vertices := e.vertexTable[frame.BindingVertices]
	uniforms := e.vertexTable[frame.BindingUniforms]

	if draw.Indices == nil {
		return errors.New("draw without index buffer")
	}

	if vertices.IsZero() || uniforms.IsZero() {
		return errors.New("vertex stage binding table is incomplete")
	}

	// both stages share a single bind group
	if e.fragmentTable[frame.BindingUniforms] != uniforms {
		return errors.New("fragment stage uniforms differ from vertex stage")
	}

	s := e.commands.submitter

	for _, buffer := range []frame.Buffer{vertices.Buffer, uniforms.Buffer, draw.Indices} {
		if !s.isResident(buffer, e.commands.residency) {
			return fmt.Errorf("buffer %q is not resident", buffer.Label())
		}
	}

	indices, err := rawBuffer(draw.Indices)
	if err != nil {
		return err
	}

	pc, err := s.pipelines.Get(townPipeline{
		TargetFormat: e.targetFormat,
		DepthFormat:  e.depthFormat,
		Raster:       draw.Raster,
	})

	if err != nil {
		return err
	}

	bindGroup, err := s.bindGroups.Get(pc, vertices, uniforms)
	if err != nil {
		return err
	}

	e.pass.SetPipeline(pc.Pipeline)
	e.pass.SetBindGroup(0, bindGroup, nil)
	e.pass.SetIndexBuffer(indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	e.pass.DrawIndexed(draw.IndexCount, 1, 0, 0, 0)

	return nil
}

func (e *renderEncoder) End() error {
	if e.pass == nil {
		return nil
	}

	pass := e.pass
	e.pass = nil

	// must release pass before finishing the encoder
	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	return nil
}
