package pulse

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// bindGroupKey identifies a bind group by the pipeline it is created for and
// the buffer ranges it points to. There is one bind group per frame slot.
type bindGroupKey struct {
	pipeline *wgpu.RenderPipeline
	vertices frame.BufferAddress
	uniforms frame.BufferAddress
}

type bindGroupCache struct {
	device *wgpu.Device
	cache  *lru.Cache[bindGroupKey, *wgpu.BindGroup]
}

func newBindGroupCache(device *wgpu.Device) *bindGroupCache {
	cache, _ := lru.NewWithEvict[bindGroupKey, *wgpu.BindGroup](4*frame.SlotCount, bindGroupCacheOnEvict)
	return &bindGroupCache{device: device, cache: cache}
}

func bindGroupCacheOnEvict(_ bindGroupKey, value *wgpu.BindGroup) {
	value.Release()
}

// Get returns a bind group with the vertices at binding 0 and the uniforms
// at binding 1. The bind group is cached, you must not release it.
func (c *bindGroupCache) Get(pc CachedPipeline, vertices, uniforms frame.BufferAddress) (*wgpu.BindGroup, error) {
	key := bindGroupKey{
		pipeline: pc.Pipeline,
		vertices: vertices,
		uniforms: uniforms,
	}

	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	vertexBuffer, err := rawBuffer(vertices.Buffer)
	if err != nil {
		return nil, err
	}

	uniformBuffer, err := rawBuffer(uniforms.Buffer)
	if err != nil {
		return nil, err
	}

	layout := pc.GetBindGroupLayout(0)

	bindGroup, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Town.BindGroup",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: frame.BindingVertices,
				Buffer:  vertexBuffer,
				Offset:  vertices.Offset,
				Size:    vertices.Size,
			},
			{
				Binding: frame.BindingUniforms,
				Buffer:  uniformBuffer,
				Offset:  uniforms.Offset,
				Size:    uniforms.Size,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	c.cache.Add(key, bindGroup)

	return bindGroup, nil
}

// Evict drops all bind groups created for the pipeline.
func (c *bindGroupCache) Evict(pipeline *wgpu.RenderPipeline) {
	for _, key := range c.cache.Keys() {
		if key.pipeline == pipeline {
			c.cache.Remove(key)
		}
	}
}

func (c *bindGroupCache) Purge() {
	c.cache.Purge()
}
