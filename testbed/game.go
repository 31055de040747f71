// Package testbed is a small demo application exercising the engine: a
// shadow pre-pass feeding a scene pass that clears and draws into the
// swapchain.
package testbed

import (
	"github.com/spaghettifunk/vortex/engine"
	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/engine/math"
	"github.com/spaghettifunk/vortex/engine/renderer"
	"github.com/spaghettifunk/vortex/engine/renderer/commands"
	"github.com/spaghettifunk/vortex/engine/renderer/framegraph"
	"github.com/spaghettifunk/vortex/engine/renderer/metadata"
	"github.com/spaghettifunk/vortex/engine/renderer/resources"
)

const shadowMapResolution = 2048

// SceneLayer draws a spinning cube lit through a transient shadow map. It is
// deliberately simple; the point is driving the frame graph end to end.
type SceneLayer struct {
	engine *engine.Engine

	meshID     resources.ResourceID
	materialID resources.ResourceID

	rotation  float32
	transform math.Mat4
}

func NewSceneLayer() *SceneLayer {
	return &SceneLayer{
		transform: math.NewMat4Identity(),
	}
}

func (l *SceneLayer) Name() string {
	return "scene"
}

func (l *SceneLayer) OnAttach(e *engine.Engine) error {
	l.engine = e

	registry := e.Renderer().Registry()

	l.meshID = registry.RegisterResource(metadata.ResourceTypeMesh)
	registry.RegisterMesh(l.meshID, cubeMesh())

	l.materialID = registry.RegisterResource(metadata.ResourceTypeMaterial)
	material := resources.NewMaterialData()
	material.BaseColor = math.NewVec4(0.8, 0.2, 0.2, 1.0)
	registry.RegisterMaterial(l.materialID, material)

	core.LogInfo("scene layer attached: mesh %s, material %s", l.meshID, l.materialID)
	return nil
}

func (l *SceneLayer) OnDetach() {
	if l.engine == nil {
		return
	}
	registry := l.engine.Renderer().Registry()
	registry.ReleaseResource(l.meshID)
	registry.ReleaseResource(l.materialID)
}

func (l *SceneLayer) OnUpdate(deltaTime float64) {
	l.rotation += float32(deltaTime) * 0.5
	l.transform = math.NewMat4RotationY(l.rotation)
}

type shadowPassData struct {
	target string
}

type scenePassData struct {
	meshID     resources.ResourceID
	materialID resources.ResourceID
	transform  math.Mat4
}

func (l *SceneLayer) PrepareDraw(builder *framegraph.Builder) {
	shadowMap := builder.CreateRenderTarget("ShadowMap", metadata.RenderTargetDesc{
		Width:       shadowMapResolution,
		Height:      shadowMapResolution,
		Format:      metadata.FormatD32Float,
		ClearOnLoad: true,
	})

	framegraph.AddPass(builder, "shadow",
		func(pb *framegraph.PassBuilder) shadowPassData {
			pb.Write(shadowMap)
			return shadowPassData{target: shadowMap}
		},
		func(data shadowPassData, cmdBuffer *commands.RenderCommandBuffer) {
			cmdBuffer.SubmitClear(commands.ClearCommandData{
				Depth: 1.0,
				Flags: commands.ClearFlagDepth,
			})
		},
	)

	framegraph.AddPass(builder, "scene",
		func(pb *framegraph.PassBuilder) scenePassData {
			pb.Read(shadowMap)
			pb.Write(renderer.SwapchainResourceName)
			return scenePassData{
				meshID:     l.meshID,
				materialID: l.materialID,
				transform:  l.transform,
			}
		},
		func(data scenePassData, cmdBuffer *commands.RenderCommandBuffer) {
			cmdBuffer.SubmitClear(commands.ClearCommandData{
				Color: math.NewVec4(0.0, 0.0, 0.2, 1.0),
				Depth: 1.0,
				Flags: commands.ClearFlagColor | commands.ClearFlagDepth,
			})
			cmdBuffer.SubmitDraw(commands.DrawCommandData{
				MeshID:        data.meshID,
				MaterialID:    data.materialID,
				Transform:     data.transform,
				InstanceCount: 1,
			}, true)
			cmdBuffer.Sort()
		},
	)
}

// cubeMesh returns a unit cube, positions and indices only.
func cubeMesh() resources.MeshData {
	return resources.MeshData{
		VertexCount:     8,
		IndexCount:      36,
		HasIndices:      true,
		DefaultMaterial: resources.InvalidResourceID(),
		Positions: []float32{
			-0.5, -0.5, -0.5,
			0.5, -0.5, -0.5,
			0.5, 0.5, -0.5,
			-0.5, 0.5, -0.5,
			-0.5, -0.5, 0.5,
			0.5, -0.5, 0.5,
			0.5, 0.5, 0.5,
			-0.5, 0.5, 0.5,
		},
		Indices: []uint32{
			0, 1, 2, 2, 3, 0,
			4, 5, 6, 6, 7, 4,
			0, 4, 7, 7, 3, 0,
			1, 5, 6, 6, 2, 1,
			3, 2, 6, 6, 7, 3,
			0, 1, 5, 5, 4, 0,
		},
	}
}
