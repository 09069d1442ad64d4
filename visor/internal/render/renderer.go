package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"log"
	"sync"
	"unsafe"

	"TerraVista/shared/meshing"
	"TerraVista/shared/transform"
	"TerraVista/shared/util"
	"TerraVista/visor/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer mantém os modelos de chunk na GPU e os shaders do visor.
// A variante do shader de terreno é escolhida na criação e não muda
// durante o frame (trocar de variante recompila o shader).
type Renderer struct {
	mu     sync.RWMutex
	Models map[util.ChunkCoord]*ChunkModel

	TerrainShader rl.Shader
	PropShader    rl.Shader
	variantFlags  ShaderVariant
	shaderLoaded  bool

	// Uniforms do shader de terreno
	modelLoc    int32
	viewProjLoc int32
	normalLoc   int32
	camPosLoc   int32
	timeLoc     int32

	propViewProjLoc int32
	propTimeLoc     int32

	// Fila de modelos para purga (evita stutter de UnloadModel em rajada)
	purgeQueue []util.ChunkCoord

	PropMgr *PropManager
	Weather *ParticleSystem

	// Matriz de modelo do terreno. Os chunks já são gerados em coordenadas
	// de mundo, então fica na identidade; existe como uniform para que a
	// mesma pipeline sirva a modelos posicionados.
	terrainModel mgl32.Mat4
}

// NewRenderer cria o renderizador com a variante de shader pedida.
func NewRenderer(variant ShaderVariant) *Renderer {
	r := &Renderer{
		Models:       make(map[util.ChunkCoord]*ChunkModel),
		purgeQueue:   make([]util.ChunkCoord, 0),
		variantFlags: variant,
		terrainModel: mgl32.Ident4(),
	}

	if rl.IsWindowReady() {
		r.loadShaders(variant)
	}

	r.PropMgr = NewPropManager()
	r.Weather = NewParticleSystem(2000)

	return r
}

// loadShaders compila a variante pedida e resolve as localizações de uniform.
func (r *Renderer) loadShaders(variant ShaderVariant) {
	vs, err := variant.Specialize(terrainVertexShader)
	if err != nil {
		log.Printf("[Renderer] ERRO ao especializar vertex shader: %v", err)
		return
	}
	fs, err := variant.Specialize(terrainFragmentShader)
	if err != nil {
		log.Printf("[Renderer] ERRO ao especializar fragment shader: %v", err)
		return
	}

	r.TerrainShader = rl.LoadShaderFromMemory(vs, fs)
	r.PropShader = rl.LoadShaderFromMemory(propVertexShader, propFragmentShader)

	// Raylib preenche colDiffuse automaticamente via Locs
	locs := unsafe.Slice(r.TerrainShader.Locs, 32)
	locs[12] = rl.GetShaderLocation(r.TerrainShader, "colDiffuse") // SHADER_LOC_COLOR_DIFFUSE

	locsP := unsafe.Slice(r.PropShader.Locs, 32)
	locsP[12] = rl.GetShaderLocation(r.PropShader, "colDiffuse")

	r.modelLoc = rl.GetShaderLocation(r.TerrainShader, "modelMatrix")
	r.viewProjLoc = rl.GetShaderLocation(r.TerrainShader, "viewProjection")
	r.camPosLoc = rl.GetShaderLocation(r.TerrainShader, "camPos")
	r.timeLoc = rl.GetShaderLocation(r.TerrainShader, "time")
	if variant.Has(VariantNormalMap) {
		r.normalLoc = rl.GetShaderLocation(r.TerrainShader, "normalMatrix")
	} else {
		r.normalLoc = -1
	}

	r.propViewProjLoc = rl.GetShaderLocation(r.PropShader, "viewProjection")
	r.propTimeLoc = rl.GetShaderLocation(r.PropShader, "time")

	r.shaderLoaded = true
	log.Printf("[Renderer] Shader de terreno compilado (variante %s)", variant)
}

// SetVariant recompila o shader de terreno com outra variante. Os modelos
// residentes continuam válidos; só o programa muda.
func (r *Renderer) SetVariant(variant ShaderVariant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if variant == r.variantFlags && r.shaderLoaded {
		return
	}
	if r.shaderLoaded {
		rl.UnloadShader(r.TerrainShader)
		rl.UnloadShader(r.PropShader)
		r.shaderLoaded = false
	}
	r.variantFlags = variant
	if rl.IsWindowReady() {
		r.loadShaders(variant)
	}

	// Reassocia o shader novo a todos os modelos residentes
	for _, cm := range r.Models {
		if cm.Active && cm.Model.MaterialCount > 0 {
			materials := unsafe.Slice(cm.Model.Materials, cm.Model.MaterialCount)
			materials[0].Shader = r.TerrainShader
		}
	}
}

// VariantFlags devolve a variante ativa.
func (r *Renderer) VariantFlags() ShaderVariant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.variantFlags
}

// GetModelVersion retorna o MTime do modelo residente, ou -1 se ausente.
func (r *Renderer) GetModelVersion(coord util.ChunkCoord) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cm, ok := r.Models[coord]; ok {
		return cm.MTime
	}
	return -1
}

// UploadResult converte um resultado de meshing em um modelo Raylib GPU.
func (r *Renderer) UploadResult(res meshing.Result) {
	if !rl.IsWindowReady() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.Models[res.Origin]; ok {
		if old.Active {
			rl.UnloadModel(old.Model)
		}
		delete(r.Models, res.Origin)
	}

	if len(res.Geometry.Vertices) == 0 {
		return
	}

	mesh := r.geometryToMesh(res.Geometry)
	rl.UploadMesh(&mesh, false)
	r.freeMeshRAM(&mesh)

	cm := &ChunkModel{
		Origin: res.Origin,
		Model:  rl.LoadModelFromMesh(mesh),
		MTime:  res.MTime,
		Active: true,
	}

	if cm.Model.MaterialCount > 0 {
		materials := unsafe.Slice(cm.Model.Materials, cm.Model.MaterialCount)
		materials[0].Shader = r.TerrainShader
	}

	r.Models[res.Origin] = cm
}

func (r *Renderer) geometryToMesh(data meshing.GeometryData) rl.Mesh {
	var mesh rl.Mesh
	mesh.VertexCount = int32(data.VertexCount())
	mesh.TriangleCount = int32(len(data.Indices) / 3)

	if len(data.Vertices) > 0 {
		mesh.Vertices = (*float32)(r.copyToC(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*4))
	}
	if len(data.Normals) > 0 {
		mesh.Normals = (*float32)(r.copyToC(unsafe.Pointer(&data.Normals[0]), len(data.Normals)*4))
	}
	if len(data.Colors) > 0 {
		mesh.Colors = (*uint8)(r.copyToC(unsafe.Pointer(&data.Colors[0]), len(data.Colors)))
	}
	if len(data.UVs) > 0 {
		mesh.Texcoords = (*float32)(r.copyToC(unsafe.Pointer(&data.UVs[0]), len(data.UVs)*4))
	}
	if len(data.Tangents) > 0 {
		packed := packTangents(data)
		mesh.Tangents = (*float32)(r.copyToC(unsafe.Pointer(&packed[0]), len(packed)*4))
	}
	if len(data.Indices) > 0 {
		mesh.Indices = (*uint16)(r.copyToC(unsafe.Pointer(&data.Indices[0]), len(data.Indices)*2))
	}
	return mesh
}

// packTangents converte as tangentes vec3 do mesher para o layout vec4 do
// Raylib. O w carrega a orientação da bitangente (sempre +1: a base vem de
// bitangent = cross(normal, tangent)).
func packTangents(data meshing.GeometryData) []float32 {
	packed := make([]float32, 0, data.VertexCount()*4)
	for i := 0; i+2 < len(data.Tangents); i += 3 {
		packed = append(packed, data.Tangents[i], data.Tangents[i+1], data.Tangents[i+2], 1.0)
	}
	return packed
}

func (r *Renderer) copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	cSlice := unsafe.Slice((*byte)(ptr), size)
	goSlice := unsafe.Slice((*byte)(data), size)
	copy(cSlice, goSlice)
	return ptr
}

// freeMeshRAM libera a cópia em RAM depois do upload para a GPU.
func (r *Renderer) freeMeshRAM(mesh *rl.Mesh) {
	if mesh.Vertices != nil {
		C.free(unsafe.Pointer(mesh.Vertices))
		mesh.Vertices = nil
	}
	if mesh.Normals != nil {
		C.free(unsafe.Pointer(mesh.Normals))
		mesh.Normals = nil
	}
	if mesh.Colors != nil {
		C.free(unsafe.Pointer(mesh.Colors))
		mesh.Colors = nil
	}
	if mesh.Texcoords != nil {
		C.free(unsafe.Pointer(mesh.Texcoords))
		mesh.Texcoords = nil
	}
	if mesh.Tangents != nil {
		C.free(unsafe.Pointer(mesh.Tangents))
		mesh.Tangents = nil
	}
	if mesh.Indices != nil {
		C.free(unsafe.Pointer(mesh.Indices))
		mesh.Indices = nil
	}
}

// Draw renderiza os chunks dentro do raio de visão da câmera.
func (r *Renderer) Draw(cam *camera.CameraController, aspect float32) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.shaderLoaded {
		return
	}

	camPos := cam.RLCamera.Position
	pipeline := cam.Pipeline(aspect)
	vp := rlMatrix(pipeline.ViewProjection)

	timeVal := float32(rl.GetTime())
	rl.SetShaderValueMatrix(r.TerrainShader, r.modelLoc, rlMatrix(r.terrainModel))
	rl.SetShaderValueMatrix(r.TerrainShader, r.viewProjLoc, vp)
	rl.SetShaderValue(r.TerrainShader, r.camPosLoc, []float32{camPos.X, camPos.Y, camPos.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.TerrainShader, r.timeLoc, []float32{timeVal}, rl.ShaderUniformFloat)
	if r.normalLoc >= 0 {
		rl.SetShaderValueMatrix(r.TerrainShader, r.normalLoc, rlMatrix(transform.NormalMatrix(r.terrainModel)))
	}

	rl.SetShaderValueMatrix(r.PropShader, r.propViewProjLoc, vp)
	rl.SetShaderValue(r.PropShader, r.propTimeLoc, []float32{timeVal}, rl.ShaderUniformFloat)

	// Raio generoso: evita a sensação de borda preta sem explodir draw calls
	const viewRadiusSq = 300.0 * 300.0

	r.PropMgr.Clear()

	for _, cm := range r.Models {
		if !cm.Active || cm.Model.MeshCount == 0 {
			continue
		}

		center := rl.Vector3{
			X: float32(cm.Origin.X) + util.ChunkSize/2,
			Y: camPos.Y,
			Z: float32(cm.Origin.Z) + util.ChunkSize/2,
		}
		if util.DistSq(camPos, center) > viewRadiusSq {
			continue
		}

		rl.DrawModel(cm.Model, rl.Vector3{}, 1.0, rl.White)

		for _, inst := range cm.Instances {
			r.PropMgr.AddInstance(inst)
		}
	}

	r.PropMgr.DrawAll()

	if r.Weather != nil {
		r.Weather.Update(rl.GetFrameTime(), camPos)
		r.Weather.Draw()
	}
}

// SchedulePurge marca para descarte os chunks fora do raio dado.
func (r *Renderer) SchedulePurge(center util.ChunkCoord, radiusChunks int32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := radiusChunks * util.ChunkSize
	for coord := range r.Models {
		if util.Abs(coord.X-center.X) > limit || util.Abs(coord.Z-center.Z) > limit {
			r.purgeQueue = append(r.purgeQueue, coord)
		}
	}
}

// ProcessPurge descarrega no máximo 2 modelos por frame.
func (r *Renderer) ProcessPurge() {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := 2
	if len(r.purgeQueue) < limit {
		limit = len(r.purgeQueue)
	}
	for i := 0; i < limit; i++ {
		coord := r.purgeQueue[0]
		r.purgeQueue = r.purgeQueue[1:]
		if cm, ok := r.Models[coord]; ok {
			rl.UnloadModel(cm.Model)
			delete(r.Models, coord)
		}
	}
}

// Unload descarrega todos os modelos e shaders.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cm := range r.Models {
		rl.UnloadModel(cm.Model)
	}
	r.Models = make(map[util.ChunkCoord]*ChunkModel)

	if r.shaderLoaded {
		rl.UnloadShader(r.TerrainShader)
		rl.UnloadShader(r.PropShader)
		r.shaderLoaded = false
	}
}

// GetRayCollision testa o raio do mouse contra os chunks residentes e
// devolve a coluna de terreno atingida.
func (r *Renderer) GetRayCollision(ray rl.Ray) (int32, int32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var closestDist float32 = 1e9
	var hit bool
	var hitPos rl.Vector3

	for _, cm := range r.Models {
		if !cm.Active || cm.Model.MeshCount == 0 {
			continue
		}
		meshes := unsafe.Slice(cm.Model.Meshes, cm.Model.MeshCount)
		for i := int32(0); i < cm.Model.MeshCount; i++ {
			collision := rl.GetRayCollisionMesh(ray, meshes[i], cm.Model.Transform)
			if collision.Hit && collision.Distance < closestDist {
				closestDist = collision.Distance
				hitPos = collision.Point
				hit = true
			}
		}
	}

	if !hit {
		return 0, 0, false
	}

	x, z := util.WorldToColumn(hitPos)
	return x, z, true
}

// DrawSelection destaca a coluna de terreno selecionada.
func (r *Renderer) DrawSelection(x, z int32, height float32) {
	pos := util.ColumnToWorldPos(x, z, height)
	pos.Y += 0.5
	rl.DrawCubeWires(pos, 1.01, 1.01, 1.01, rl.Yellow)
}
