package render

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unsafe"

	"TerraVista/shared/meshing"
	"TerraVista/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LoadPropModels registra os modelos de prop encontrados em dir (*.obj).
// Sem a pasta de assets, um arbusto procedural serve de fallback para que
// o espalhamento de vegetação funcione em qualquer instalação.
func (r *Renderer) LoadPropModels(dir string) {
	if !rl.IsWindowReady() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	loaded := 0
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".obj") {
				continue
			}
			if r.loadPropOBJ(filepath.Join(dir, entry.Name())) {
				loaded++
			}
		}
	}

	if loaded == 0 {
		r.registerFallbackProp()
		log.Printf("[Renderer] Nenhum prop OBJ em %s, usando arbusto procedural", dir)
		return
	}
	log.Printf("[Renderer] %d modelos de prop carregados de %s", loaded, dir)
}

func (r *Renderer) loadPropOBJ(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[Renderer] ERRO ao abrir prop %s: %v", path, err)
		return false
	}
	defer f.Close()

	geoms, err := meshing.LoadOBJ(f)
	if err != nil {
		log.Printf("[Renderer] ERRO ao carregar prop %s: %v", path, err)
		return false
	}

	// Só a primeira malha do arquivo; props são modelos simples.
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".obj")
	mesh := r.geometryToMesh(geoms[0].Geometry)
	rl.UploadMesh(&mesh, false)
	r.freeMeshRAM(&mesh)

	r.PropMgr.Register(name, mesh, r.newPropMaterial(rl.White))
	return true
}

func (r *Renderer) registerFallbackProp() {
	mesh := rl.GenMeshCone(0.3, 0.8, 6)
	r.PropMgr.Register("arbusto", mesh, r.newPropMaterial(rl.Color{R: 70, G: 120, B: 60, A: 255}))
}

func (r *Renderer) newPropMaterial(tint rl.Color) rl.Material {
	mat := rl.LoadMaterialDefault()
	mat.Shader = r.PropShader
	maps := unsafe.Slice(mat.Maps, 1)
	maps[0].Color = tint
	return mat
}

// PropNames lista os modelos de prop registrados, em ordem estável.
func (r *Renderer) PropNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.PropMgr.Batches))
	for name := range r.PropMgr.Batches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPropInstances substitui as instâncias de prop ancoradas no chunk.
// As instâncias vivem junto do modelo do chunk e somem com ele na purga.
func (r *Renderer) SetPropInstances(origin util.ChunkCoord, instances []PropInstance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cm, ok := r.Models[origin]; ok {
		cm.Instances = instances
	}
}
