// Package snapshot renderiza o terreno sem janela nem GPU: projeta a
// geometria pela mesma Pipeline de transformação usada pelo shader e grava o
// resultado em PNG. Usado pelo servidor (modo -snapshot) e em testes.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"TerraVista/shared/meshing"
	"TerraVista/shared/terrain"
	"TerraVista/shared/transform"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera define o ponto de vista do snapshot.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	FOV    float32 // graus
	Near   float32
	Far    float32
}

// DefaultCamera enquadra uma região centrada em center com o raio dado.
func DefaultCamera(center mgl32.Vec3, radius float32) Camera {
	return Camera{
		Eye:    center.Add(mgl32.Vec3{radius, radius * 1.2, radius}),
		Target: center,
		FOV:    50,
		Near:   0.1,
		Far:    radius * 10,
	}
}

// Pipeline monta a pipeline de transformação da câmera para o aspecto dado.
// O terreno vive em coordenadas de mundo, então o modelo é identidade.
func (c Camera) Pipeline(aspect float32) transform.Pipeline {
	view := mgl32.LookAtV(c.Eye, c.Target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
	return transform.Pipeline{
		Model:          mgl32.Ident4(),
		ViewProjection: proj.Mul4(view),
	}
}

var lightDir = mgl32.Vec3{0.5, 0.8, 0.3}.Normalize()

// Render projeta todos os chunks residentes do store em uma imagem.
// Cada vértice vira um ponto com teste de profundidade; o sombreamento é o
// mesmo lambertiano básico do fragment shader do visor.
func Render(store *terrain.TerrainStore, cam Camera, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.RGBA{30, 30, 40, 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	depth := make([]float32, width*height)
	for i := range depth {
		depth[i] = math.MaxFloat32
	}

	pipeline := cam.Pipeline(float32(width) / float32(height))
	mesher := meshing.NewTerrainMesher(1, false)
	defer mesher.Stop()

	for _, coord := range store.Coords() {
		result, ok := mesher.BuildChunkMesh(meshing.Request{Origin: coord, Data: store, MTime: 0})
		if !ok {
			continue
		}
		plotGeometry(img, depth, pipeline, &result.Geometry, width, height)
	}

	return img
}

func plotGeometry(img *image.RGBA, depth []float32, p transform.Pipeline, g *meshing.GeometryData, width, height int) {
	for i := 0; i < g.VertexCount(); i++ {
		local := mgl32.Vec3{g.Vertices[i*3], g.Vertices[i*3+1], g.Vertices[i*3+2]}
		v := p.TransformVertex(local)

		if v.Clip.W() <= 0 {
			continue // atrás da câmera
		}

		// Divisão por perspectiva: clip → NDC.
		ndcX := v.Clip.X() / v.Clip.W()
		ndcY := v.Clip.Y() / v.Clip.W()
		ndcZ := v.Clip.Z() / v.Clip.W()
		if ndcX < -1 || ndcX > 1 || ndcY < -1 || ndcY > 1 || ndcZ < -1 || ndcZ > 1 {
			continue
		}

		px := int((ndcX*0.5 + 0.5) * float32(width))
		py := int((1 - (ndcY*0.5 + 0.5)) * float32(height))
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}

		idx := py*width + px
		if ndcZ >= depth[idx] {
			continue
		}
		depth[idx] = ndcZ

		normal := mgl32.Vec3{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
		diff := normal.Dot(lightDir)
		if diff < 0 {
			diff = 0
		}
		shade := 0.4 + 0.6*diff

		img.SetRGBA(px, py, color.RGBA{
			R: uint8(float32(g.Colors[i*4]) * shade),
			G: uint8(float32(g.Colors[i*4+1]) * shade),
			B: uint8(float32(g.Colors[i*4+2]) * shade),
			A: 255,
		})
	}
}

// WritePNG renderiza e grava o snapshot no caminho dado.
func WritePNG(path string, store *terrain.TerrainStore, cam Camera, width, height int) error {
	img := Render(store, cam, width, height)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("falha ao criar %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("falha ao codificar PNG: %w", err)
	}

	log.Printf("[Snapshot] Imagem %dx%d gravada em %s", width, height, path)
	return nil
}
