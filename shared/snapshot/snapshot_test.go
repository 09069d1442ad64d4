package snapshot

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"TerraVista/shared/terrain"
	"TerraVista/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

func buildStore() *terrain.TerrainStore {
	store := terrain.NewTerrainStore()
	gen := terrain.NewGenerator(5)
	for x := int32(0); x < 2; x++ {
		for z := int32(0); z < 2; z++ {
			store.PutChunk(gen.GenerateChunk(util.NewChunkCoord(x*util.ChunkSize, z*util.ChunkSize)))
		}
	}
	return store
}

func TestRenderProducesPixels(t *testing.T) {
	store := buildStore()
	cam := DefaultCamera(mgl32.Vec3{16, 0, 16}, 48)

	img := Render(store, cam, 128, 96)

	bg := color.RGBA{30, 30, 40, 255}
	painted := 0
	for y := 0; y < 96; y++ {
		for x := 0; x < 128; x++ {
			if img.RGBAAt(x, y) != bg {
				painted++
			}
		}
	}

	if painted == 0 {
		t.Fatal("snapshot sem nenhum pixel de terreno")
	}
}

func TestCameraPipelineCentersTarget(t *testing.T) {
	cam := DefaultCamera(mgl32.Vec3{8, 4, 8}, 32)
	p := cam.Pipeline(1.0)

	v := p.TransformVertex(cam.Target)
	if v.Clip.W() <= 0 {
		t.Fatal("alvo atrás da câmera")
	}

	ndcX := v.Clip.X() / v.Clip.W()
	ndcY := v.Clip.Y() / v.Clip.W()
	if ndcX > 1e-4 || ndcX < -1e-4 || ndcY > 1e-4 || ndcY < -1e-4 {
		t.Errorf("alvo projetado em NDC (%v, %v), want centro", ndcX, ndcY)
	}
}

func TestWritePNG(t *testing.T) {
	store := buildStore()
	cam := DefaultCamera(mgl32.Vec3{16, 0, 16}, 48)

	path := filepath.Join(t.TempDir(), "mapa.png")
	if err := WritePNG(path, store, cam, 64, 64); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PNG vazio")
	}
}
