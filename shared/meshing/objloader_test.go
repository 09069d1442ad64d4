package meshing

import (
	"math"
	"strings"
	"testing"
)

const objWithNormals = `# quad com normais
o Chao
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vn 0 1 0
f 1//1 2//1 3//1 4//1
`

const objWithoutNormals = `o Rampa
v 0 0 0
v 2 0 0
v 0 2 2
f 1 2 3
`

func TestLoadOBJWithNormals(t *testing.T) {
	meshes, err := LoadOBJ(strings.NewReader(objWithNormals))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("len(meshes) = %d, want 1", len(meshes))
	}

	g := meshes[0].Geometry
	if g.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4 (vértices deduplicados)", g.VertexCount())
	}
	// Quad triangulado em leque: 2 triângulos.
	if len(g.Indices) != 6 {
		t.Errorf("len(Indices) = %d, want 6", len(g.Indices))
	}

	for i := 0; i < g.VertexCount(); i++ {
		if g.Normals[i*3] != 0 || g.Normals[i*3+1] != 1 || g.Normals[i*3+2] != 0 {
			t.Errorf("vértice %d: normal = (%v, %v, %v), want (0, 1, 0)",
				i, g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2])
		}
	}
}

func TestLoadOBJComputesNormals(t *testing.T) {
	meshes, err := LoadOBJ(strings.NewReader(objWithoutNormals))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	g := meshes[0].Geometry
	if g.VertexCount() != 3 {
		t.Fatalf("VertexCount = %d, want 3", g.VertexCount())
	}

	for i := 0; i < g.VertexCount(); i++ {
		nx, ny, nz := g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]
		l := math.Sqrt(float64(nx*nx + ny*ny + nz*nz))
		if math.Abs(l-1) > 1e-5 {
			t.Errorf("vértice %d: normal computada com comprimento %v", i, l)
		}
	}
}

func TestLoadOBJEmpty(t *testing.T) {
	if _, err := LoadOBJ(strings.NewReader("")); err == nil {
		t.Error("LoadOBJ de fonte vazia deveria falhar")
	}
}

func TestComputeNormalsFlatTriangle(t *testing.T) {
	g := GeometryData{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1},
		Normals:  make([]float32, 9),
		Indices:  []uint16{0, 2, 1},
	}
	computeNormals(&g)

	// Triângulo no plano XZ com winding 0→2→1: normal (0, 1, 0).
	for i := 0; i < 3; i++ {
		if g.Normals[i*3] != 0 || g.Normals[i*3+1] != 1 || g.Normals[i*3+2] != 0 {
			t.Fatalf("vértice %d: normal = (%v, %v, %v), want (0, 1, 0)",
				i, g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2])
		}
	}
}
