package meshing

import (
	"math"
	"testing"
	"time"

	"TerraVista/shared/terrain"
	"TerraVista/shared/util"
)

func buildTestStore(t *testing.T) (*terrain.TerrainStore, util.ChunkCoord) {
	t.Helper()
	store := terrain.NewTerrainStore()
	gen := terrain.NewGenerator(11)

	origin := util.NewChunkCoord(0, 0)
	store.PutChunk(gen.GenerateChunk(origin))
	// Vizinhos para costura das bordas leste/sul.
	store.PutChunk(gen.GenerateChunk(util.NewChunkCoord(util.ChunkSize, 0)))
	store.PutChunk(gen.GenerateChunk(util.NewChunkCoord(0, util.ChunkSize)))
	return store, origin
}

func TestBuildChunkMeshGeometry(t *testing.T) {
	store, origin := buildTestStore(t)

	m := NewTerrainMesher(1, false)
	defer m.Stop()

	result, ok := m.BuildChunkMesh(Request{Origin: origin, Data: store, MTime: 1})
	if !ok {
		t.Fatal("BuildChunkMesh não produziu resultado")
	}

	g := result.Geometry
	wantVerts := (util.ChunkSize + 1) * (util.ChunkSize + 1)
	if g.VertexCount() != wantVerts {
		t.Fatalf("VertexCount = %d, want %d", g.VertexCount(), wantVerts)
	}
	wantIndices := util.ChunkSize * util.ChunkSize * 6
	if len(g.Indices) != wantIndices {
		t.Fatalf("len(Indices) = %d, want %d", len(g.Indices), wantIndices)
	}

	for i := 0; i < g.VertexCount(); i++ {
		// Invariante planar: UV de cada vértice é (world.x, world.z).
		if g.UVs[i*2] != g.Vertices[i*3] || g.UVs[i*2+1] != g.Vertices[i*3+2] {
			t.Fatalf("vértice %d: UV (%v, %v) != world.xz (%v, %v)",
				i, g.UVs[i*2], g.UVs[i*2+1], g.Vertices[i*3], g.Vertices[i*3+2])
		}

		// Normais unitárias apontando para cima.
		nx, ny, nz := g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]
		l := math.Sqrt(float64(nx*nx + ny*ny + nz*nz))
		if math.Abs(l-1) > 1e-5 {
			t.Fatalf("vértice %d: normal com comprimento %v", i, l)
		}
		if ny <= 0 {
			t.Fatalf("vértice %d: normal de heightmap com Y não positivo (%v)", i, ny)
		}
	}

	// Sem normal mapping não há base tangente.
	if len(g.Tangents) != 0 || len(g.Bitangents) != 0 {
		t.Error("variante sem normal mapping não deveria ter tangentes")
	}
}

func TestBuildChunkMeshNormalMapVariant(t *testing.T) {
	store, origin := buildTestStore(t)

	m := NewTerrainMesher(1, true)
	defer m.Stop()

	result, ok := m.BuildChunkMesh(Request{Origin: origin, Data: store, MTime: 1})
	if !ok {
		t.Fatal("BuildChunkMesh não produziu resultado")
	}

	g := result.Geometry
	if len(g.Tangents) != len(g.Vertices) || len(g.Bitangents) != len(g.Vertices) {
		t.Fatalf("base tangente incompleta: %d/%d tangentes para %d posições",
			len(g.Tangents), len(g.Bitangents), len(g.Vertices))
	}

	for i := 0; i < g.VertexCount(); i++ {
		nx, ny, nz := g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]
		tx, ty, tz := g.Tangents[i*3], g.Tangents[i*3+1], g.Tangents[i*3+2]
		bx, by, bz := g.Bitangents[i*3], g.Bitangents[i*3+1], g.Bitangents[i*3+2]

		if dot := nx*tx + ny*ty + nz*tz; math.Abs(float64(dot)) > 1e-5 {
			t.Fatalf("vértice %d: tangente não perpendicular à normal (dot=%v)", i, dot)
		}
		if dot := nx*bx + ny*by + nz*bz; math.Abs(float64(dot)) > 1e-5 {
			t.Fatalf("vértice %d: bitangente não perpendicular à normal (dot=%v)", i, dot)
		}
	}
}

func TestMesherWorkerPool(t *testing.T) {
	store, origin := buildTestStore(t)

	m := NewTerrainMesher(2, false)
	defer m.Stop()

	m.Enqueue(Request{Origin: origin, Data: store, MTime: 1})
	// Chunk ausente no store não produz resultado.
	missing := util.NewChunkCoord(999*16, 999*16)
	m.Enqueue(Request{Origin: missing, Data: store, MTime: 1})

	select {
	case result := <-m.Results():
		if !result.Origin.Equals(origin) {
			t.Errorf("Origin = %v, want %v", result.Origin, origin)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout aguardando resultado do mesher")
	}

	select {
	case r := <-m.Results():
		t.Errorf("resultado inesperado: %v", r.Origin)
	case <-time.After(200 * time.Millisecond):
	}
}

// Alterna a variante enquanto workers constroem malhas; com o detector de
// corrida ativo isso pega qualquer leitura não sincronizada do flag.
func TestSetNormalMapDuranteBuild(t *testing.T) {
	store, origin := buildTestStore(t)

	m := NewTerrainMesher(2, false)
	defer m.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			m.SetNormalMap(i%2 == 0)
		}
	}()

	for i := 0; i < 50; i++ {
		result, ok := m.BuildChunkMesh(Request{Origin: origin, Data: store, MTime: int64(i)})
		if !ok {
			t.Fatal("BuildChunkMesh não produziu resultado")
		}
		// Cada malha é consistente com a variante lida no início do job.
		if len(result.Geometry.Tangents) != 0 &&
			len(result.Geometry.Tangents) != len(result.Geometry.Vertices) {
			t.Fatalf("malha com base tangente parcial: %d tangentes para %d posições",
				len(result.Geometry.Tangents), len(result.Geometry.Vertices))
		}
	}
	<-done

	m.SetNormalMap(true)
	if !m.NormalMapping() {
		t.Error("NormalMapping() = false após SetNormalMap(true)")
	}
	result, ok := m.BuildChunkMesh(Request{Origin: origin, Data: store, MTime: 999})
	if !ok {
		t.Fatal("BuildChunkMesh não produziu resultado")
	}
	if len(result.Geometry.Tangents) != len(result.Geometry.Vertices) {
		t.Error("variante com normal mapping deveria gerar tangentes")
	}
}

// Uma rajada de requisições depois de um período ocioso deve acordar o pool
// inteiro: o canal de wake tem um slot por worker.
func TestMesherBurstAcordaTodosWorkers(t *testing.T) {
	store := terrain.NewTerrainStore()
	gen := terrain.NewGenerator(7)

	var coords []util.ChunkCoord
	for x := int32(0); x < 3; x++ {
		for z := int32(0); z < 3; z++ {
			c := util.NewChunkCoord(x*util.ChunkSize, z*util.ChunkSize)
			store.PutChunk(gen.GenerateChunk(c))
			coords = append(coords, c)
		}
	}

	m := NewTerrainMesher(4, false)
	defer m.Stop()

	if cap(m.wake) != 4 {
		t.Fatalf("cap(wake) = %d, want %d (um slot por worker)", cap(m.wake), 4)
	}

	// Deixa os 4 workers ficarem ociosos antes da rajada.
	time.Sleep(100 * time.Millisecond)

	for _, c := range coords {
		m.Enqueue(Request{Origin: c, Data: store, MTime: 1})
	}

	for i := 0; i < len(coords); i++ {
		select {
		case <-m.Results():
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout: só %d de %d resultados chegaram", i, len(coords))
		}
	}
}
