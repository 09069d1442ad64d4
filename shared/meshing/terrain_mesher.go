package meshing

import (
	"log"
	"sync"
	"sync/atomic"

	"TerraVista/shared/terrain"
	"TerraVista/shared/transform"
	"TerraVista/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// materialColors mapeia cada material para sua cor base.
var materialColors = map[terrain.Material][4]uint8{
	terrain.MaterialGrass: {92, 140, 60, 255},
	terrain.MaterialDirt:  {121, 92, 60, 255},
	terrain.MaterialRock:  {110, 110, 115, 255},
	terrain.MaterialSand:  {194, 178, 128, 255},
	terrain.MaterialSnow:  {235, 240, 245, 255},
}

// TerrainMesher transforma chunks de terreno em malhas usando um pool de
// workers. Requisições são deduplicadas por coordenada via UniqueQueue.
type TerrainMesher struct {
	queue   *util.UniqueQueue[util.ChunkCoord, Request]
	wake    chan struct{}
	results chan Result
	done    chan struct{}
	wg      sync.WaitGroup

	// normalMap ativa a variante com base tangente por vértice. A escolha
	// vale para todas as malhas produzidas por este mesher; espelha a
	// seleção de variante do shader. Atômico: o loop de render alterna a
	// variante enquanto os workers leem.
	normalMap atomic.Bool
}

// NewTerrainMesher cria o mesher com o número de workers dado.
func NewTerrainMesher(workers int, normalMap bool) *TerrainMesher {
	if workers < 1 {
		workers = 1
	}

	m := &TerrainMesher{
		queue: util.NewUniqueQueue[util.ChunkCoord, Request](),
		// Um slot de wake por worker: uma rajada de Enqueue depois de um
		// período ocioso acorda o pool inteiro, não só um worker.
		wake:    make(chan struct{}, workers),
		results: make(chan Result, 256),
		done:    make(chan struct{}),
	}
	m.normalMap.Store(normalMap)

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}

	log.Printf("[Mesher] Iniciado com %d workers (normal mapping: %v)", workers, normalMap)
	return m
}

// Enqueue agenda a geração de malha para um chunk. Pedidos repetidos para a
// mesma coordenada apenas atualizam a requisição pendente.
func (m *TerrainMesher) Enqueue(req Request) {
	m.queue.Enqueue(req.Origin, req)
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Results retorna o canal de malhas prontas.
func (m *TerrainMesher) Results() <-chan Result {
	return m.results
}

// Stop encerra os workers e aguarda a finalização.
func (m *TerrainMesher) Stop() {
	close(m.done)
	m.wg.Wait()
}

// Pending retorna o número de requisições na fila.
func (m *TerrainMesher) Pending() int {
	return m.queue.Len()
}

// SetNormalMap alterna a variante com base tangente. Vale para as malhas
// geradas a partir da próxima requisição; jobs em voo terminam na variante
// em que começaram.
func (m *TerrainMesher) SetNormalMap(enabled bool) {
	m.normalMap.Store(enabled)
}

// NormalMapping informa se a variante com base tangente está ativa.
func (m *TerrainMesher) NormalMapping() bool {
	return m.normalMap.Load()
}

func (m *TerrainMesher) worker() {
	defer m.wg.Done()

	for {
		_, req, ok := m.queue.Dequeue()
		if !ok {
			select {
			case <-m.done:
				return
			case <-m.wake:
				continue
			}
		}

		result, built := m.BuildChunkMesh(req)
		if !built {
			continue
		}

		select {
		case m.results <- result:
		case <-m.done:
			return
		}
	}
}

// BuildChunkMesh gera a malha de um único chunk. A grade tem 17x17 vértices
// (um por canto de coluna); a borda leste/sul consulta os chunks vizinhos
// para costurar as emendas.
func (m *TerrainMesher) BuildChunkMesh(req Request) (Result, bool) {
	chunk := req.Data.GetChunk(req.Origin)
	if chunk == nil {
		return Result{}, false
	}

	buf := GetMeshBuffer()
	defer PutMeshBuffer(buf)

	// O terreno é malhado direto em coordenadas de mundo (modelo identidade),
	// então o pipeline devolve o UV planar (world.xz) de cada vértice.
	var pipeline transform.NormalMappedPipeline
	pipeline.Model = mgl32.Ident4()
	pipeline.ViewProjection = mgl32.Ident4()
	pipeline.NormalMatrix = mgl32.Ident4()

	const n = util.ChunkSize
	normalMap := m.normalMap.Load()

	height := func(lx, lz int32) float32 {
		gx := req.Origin.X + lx
		gz := req.Origin.Z + lz
		if lx >= 0 && lz >= 0 && lx < n && lz < n {
			return chunk.Heights[lx][lz]
		}
		// Borda: tenta o vizinho; se ausente, estende a borda do chunk.
		if h, ok := req.Data.HeightAtColumn(gx, gz); ok {
			return h
		}
		cx := util.Min(util.Max(lx, 0), n-1)
		cz := util.Min(util.Max(lz, 0), n-1)
		return chunk.Heights[cx][cz]
	}

	material := func(lx, lz int32) terrain.Material {
		cx := lx
		cz := lz
		if cx >= n {
			cx = n - 1
		}
		if cz >= n {
			cz = n - 1
		}
		return chunk.Materials[cx][cz]
	}

	// Vértices 17x17
	for lx := int32(0); lx <= n; lx++ {
		for lz := int32(0); lz <= n; lz++ {
			h := height(lx, lz)
			world := util.ColumnToWorldPos(req.Origin.X+lx, req.Origin.Z+lz, h)
			local := mgl32.Vec3{world.X, world.Y, world.Z}

			// Normal da heightmap por diferenças centrais.
			hl := height(lx-1, lz)
			hr := height(lx+1, lz)
			hd := height(lx, lz-1)
			hu := height(lx, lz+1)
			localNormal := mgl32.Vec3{hl - hr, 2 * util.GameScale, hd - hu}

			v := pipeline.TransformVertex(local, localNormal)

			buf.AddVertex(
				[3]float32{v.World.X(), v.World.Y(), v.World.Z()},
				[3]float32{v.Normal.X(), v.Normal.Y(), v.Normal.Z()},
				[2]float32{v.UV.X(), v.UV.Y()},
				materialColors[material(lx, lz)],
			)
			if normalMap {
				buf.AddTangent(
					[3]float32{v.Tangent.X(), v.Tangent.Y(), v.Tangent.Z()},
					[3]float32{v.Bitangent.X(), v.Bitangent.Y(), v.Bitangent.Z()},
				)
			}
		}
	}

	// Quads 16x16, dois triângulos cada (sentido anti-horário visto de cima).
	stride := uint16(n + 1)
	for lx := uint16(0); lx < n; lx++ {
		for lz := uint16(0); lz < n; lz++ {
			i00 := lx*stride + lz
			i10 := (lx+1)*stride + lz
			i01 := lx*stride + lz + 1
			i11 := (lx+1)*stride + lz + 1

			buf.AddTriangle(i00, i01, i10)
			buf.AddTriangle(i10, i01, i11)
		}
	}

	return Result{
		Origin:   req.Origin,
		Geometry: buf.Geometry.Clone(),
		MTime:    req.MTime,
	}, true
}
