// Package meshing converte chunks de terreno em geometria pronta para a GPU
// e carrega malhas externas (OBJ) para os props do visor.
package meshing

import (
	"sync"

	"TerraVista/shared/terrain"
	"TerraVista/shared/util"
)

// GeometryData contém os buffers de vértices para uma malha.
type GeometryData struct {
	Vertices   []float32
	Normals    []float32
	Colors     []uint8
	UVs        []float32
	Tangents   []float32 // presentes apenas na variante com normal mapping
	Bitangents []float32
	Indices    []uint16
}

// VertexCount retorna o número de vértices no buffer.
func (g *GeometryData) VertexCount() int {
	return len(g.Vertices) / 3
}

// Clone cria uma cópia profunda dos dados para evitar corrupção de memória
// quando o buffer de origem volta para o pool.
func (g GeometryData) Clone() GeometryData {
	clone := GeometryData{}
	if len(g.Vertices) > 0 {
		clone.Vertices = append(make([]float32, 0, len(g.Vertices)), g.Vertices...)
	}
	if len(g.Normals) > 0 {
		clone.Normals = append(make([]float32, 0, len(g.Normals)), g.Normals...)
	}
	if len(g.Colors) > 0 {
		clone.Colors = append(make([]uint8, 0, len(g.Colors)), g.Colors...)
	}
	if len(g.UVs) > 0 {
		clone.UVs = append(make([]float32, 0, len(g.UVs)), g.UVs...)
	}
	if len(g.Tangents) > 0 {
		clone.Tangents = append(make([]float32, 0, len(g.Tangents)), g.Tangents...)
	}
	if len(g.Bitangents) > 0 {
		clone.Bitangents = append(make([]float32, 0, len(g.Bitangents)), g.Bitangents...)
	}
	if len(g.Indices) > 0 {
		clone.Indices = append(make([]uint16, 0, len(g.Indices)), g.Indices...)
	}
	return clone
}

// Request representa um pedido de processamento de malha para um chunk.
type Request struct {
	Origin util.ChunkCoord
	Data   *terrain.TerrainStore
	MTime  int64 // Versão dos dados no momento da requisição
}

// Result contém a geometria gerada para um chunk.
type Result struct {
	Origin   util.ChunkCoord
	Geometry GeometryData
	MTime    int64
}

// Mesher é a interface para geradores de malha.
type Mesher interface {
	Enqueue(req Request)
	Results() <-chan Result
	Stop()
}

// Pool global para reciclar MeshBuffers e reduzir pressão de GC.
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{
			Geometry: GeometryData{
				Vertices: make([]float32, 0, 4096),
				Normals:  make([]float32, 0, 4096),
				Colors:   make([]uint8, 0, 4096),
				UVs:      make([]float32, 0, 4096),
			},
		}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio para meshing.
func GetMeshBuffer() *MeshBuffer {
	return meshBufferPool.Get().(*MeshBuffer)
}

// PutMeshBuffer zera os buffers e devolve a memória para o pool.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	b.Geometry.Vertices = b.Geometry.Vertices[:0]
	b.Geometry.Normals = b.Geometry.Normals[:0]
	b.Geometry.Colors = b.Geometry.Colors[:0]
	b.Geometry.UVs = b.Geometry.UVs[:0]
	b.Geometry.Tangents = b.Geometry.Tangents[:0]
	b.Geometry.Bitangents = b.Geometry.Bitangents[:0]
	b.Geometry.Indices = b.Geometry.Indices[:0]
	meshBufferPool.Put(b)
}

// MeshBuffer auxilia na construção de malhas indexadas.
type MeshBuffer struct {
	Geometry GeometryData
}

// AddVertex adiciona um vértice completo e retorna seu índice.
func (b *MeshBuffer) AddVertex(pos, normal [3]float32, uv [2]float32, color [4]uint8) uint16 {
	idx := uint16(len(b.Geometry.Vertices) / 3)
	b.Geometry.Vertices = append(b.Geometry.Vertices, pos[0], pos[1], pos[2])
	b.Geometry.Normals = append(b.Geometry.Normals, normal[0], normal[1], normal[2])
	b.Geometry.UVs = append(b.Geometry.UVs, uv[0], uv[1])
	b.Geometry.Colors = append(b.Geometry.Colors, color[0], color[1], color[2], color[3])
	return idx
}

// AddTangent adiciona a base tangente do último vértice inserido.
// Tem que ser chamado uma vez por vértice quando a variante de normal
// mapping está ativa.
func (b *MeshBuffer) AddTangent(tangent, bitangent [3]float32) {
	b.Geometry.Tangents = append(b.Geometry.Tangents, tangent[0], tangent[1], tangent[2])
	b.Geometry.Bitangents = append(b.Geometry.Bitangents, bitangent[0], bitangent[1], bitangent[2])
}

// AddTriangle adiciona um triângulo por índices.
func (b *MeshBuffer) AddTriangle(i0, i1, i2 uint16) {
	b.Geometry.Indices = append(b.Geometry.Indices, i0, i1, i2)
}
