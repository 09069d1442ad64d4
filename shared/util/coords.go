package util

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vector3 é um alias para rl.Vector3 para conveniência
type Vector3 = rl.Vector3

// ChunkCoord identifica um chunk de terreno no plano horizontal.
// X = leste/oeste, Z = norte/sul (Y é sempre a altura no mundo 3D).
type ChunkCoord struct {
	X, Z int32
}

// NewChunkCoord cria uma nova coordenada de chunk.
func NewChunkCoord(x, z int32) ChunkCoord {
	return ChunkCoord{X: x, Z: z}
}

// Add soma duas coordenadas.
func (c ChunkCoord) Add(other ChunkCoord) ChunkCoord {
	return ChunkCoord{X: c.X + other.X, Z: c.Z + other.Z}
}

// Sub subtrai duas coordenadas.
func (c ChunkCoord) Sub(other ChunkCoord) ChunkCoord {
	return ChunkCoord{X: c.X - other.X, Z: c.Z - other.Z}
}

// Equals verifica igualdade entre coordenadas.
func (c ChunkCoord) Equals(other ChunkCoord) bool {
	return c.X == other.X && c.Z == other.Z
}

// String retorna a representação em string da coordenada.
func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Z)
}

// ChunkSize é o lado de um chunk de terreno em colunas (16x16).
const ChunkSize = 16

// GameScale controla a escala de conversão coluna → mundo 3D.
const GameScale float32 = 1.0

// ChunkOrigin retorna a coordenada do chunk que contém a coluna (x, z).
func ChunkOrigin(x, z int32) ChunkCoord {
	return ChunkCoord{
		X: int32(math.Floor(float64(x)/float64(ChunkSize))) * ChunkSize,
		Z: int32(math.Floor(float64(z)/float64(ChunkSize))) * ChunkSize,
	}
}

// ColumnToWorldPos converte uma coluna de terreno (x, z) com altura h para
// posição 3D no mundo. O plano do chão é XZ e a altura vai no eixo Y.
func ColumnToWorldPos(x, z int32, h float32) rl.Vector3 {
	return rl.Vector3{
		X: float32(x) * GameScale,
		Y: h * GameScale,
		Z: float32(z) * GameScale,
	}
}

// WorldToColumn converte uma posição 3D de volta para a coluna (x, z).
func WorldToColumn(pos rl.Vector3) (int32, int32) {
	x := int32(math.Floor(float64(pos.X / GameScale)))
	z := int32(math.Floor(float64(pos.Z / GameScale)))
	return x, z
}

// Between verifica se um valor está entre um limite inferior e superior.
func Between(lower, t, upper float32) bool {
	return t >= lower && t <= upper
}
