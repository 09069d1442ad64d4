package render

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PropInstance posiciona uma cópia de um modelo de prop no mundo.
type PropInstance struct {
	ModelName string
	Position  rl.Vector3
	Rotation  float32 // graus em torno de Y
	Scale     float32
}

// PropBatch agrupa instâncias do mesmo modelo para desenho instanciado.
type PropBatch struct {
	ModelName  string
	Mesh       rl.Mesh
	Material   rl.Material
	Transforms []rl.Matrix
}

// Draw emite 1 draw call para todas as instâncias do lote.
func (b *PropBatch) Draw() {
	count := len(b.Transforms)
	if count == 0 {
		return
	}
	rl.DrawMeshInstanced(b.Mesh, b.Material, b.Transforms, count)
}

// PropManager coordena os lotes de instanciamento de props (vegetação,
// pedras). Os modelos são registrados uma vez; as instâncias são
// reconstruídas a cada frame sem realocar os buffers.
type PropManager struct {
	Batches map[string]*PropBatch
}

func NewPropManager() *PropManager {
	return &PropManager{
		Batches: make(map[string]*PropBatch),
	}
}

// Register associa um nome de modelo à malha e material que o desenham.
func (pm *PropManager) Register(name string, mesh rl.Mesh, material rl.Material) {
	pm.Batches[name] = &PropBatch{
		ModelName:  name,
		Mesh:       mesh,
		Material:   material,
		Transforms: make([]rl.Matrix, 0, 2048),
	}
}

// Clear reseta os buffers sem desalocar.
func (pm *PropManager) Clear() {
	for _, b := range pm.Batches {
		b.Transforms = b.Transforms[:0]
	}
}

// AddInstance acrescenta uma instância com transformação T * R * S.
func (pm *PropManager) AddInstance(inst PropInstance) {
	batch, ok := pm.Batches[inst.ModelName]
	if !ok {
		return
	}

	if inst.Scale == 0 {
		inst.Scale = 1.0
	}
	scaleMat := rl.MatrixScale(inst.Scale, inst.Scale, inst.Scale)
	rotMat := rl.MatrixRotateY(inst.Rotation * (math.Pi / 180.0))
	transMat := rl.MatrixTranslate(inst.Position.X, inst.Position.Y, inst.Position.Z)

	// MatrixMultiply(A, B) é A * B; queremos T * R * S
	matrix := rl.MatrixMultiply(rotMat, scaleMat)
	matrix = rl.MatrixMultiply(transMat, matrix)

	batch.Transforms = append(batch.Transforms, matrix)
}

// DrawAll desenha todos os lotes não vazios.
func (pm *PropManager) DrawAll() {
	for _, b := range pm.Batches {
		b.Draw()
	}
}
