// Package transform implementa em CPU o estágio de transformação de vértices
// do terreno, com a mesma semântica do shader GLSL usado pelo visor.
// É usado pelo mesher (UVs planares e base tangente), pelo snapshot headless
// e pelos testes que validam o contrato do shader.
package transform

import "github.com/go-gl/mathgl/mgl32"

// Pipeline agrupa as matrizes compartilhadas por todos os vértices de um
// draw call: o modelo (local → mundo) e a view-projection (mundo → clip).
type Pipeline struct {
	Model          mgl32.Mat4
	ViewProjection mgl32.Mat4
}

// Vertex é a saída por vértice do estágio básico.
type Vertex struct {
	// Clip é a posição em clip space (saída obrigatória da rasterização).
	Clip mgl32.Vec4
	// World é a posição em espaço de mundo, interpolada para estágios
	// posteriores.
	World mgl32.Vec3
	// UV é a projeção planar: (World.X, World.Z). A tiling da textura é
	// função direta da posição horizontal no mundo, sem configuração.
	UV mgl32.Vec2
}

// TransformVertex transforma uma posição local em clip space e deriva as
// saídas interpoladas. A função é total: matrizes degeneradas produzem
// NaN/zero silenciosamente, nunca erro (validação é responsabilidade de quem
// monta o pipeline).
func (p Pipeline) TransformVertex(local mgl32.Vec3) Vertex {
	world := p.Model.Mul4x1(local.Vec4(1))
	return Vertex{
		Clip:  p.ViewProjection.Mul4x1(world),
		World: world.Vec3(),
		UV:    mgl32.Vec2{world.X(), world.Z()},
	}
}

// NormalMappedPipeline é a variante do estágio com normal mapping. A escolha
// da variante acontece na construção do pipeline (equivalente ao #define no
// shader); TransformVertex não tem branch em runtime.
type NormalMappedPipeline struct {
	Pipeline
	// NormalMatrix é tipicamente a inversa-transposta de Model.
	NormalMatrix mgl32.Mat4
}

// NormalMappedVertex estende Vertex com a base tangente em espaço de mundo.
type NormalMappedVertex struct {
	Vertex
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// TransformVertex transforma posição e normal locais, produzindo também a
// base tangente usada pelo fragment shader para normal mapping.
func (p NormalMappedPipeline) TransformVertex(local, localNormal mgl32.Vec3) NormalMappedVertex {
	v := p.Pipeline.TransformVertex(local)
	normal := p.NormalMatrix.Mat3().Mul3x1(localNormal).Normalize()
	tangent, bitangent := TangentBasis(normal)
	return NormalMappedVertex{
		Vertex:    v,
		Normal:    normal,
		Tangent:   tangent,
		Bitangent: bitangent,
	}
}

// NormalMatrix retorna a matriz de normais para um dado modelo
// (inversa-transposta). Para uma matriz singular o resultado degenera em
// zeros/NaN, que se propagam pelo pipeline sem detecção.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	return model.Inv().Transpose()
}
