package transform

import "github.com/go-gl/mathgl/mgl32"

// referenceAxis é o eixo fixo usado para construir a tangente.
// Convenção herdada do shader de terreno: funciona porque normais de
// heightmap são dominadas pelo eixo Y e nunca se alinham com +X na prática.
var referenceAxis = mgl32.Vec3{1, 0, 0}

// TangentBasis deriva tangente e bitangente a partir da normal em espaço de
// mundo:
//
//	tangent   = cross((1,0,0), normal)
//	bitangent = cross(normal, tangent)
//
// Nenhum dos dois vetores é renormalizado. Se a normal for paralela a
// (1,0,0) a tangente degenera em comprimento zero (e a bitangente junto);
// esse é o comportamento documentado do estágio, não um bug a corrigir.
func TangentBasis(normal mgl32.Vec3) (tangent, bitangent mgl32.Vec3) {
	tangent = referenceAxis.Cross(normal)
	bitangent = normal.Cross(tangent)
	return tangent, bitangent
}
