package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTangentBasis(t *testing.T) {
	tests := []struct {
		name   string
		normal mgl32.Vec3
	}{
		{"para cima", mgl32.Vec3{0, 1, 0}},
		{"para baixo", mgl32.Vec3{0, -1, 0}},
		{"inclinada XZ", mgl32.Vec3{0, 0.8, 0.6}},
		{"inclinada XY", mgl32.Vec3{0.6, 0.8, 0}},
		{"diagonal", mgl32.Vec3{1, 1, 1}.Normalize()},
	}

	for _, tt := range tests {
		tangent, bitangent := TangentBasis(tt.normal)

		if tangent.Len() < eps {
			t.Errorf("%s: tangente degenerada para normal %v", tt.name, tt.normal)
			continue
		}
		if got := tangent.Dot(tt.normal); math.Abs(float64(got)) > eps {
			t.Errorf("%s: tangent·normal = %v, want 0", tt.name, got)
		}
		if got := bitangent.Dot(tt.normal); math.Abs(float64(got)) > eps {
			t.Errorf("%s: bitangent·normal = %v, want 0", tt.name, got)
		}
		if got := bitangent.Dot(tangent); math.Abs(float64(got)) > eps {
			t.Errorf("%s: bitangent·tangent = %v, want 0", tt.name, got)
		}

		// Base destra: cross(tangent, bitangent) aponta no sentido da normal.
		handed := tangent.Cross(bitangent)
		if handed.Dot(tt.normal) <= 0 {
			t.Errorf("%s: base não é destra (cross(T,B)·N = %v)", tt.name, handed.Dot(tt.normal))
		}
	}
}

func TestTangentBasisDegenerate(t *testing.T) {
	// Normal paralela ao eixo de referência (1,0,0): a tangente degenera em
	// comprimento zero e a bitangente junto. Comportamento documentado do
	// estágio; tem que ser reproduzido, não corrigido.
	for _, normal := range []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {5, 0, 0}} {
		tangent, bitangent := TangentBasis(normal)

		zero := mgl32.Vec3{}
		if tangent != zero {
			t.Errorf("tangente para normal %v = %v, want (0,0,0)", normal, tangent)
		}
		if bitangent != zero {
			t.Errorf("bitangente para normal %v = %v, want (0,0,0)", normal, bitangent)
		}
	}
}

func TestNormalMappedPipelineDegenerate(t *testing.T) {
	p := NormalMappedPipeline{
		Pipeline:     Pipeline{Model: mgl32.Ident4(), ViewProjection: mgl32.Ident4()},
		NormalMatrix: mgl32.Ident4(),
	}

	v := p.TransformVertex(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})

	zero := mgl32.Vec3{}
	if v.Tangent != zero || v.Bitangent != zero {
		t.Errorf("base para normal (1,0,0): T=%v B=%v, want ambos (0,0,0)", v.Tangent, v.Bitangent)
	}
	// A normal em si continua válida e unitária.
	if got := v.Normal.Len(); math.Abs(float64(got-1)) > eps {
		t.Errorf("len(Normal) = %v, want 1", got)
	}
}
