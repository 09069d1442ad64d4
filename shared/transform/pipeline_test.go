package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func vec3Near(a, b mgl32.Vec3, tol float32) bool {
	return float32(math.Abs(float64(a.X()-b.X()))) <= tol &&
		float32(math.Abs(float64(a.Y()-b.Y()))) <= tol &&
		float32(math.Abs(float64(a.Z()-b.Z()))) <= tol
}

func TestTransformVertexIdentity(t *testing.T) {
	p := Pipeline{
		Model:          mgl32.Ident4(),
		ViewProjection: mgl32.Ident4(),
	}

	tests := []struct {
		local mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 0}},
		{mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{2, 5, 3}},
		{mgl32.Vec3{-7.5, 0.25, 13}},
	}

	for _, tt := range tests {
		v := p.TransformVertex(tt.local)

		// Com matrizes identidade o clip space é exatamente a posição
		// homogênea local.
		wantClip := tt.local.Vec4(1)
		if v.Clip != wantClip {
			t.Errorf("Clip(%v) = %v, want %v", tt.local, v.Clip, wantClip)
		}
		if v.World != tt.local {
			t.Errorf("World(%v) = %v, want %v", tt.local, v.World, tt.local)
		}
		wantUV := mgl32.Vec2{tt.local.X(), tt.local.Z()}
		if v.UV != wantUV {
			t.Errorf("UV(%v) = %v, want %v", tt.local, v.UV, wantUV)
		}
	}
}

func TestTransformVertexWorldAndUV(t *testing.T) {
	tests := []struct {
		name      string
		model     mgl32.Mat4
		local     mgl32.Vec3
		wantWorld mgl32.Vec3
		wantUV    mgl32.Vec2
	}{
		{
			name:      "identidade",
			model:     mgl32.Ident4(),
			local:     mgl32.Vec3{1, 0, 0},
			wantWorld: mgl32.Vec3{1, 0, 0},
			wantUV:    mgl32.Vec2{1, 0},
		},
		{
			name:      "escala uniforme x2",
			model:     mgl32.Scale3D(2, 2, 2),
			local:     mgl32.Vec3{2, 5, 3},
			wantWorld: mgl32.Vec3{4, 10, 6},
			wantUV:    mgl32.Vec2{4, 6},
		},
		{
			name:      "translacao",
			model:     mgl32.Translate3D(10, -2, 7),
			local:     mgl32.Vec3{1, 1, 1},
			wantWorld: mgl32.Vec3{11, -1, 8},
			wantUV:    mgl32.Vec2{11, 8},
		},
		{
			name:      "escala seguida de translacao",
			model:     mgl32.Translate3D(5, 0, -5).Mul4(mgl32.Scale3D(3, 1, 3)),
			local:     mgl32.Vec3{1, 2, 1},
			wantWorld: mgl32.Vec3{8, 2, -2},
			wantUV:    mgl32.Vec2{8, -2},
		},
	}

	for _, tt := range tests {
		p := Pipeline{Model: tt.model, ViewProjection: mgl32.Ident4()}
		v := p.TransformVertex(tt.local)

		if v.World != tt.wantWorld {
			t.Errorf("%s: World = %v, want %v", tt.name, v.World, tt.wantWorld)
		}
		if v.UV != tt.wantUV {
			t.Errorf("%s: UV = %v, want %v", tt.name, v.UV, tt.wantUV)
		}
		// O UV tem que ser exatamente (World.X, World.Z), sem tolerância.
		if v.UV.X() != v.World.X() || v.UV.Y() != v.World.Z() {
			t.Errorf("%s: UV %v não corresponde a (World.X, World.Z) de %v", tt.name, v.UV, v.World)
		}
	}
}

func TestTransformVertexClipMatchesViewProjection(t *testing.T) {
	// Um vértice exatamente no alvo da câmera tem que projetar no centro do
	// NDC (x, y ~ 0) depois da divisão por w.
	target := mgl32.Vec3{8, 2, -3}
	view := mgl32.LookAtV(mgl32.Vec3{20, 15, 10}, target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 500)

	p := Pipeline{
		Model:          mgl32.Ident4(),
		ViewProjection: proj.Mul4(view),
	}

	v := p.TransformVertex(target)
	if v.Clip.W() <= 0 {
		t.Fatalf("Clip.W = %v, esperado positivo (vértice na frente da câmera)", v.Clip.W())
	}

	ndcX := v.Clip.X() / v.Clip.W()
	ndcY := v.Clip.Y() / v.Clip.W()
	if math.Abs(float64(ndcX)) > eps || math.Abs(float64(ndcY)) > eps {
		t.Errorf("NDC do alvo = (%v, %v), want (0, 0)", ndcX, ndcY)
	}
}

func TestNormalMappedTransform(t *testing.T) {
	model := mgl32.Translate3D(4, 0, 4).Mul4(mgl32.Scale3D(2, 2, 2))
	p := NormalMappedPipeline{
		Pipeline:     Pipeline{Model: model, ViewProjection: mgl32.Ident4()},
		NormalMatrix: NormalMatrix(model),
	}

	localNormal := mgl32.Vec3{0, 3, 0} // não unitária de propósito
	v := p.TransformVertex(mgl32.Vec3{1, 0, 1}, localNormal)

	// Normal de saída tem que ser unitária.
	if got := v.Normal.Len(); math.Abs(float64(got-1)) > eps {
		t.Errorf("len(Normal) = %v, want 1", got)
	}
	if !vec3Near(v.Normal, mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("Normal = %v, want (0, 1, 0)", v.Normal)
	}

	// Base mutuamente perpendicular (produto escalar ~ 0).
	if got := v.Tangent.Dot(v.Normal); math.Abs(float64(got)) > eps {
		t.Errorf("Tangent·Normal = %v, want 0", got)
	}
	if got := v.Bitangent.Dot(v.Normal); math.Abs(float64(got)) > eps {
		t.Errorf("Bitangent·Normal = %v, want 0", got)
	}
	if got := v.Bitangent.Dot(v.Tangent); math.Abs(float64(got)) > eps {
		t.Errorf("Bitangent·Tangent = %v, want 0", got)
	}

	// As saídas básicas continuam iguais às do pipeline sem normal mapping.
	base := p.Pipeline.TransformVertex(mgl32.Vec3{1, 0, 1})
	if v.Vertex != base {
		t.Errorf("saídas básicas divergem: %+v != %+v", v.Vertex, base)
	}
}

func TestNormalMatrix(t *testing.T) {
	// Para rotação pura a inversa-transposta é a própria rotação.
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(30))
	nm := NormalMatrix(rot)
	for i := 0; i < 16; i++ {
		if math.Abs(float64(nm[i]-rot[i])) > eps {
			t.Fatalf("NormalMatrix de rotação pura difere no índice %d: %v != %v", i, nm[i], rot[i])
		}
	}

	// Para escala não uniforme a normal transformada continua perpendicular
	// à superfície: plano inclinado escalado em Y.
	model := mgl32.Scale3D(1, 4, 1)
	p := NormalMappedPipeline{
		Pipeline:     Pipeline{Model: model, ViewProjection: mgl32.Ident4()},
		NormalMatrix: NormalMatrix(model),
	}
	// Normal de um plano com inclinação 45 graus no eixo XZ→Y.
	slanted := mgl32.Vec3{0, 1, 1}.Normalize()
	v := p.TransformVertex(mgl32.Vec3{0, 0, 0}, slanted)

	// A superfície (0,-1,1) vira (0,-4,1) no mundo; a normal transformada
	// tem que permanecer perpendicular a ela.
	surface := model.Mat3().Mul3x1(mgl32.Vec3{0, -1, 1})
	if got := v.Normal.Dot(surface); math.Abs(float64(got)) > 1e-4 {
		t.Errorf("normal transformada não é perpendicular à superfície: dot = %v", got)
	}
}
