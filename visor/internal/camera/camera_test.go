package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func pipelineExpected(c *CameraController, proj mgl32.Mat4) mgl32.Mat4 {
	eye := mgl32.Vec3{c.RLCamera.Position.X, c.RLCamera.Position.Y, c.RLCamera.Position.Z}
	target := mgl32.Vec3{c.RLCamera.Target.X, c.RLCamera.Target.Y, c.RLCamera.Target.Z}
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

func TestPipelinePerspectiva(t *testing.T) {
	c := New(45)
	aspect := float32(16.0 / 9.0)

	got := c.Pipeline(aspect).ViewProjection
	want := pipelineExpected(c, mgl32.Perspective(mgl32.DegToRad(c.RLCamera.Fovy), aspect, c.Near, c.Far))

	if got != want {
		t.Errorf("ViewProjection perspectiva =\n%v\nwant\n%v", got, want)
	}
}

func TestPipelineOrtografica(t *testing.T) {
	c := New(45)
	c.SetMode(ModeOrthographic)
	aspect := float32(16.0 / 9.0)

	// Convenção do Raylib: Fovy vira a altura do volume ortográfico.
	top := c.RLCamera.Fovy / 2
	right := top * aspect
	want := pipelineExpected(c, mgl32.Ortho(-right, right, -top, top, c.Near, c.Far))

	got := c.Pipeline(aspect).ViewProjection
	if got != want {
		t.Errorf("ViewProjection ortográfica =\n%v\nwant\n%v", got, want)
	}

	// Projeção ortográfica preserva w: a última linha da VP fica afim.
	if got[3] != 0 || got[7] != 0 || got[11] != 0 || got[15] != 1 {
		t.Errorf("linha w da VP ortográfica = (%v, %v, %v, %v), want (0, 0, 0, 1)",
			got[3], got[7], got[11], got[15])
	}
}

func TestPipelineVoltaParaPerspectiva(t *testing.T) {
	c := New(60)
	aspect := float32(4.0 / 3.0)

	c.SetMode(ModeOrthographic)
	c.SetMode(ModePerspective)

	got := c.Pipeline(aspect).ViewProjection
	want := pipelineExpected(c, mgl32.Perspective(mgl32.DegToRad(c.RLCamera.Fovy), aspect, c.Near, c.Far))
	if got != want {
		t.Error("alternar para ortográfica e voltar deveria restaurar a projeção perspectiva")
	}
}
