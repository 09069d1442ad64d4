package render

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestParticleDataValidate(t *testing.T) {
	ok := ParticleData{
		StartPositions:  make([]rl.Vector3, 3),
		StartVelocities: make([]rl.Vector3, 3),
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	bad := ParticleData{
		StartPositions:  make([]rl.Vector3, 3),
		StartVelocities: make([]rl.Vector3, 2),
	}
	if err := bad.Validate(); err == nil {
		t.Error("contagens diferentes deveriam falhar")
	}

	badColors := ParticleData{
		StartPositions:  make([]rl.Vector3, 3),
		StartVelocities: make([]rl.Vector3, 3),
		Colors:          make([]rl.Color, 1),
	}
	if err := badColors.Validate(); err == nil {
		t.Error("cores com contagem diferente deveriam falhar")
	}
}

func TestParticleKinematics(t *testing.T) {
	ps := NewParticleSystem(0)
	err := ps.SetData(ParticleData{
		StartPositions:  []rl.Vector3{{X: 1, Y: 2, Z: 3}},
		StartVelocities: []rl.Vector3{{X: 2, Y: 10, Z: 0}},
	})
	if err != nil {
		t.Fatalf("SetData: %v", err)
	}
	ps.Acceleration = rl.Vector3{X: 0, Y: -10, Z: 0}

	ps.Time = 2.0 // avança o relógio sem Update para não reciclar

	got := ps.PositionAt(0)
	// p = p0 + v0*t + a*t²/2 com t=2: x = 1+4, y = 2+20-20, z = 3
	want := rl.Vector3{X: 5, Y: 2, Z: 3}

	const eps = 1e-5
	if math.Abs(float64(got.X-want.X)) > eps ||
		math.Abs(float64(got.Y-want.Y)) > eps ||
		math.Abs(float64(got.Z-want.Z)) > eps {
		t.Errorf("PositionAt(0) = %v, want %v", got, want)
	}
}

func TestParticleDefaultGravity(t *testing.T) {
	ps := NewParticleSystem(1)
	if ps.Acceleration.Y != -9.82 || ps.Acceleration.X != 0 || ps.Acceleration.Z != 0 {
		t.Errorf("aceleração padrão = %v, want (0, -9.82, 0)", ps.Acceleration)
	}
}

func TestParticleSetDataRejectsInvalid(t *testing.T) {
	ps := NewParticleSystem(4)
	err := ps.SetData(ParticleData{
		StartPositions:  make([]rl.Vector3, 2),
		StartVelocities: make([]rl.Vector3, 5),
	})
	if err == nil {
		t.Fatal("SetData deveria rejeitar contagens diferentes")
	}
	if ps.MaxParticles != 4 {
		t.Errorf("lote anterior deveria ser mantido, MaxParticles = %d", ps.MaxParticles)
	}
}
