package render

import (
	"fmt"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleData descreve o estado inicial de um lote de partículas.
// Posições e velocidades andam em pares; cores são opcionais.
type ParticleData struct {
	StartPositions  []rl.Vector3
	StartVelocities []rl.Vector3
	Colors          []rl.Color
}

// Validate confere que os buffers têm contagens compatíveis.
func (d ParticleData) Validate() error {
	if len(d.StartVelocities) != len(d.StartPositions) {
		return fmt.Errorf("velocidades (%d) e posições (%d) com contagens diferentes",
			len(d.StartVelocities), len(d.StartPositions))
	}
	if d.Colors != nil && len(d.Colors) != len(d.StartPositions) {
		return fmt.Errorf("cores (%d) e posições (%d) com contagens diferentes",
			len(d.Colors), len(d.StartPositions))
	}
	return nil
}

type WeatherType int

const (
	WeatherNone WeatherType = iota
	WeatherRain
	WeatherSnow
)

// ParticleSystem anima partículas de clima por cinemática fechada:
// p(t) = p0 + v0·t + a·t²/2. Nada de integração por frame — a posição é
// função do tempo desde o nascimento, então o resultado não depende do
// framerate.
type ParticleSystem struct {
	Data         ParticleData
	BirthTimes   []float32
	Acceleration rl.Vector3
	Time         float32
	Type         WeatherType
	MaxParticles int
}

func NewParticleSystem(max int) *ParticleSystem {
	ps := &ParticleSystem{
		Data: ParticleData{
			StartPositions:  make([]rl.Vector3, max),
			StartVelocities: make([]rl.Vector3, max),
		},
		BirthTimes:   make([]float32, max),
		Acceleration: rl.Vector3{X: 0, Y: -9.82, Z: 0},
		Type:         WeatherSnow,
		MaxParticles: max,
	}
	for i := 0; i < max; i++ {
		ps.resetParticle(i, rl.Vector3{})
	}
	return ps
}

// SetData substitui o lote inteiro depois de validar as contagens.
func (ps *ParticleSystem) SetData(data ParticleData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	ps.Data = data
	ps.MaxParticles = len(data.StartPositions)
	ps.BirthTimes = make([]float32, ps.MaxParticles)
	for i := range ps.BirthTimes {
		ps.BirthTimes[i] = ps.Time
	}
	return nil
}

func (ps *ParticleSystem) resetParticle(i int, center rl.Vector3) {
	ps.Data.StartPositions[i] = rl.Vector3{
		X: center.X + rand.Float32()*200 - 100,
		Y: rand.Float32()*50 + 20,
		Z: center.Z + rand.Float32()*200 - 100,
	}
	if ps.Type == WeatherRain {
		ps.Data.StartVelocities[i] = rl.Vector3{X: 0, Y: -20 - rand.Float32()*10, Z: 0}
	} else {
		ps.Data.StartVelocities[i] = rl.Vector3{
			X: rand.Float32()*2 - 1,
			Y: -2 - rand.Float32()*2,
			Z: rand.Float32()*2 - 1,
		}
	}
	ps.BirthTimes[i] = ps.Time
}

// PositionAt avalia a cinemática da partícula i no tempo atual.
func (ps *ParticleSystem) PositionAt(i int) rl.Vector3 {
	t := ps.Time - ps.BirthTimes[i]
	p0 := ps.Data.StartPositions[i]
	v0 := ps.Data.StartVelocities[i]
	a := ps.Acceleration
	half := t * t * 0.5
	return rl.Vector3{
		X: p0.X + v0.X*t + a.X*half,
		Y: p0.Y + v0.Y*t + a.Y*half,
		Z: p0.Z + v0.Z*t + a.Z*half,
	}
}

// Update avança o relógio e recicla partículas que caíram abaixo do chão.
func (ps *ParticleSystem) Update(dt float32, camPos rl.Vector3) {
	ps.Time += dt
	for i := 0; i < ps.MaxParticles; i++ {
		if ps.PositionAt(i).Y < -10 {
			ps.resetParticle(i, camPos)
		}
	}
}

func (ps *ParticleSystem) Draw() {
	if ps.Type == WeatherNone {
		return
	}

	for i := 0; i < ps.MaxParticles; i++ {
		pos := ps.PositionAt(i)
		if ps.Type == WeatherRain {
			rl.DrawLine3D(pos,
				rl.Vector3{X: pos.X, Y: pos.Y + 0.5, Z: pos.Z},
				rl.NewColor(100, 150, 255, 150))
		} else {
			var tint rl.Color = rl.NewColor(255, 255, 255, 200)
			if ps.Data.Colors != nil {
				tint = ps.Data.Colors[i]
			}
			rl.DrawCube(pos, 0.1, 0.1, 0.1, tint)
		}
	}
}
