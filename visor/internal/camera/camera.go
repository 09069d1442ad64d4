package camera

import (
	"math"

	"TerraVista/shared/transform"
	"TerraVista/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode define o tipo de projeção.
type Mode int

const (
	ModePerspective Mode = iota
	ModeOrthographic
)

// CameraController gerencia a movimentação e a projeção da câmera.
// Movimento suave com zoom que afeta a velocidade.
type CameraController struct {
	// Estado interno do Raylib
	RLCamera rl.Camera3D

	// Configurações
	Mode         Mode
	MinZoom      float32
	MaxZoom      float32
	MoveSpeed    float32
	RotateSpeed  float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave/lento)
	FOV          float32
	Near, Far    float32

	// Estado alvo (para interpolação suave)
	TargetLookAt rl.Vector3 // Para onde a câmera quer olhar (ponto central)
	TargetZoom   float32
	TargetAngleY float32 // Rotação horizontal (radianos)
	TargetAngleX float32 // Elevação (radianos)

	// Estado atual (interpolado)
	CurrentLookAt rl.Vector3
	CurrentZoom   float32
}

// New cria um novo controlador de câmera.
func New(fov float32) *CameraController {
	c := &CameraController{
		Mode:         ModePerspective,
		MinZoom:      5.0,
		MaxZoom:      200.0,
		MoveSpeed:    50.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    10.0,
		SmoothFactor: 0.1,
		FOV:          fov,
		Near:         0.1,
		Far:          1000.0,

		TargetLookAt: rl.Vector3{X: 0, Y: 0, Z: 0},
		TargetZoom:   50.0,
		TargetAngleY: 45.0 * rl.Deg2rad,  // padrão isométrico
		TargetAngleX: -30.0 * rl.Deg2rad, // olhando de cima
	}

	// Inicializa os valores atuais com os alvos para não "saltar" no início
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom

	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       fov,
		Projection: rl.CameraPerspective,
	}

	c.recompute()
	return c
}

// SetTarget define o alvo da câmera imediatamente (sem suavização).
func (c *CameraController) SetTarget(pos rl.Vector3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.recompute()
}

// Update calcula a nova posição da câmera com base no tempo (dt).
// Deve ser chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt // Normaliza para 60 FPS
	if factor > 1.0 {
		factor = 1.0
	}

	cur := mgl32.Vec3{c.CurrentLookAt.X, c.CurrentLookAt.Y, c.CurrentLookAt.Z}
	tgt := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}
	lerped := cur.Add(tgt.Sub(cur).Mul(factor))

	c.CurrentLookAt = rl.Vector3{X: lerped.X(), Y: lerped.Y(), Z: lerped.Z()}
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)

	c.recompute()
}

// recompute converte os ângulos esféricos e o zoom na posição da câmera.
func (c *CameraController) recompute() {
	dist := c.CurrentZoom

	// No ortográfico o zoom vira Fovy (escala) e a câmera fica longe para
	// não cortar a geometria no near plane.
	if c.Mode == ModeOrthographic {
		c.RLCamera.Fovy = c.CurrentZoom * 0.5
		c.RLCamera.Projection = rl.CameraOrthographic
		dist = 200.0
	} else {
		c.RLCamera.Fovy = c.FOV
		c.RLCamera.Projection = rl.CameraPerspective
	}

	cosX := float32(math.Cos(float64(c.TargetAngleX)))
	sinX := float32(math.Sin(float64(c.TargetAngleX)))
	cosY := float32(math.Cos(float64(c.TargetAngleY)))
	sinY := float32(math.Sin(float64(c.TargetAngleY)))

	offsetX := dist * cosX * sinY
	offsetY := dist * -sinX // olhamos de cima, sinX é negativo
	offsetZ := dist * cosX * cosY

	c.RLCamera.Position = rl.Vector3{
		X: c.CurrentLookAt.X + offsetX,
		Y: c.CurrentLookAt.Y + offsetY,
		Z: c.CurrentLookAt.Z + offsetZ,
	}

	c.RLCamera.Target = c.CurrentLookAt
}

// SetMode alterna entre perspectiva e ortográfica.
func (c *CameraController) SetMode(mode Mode) {
	c.Mode = mode
	c.recompute()
}

// Pipeline monta a pipeline CPU equivalente à câmera atual. O visor usa o
// resultado para picking e overlays; as contas são as mesmas do shader, e a
// projeção segue o modo ativo para que o picking do Raylib (que usa o
// RLCamera) e o terreno renderizado concordem.
func (c *CameraController) Pipeline(aspect float32) transform.Pipeline {
	eye := mgl32.Vec3{c.RLCamera.Position.X, c.RLCamera.Position.Y, c.RLCamera.Position.Z}
	target := mgl32.Vec3{c.RLCamera.Target.X, c.RLCamera.Target.Y, c.RLCamera.Target.Z}

	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})

	var proj mgl32.Mat4
	if c.Mode == ModeOrthographic {
		// Mesma convenção do Raylib: Fovy é a altura do volume ortográfico.
		top := c.RLCamera.Fovy / 2
		right := top * aspect
		proj = mgl32.Ortho(-right, right, -top, top, c.Near, c.Far)
	} else {
		proj = mgl32.Perspective(mgl32.DegToRad(c.RLCamera.Fovy), aspect, c.Near, c.Far)
	}

	return transform.Pipeline{
		Model:          mgl32.Ident4(),
		ViewProjection: proj.Mul4(view),
	}
}

// HandleInput processa entrada do usuário. Retorna true se houve movimento.
func (c *CameraController) HandleInput(dt float32) bool {
	moved := false

	// Zoom com scroll
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		moved = true
		c.TargetZoom -= wheel * c.ZoomSpeed
		c.TargetZoom = util.Clamp(c.TargetZoom, c.MinZoom, c.MaxZoom)
	}

	// Rotação com botão esquerdo (orbit)
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
		}
		c.TargetAngleY -= delta.X * c.RotateSpeed * 0.005
		c.TargetAngleX -= delta.Y * c.RotateSpeed * 0.005

		// Clamp na elevação: entre quase topo (-89) e quase horizonte (-5)
		maxElev := float32(-5.0 * rl.Deg2rad)
		minElev := float32(-89.0 * rl.Deg2rad)
		c.TargetAngleX = util.Clamp(c.TargetAngleX, minElev, maxElev)
	}

	// Movimento WASD relativo à câmera, projetado no plano XZ
	camPos := mgl32.Vec3{c.RLCamera.Position.X, c.RLCamera.Position.Y, c.RLCamera.Position.Z}
	targetPos := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}

	forward := targetPos.Sub(camPos)
	forward[1] = 0
	if forward.Len() > 0 {
		forward = forward.Normalize()
	}

	up := mgl32.Vec3{0, 1, 0}
	right := forward.Cross(up)
	if right.Len() > 0 {
		right = right.Normalize()
	}

	// Quanto mais alto o zoom, mais rápido o deslocamento.
	currentSpeed := c.MoveSpeed * (c.CurrentZoom / 50.0) * dt

	move := mgl32.Vec3{}
	if rl.IsKeyDown(rl.KeyW) {
		move = move.Add(forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = move.Sub(forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = move.Add(right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = move.Sub(right)
	}

	if move.Len() > 0 {
		move = move.Normalize().Mul(currentSpeed)
		targetPos = targetPos.Add(move)
		c.TargetLookAt = rl.Vector3{X: targetPos.X(), Y: targetPos.Y(), Z: targetPos.Z()}
		moved = true
	}

	return moved
}
