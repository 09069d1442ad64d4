package app

import (
	"log"

	"TerraVista/visor/internal/camera"
	"TerraVista/visor/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera atualiza a câmera baseado no input.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()

	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)

	// Alternar projeção com P
	if rl.IsKeyPressed(rl.KeyP) {
		if a.Cam.Mode == camera.ModePerspective {
			a.Cam.SetMode(camera.ModeOrthographic)
			log.Println("[Camera] Modo Ortográfico")
		} else {
			a.Cam.SetMode(camera.ModePerspective)
			log.Println("[Camera] Modo Perspectiva")
		}
	}
}

// updateInput processa entradas de teclado gerais.
func (a *App) updateInput() {
	// Toggle debug info
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// Pular loading manualmente
	if a.Loading && rl.IsKeyPressed(rl.KeySpace) {
		log.Println("[App] Loading pulado manualmente pelo usuário.")
		a.Loading = false
	}

	// Toggle grid
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	// Toggle wireframe
	if rl.IsKeyPressed(rl.KeyF4) {
		a.Config.WireframeMode = !a.Config.WireframeMode
	}

	// Alterna a variante de normal mapping com N. Isso recompila o shader
	// de terreno e re-enfileira os chunks para regerar as tangentes.
	if rl.IsKeyPressed(rl.KeyN) {
		a.Config.NormalMapping = !a.Config.NormalMapping

		variant := render.VariantBasic
		if a.Config.NormalMapping {
			variant = render.VariantNormalMap
		}
		a.renderer.SetVariant(variant)
		a.mesher.SetNormalMap(a.Config.NormalMapping)

		for _, coord := range a.store.Coords() {
			a.remeshChunk(coord)
		}
		log.Printf("[App] Variante de shader: %s", variant)
	}

	// Ciclo de clima com F7
	if rl.IsKeyPressed(rl.KeyF7) {
		if a.renderer != nil && a.renderer.Weather != nil {
			newType := (int(a.renderer.Weather.Type) + 1) % 3
			a.renderer.Weather.Type = render.WeatherType(newType)
			log.Printf("[App] Clima alterado para: %v", a.renderer.Weather.Type)
		}
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Inspecionar coluna com clique direito
	if a.State == StateViewing && rl.IsMouseButtonPressed(rl.MouseRightButton) {
		mousePos := rl.GetMousePosition()
		ray := rl.GetMouseRay(mousePos, a.Cam.RLCamera)
		x, z, hit := a.renderer.GetRayCollision(ray)
		if hit {
			a.SelectedX, a.SelectedZ = x, z
			a.HasSelection = true
		} else {
			a.HasSelection = false
		}
	}

	// ESC: alterna pausa
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.State == StateViewing {
			a.State = StatePaused
			log.Println("[App] Pausado")
		} else if a.State == StatePaused {
			a.State = StateViewing
			log.Println("[App] Retomando")
		}
	}
}
