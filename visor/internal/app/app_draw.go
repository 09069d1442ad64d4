package app

import (
	"fmt"
	"log"

	"TerraVista/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	if a.Loading {
		a.drawLoadingScreen()
	} else {
		a.drawScene()
		a.drawHUD()

		if a.State == StatePaused {
			a.drawPauseMenu()
		}
	}

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D.
func (a *App) drawScene() {
	rl.BeginMode3D(a.Cam.RLCamera)

	if a.Config.ShowGrid {
		rl.DrawGrid(40, util.ChunkSize)
	}

	if a.Config.WireframeMode {
		rl.EnableWireMode()
	}

	if a.renderer != nil {
		aspect := float32(rl.GetScreenWidth()) / float32(rl.GetScreenHeight())
		a.renderer.Draw(a.Cam, aspect)

		if a.HasSelection {
			if h, ok := a.store.HeightAtColumn(a.SelectedX, a.SelectedZ); ok {
				a.renderer.DrawSelection(a.SelectedX, a.SelectedZ, h)
			}
		}
	}

	if a.Config.WireframeMode {
		rl.DisableWireMode()
	}

	rl.EndMode3D()
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(340)
	height := int32(220)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	// FPS
	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	// Clima
	weatherStr := "Céu Limpo"
	weatherColor := rl.SkyBlue
	if a.renderer != nil && a.renderer.Weather != nil {
		switch a.renderer.Weather.Type {
		case 1: // WeatherRain
			weatherStr = "Chuva"
			weatherColor = rl.Blue
		case 2: // WeatherSnow
			weatherStr = "Neve"
			weatherColor = rl.White
		}
	}
	rl.DrawText(weatherStr, x+215, y+10, 20, weatherColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	// Localização
	rl.DrawText("LOCALIZAÇÃO", x+10, y+45, 12, rl.Gray)

	cx, cz := util.WorldToColumn(a.Cam.CurrentLookAt)
	rl.DrawText(fmt.Sprintf("Coluna: (%d, %d)", cx, cz), x+10, y+60, 16, rl.White)

	syncStatus := "Offline"
	if a.netClient != nil && a.netClient.IsConnected() {
		syncStatus = "Conectado"
	}
	rl.DrawText(fmt.Sprintf("Chunk: %s [%s]", a.cameraChunk(), syncStatus), x+10, y+80, 14, rl.LightGray)

	rl.DrawLine(x+10, y+100, x+width-10, y+100, rl.NewColor(100, 100, 100, 100))

	// Mundo
	if a.WorldName != "" {
		rl.DrawText(a.WorldName, x+10, y+110, 14, rl.Gold)
	}
	rl.DrawText(fmt.Sprintf("Seed: %d | Chunks: %d", a.WorldSeed, a.store.Count()), x+10, y+125, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Shader: %s", a.renderer.VariantFlags()), x+10, y+140, 14, rl.LightGray)

	rl.DrawLine(x+10, y+160, x+width-10, y+160, rl.NewColor(100, 100, 100, 100))

	// Atalhos
	rl.DrawText("CONTROLES", x+10, y+170, 12, rl.Gray)
	rl.DrawText("WASD: Mover | Scroll: Zoom | N: Normal Map", x+10, y+185, 14, rl.LightGray)

	wireframeExtra := ""
	if a.Config.WireframeMode {
		wireframeExtra = " [WIREFRAME ON]"
	}
	rl.DrawText(fmt.Sprintf("F7: Clima | F11: Tela Cheia | F3: HUD%s", wireframeExtra), x+10, y+200, 14, rl.SkyBlue)

	a.drawSelectedColumnInfo()

	// Título no canto inferior direito
	title := "TerraVista v0.1.0 - Alpha"
	titleWidth := rl.MeasureText(title, 18)
	rl.DrawText(title,
		int32(rl.GetScreenWidth())-titleWidth-20, int32(rl.GetScreenHeight())-30,
		18, rl.NewColor(200, 200, 200, 150))
}

func (a *App) drawSelectedColumnInfo() {
	if !a.HasSelection {
		return
	}

	origin := util.ChunkOrigin(a.SelectedX, a.SelectedZ)
	chunk := a.store.GetChunk(origin)
	if chunk == nil {
		return
	}

	lx := a.SelectedX - origin.X
	lz := a.SelectedZ - origin.Z

	width := int32(280)
	height := int32(140)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(240)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 200))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(255, 215, 0, 255))

	rl.DrawText("INSPEÇÃO DE COLUNA", x+15, y+15, 18, rl.Gold)
	rl.DrawLine(x+15, y+40, x+width-15, y+40, rl.NewColor(100, 100, 100, 255))

	rl.DrawText(fmt.Sprintf("Coluna: (%d, %d)", a.SelectedX, a.SelectedZ), x+15, y+50, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Altura: %.2f", chunk.HeightAt(lx, lz)), x+15, y+70, 16, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Material: %s", chunk.MaterialAt(lx, lz)), x+15, y+90, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Chunk: %s (v%d)", origin, chunk.MTime), x+15, y+110, 14, rl.Gray)
}

// drawPauseMenu desenha o menu de escape centralizado.
func (a *App) drawPauseMenu() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(0, 0, 0, 150))

	panelWidth := int32(400)
	panelHeight := int32(300)
	panelX := (screenWidth - panelWidth) / 2
	panelY := (screenHeight - panelHeight) / 2

	rl.DrawRectangle(panelX, panelY, panelWidth, panelHeight, rl.NewColor(30, 30, 35, 255))
	rl.DrawRectangleLines(panelX, panelY, panelWidth, panelHeight, rl.White)

	menuTitle := "MENU DE PAUSA"
	titleWidth := rl.MeasureText(menuTitle, 24)
	rl.DrawText(menuTitle, panelX+(panelWidth-titleWidth)/2, panelY+30, 24, rl.Gold)

	buttonX := panelX + 50
	buttonWidth := panelWidth - 100
	buttonHeight := int32(40)

	if a.drawButton(buttonX, panelY+90, buttonWidth, buttonHeight, "RETOMAR (ESC)", rl.Green) {
		a.State = StateViewing
	}

	if a.drawButton(buttonX, panelY+145, buttonWidth, buttonHeight, "OPÇÕES (F3/F4/F7/N)", rl.Gray) {
		// Sem submenu; os atalhos funcionam direto
	}

	if a.drawButton(buttonX, panelY+200, buttonWidth, buttonHeight, "SAIR", rl.Red) {
		log.Println("[App] Encerrando aplicação pelo menu.")
		a.exitRequested = true
	}
}

// drawButton desenha um botão genérico com hover e retorna true se clicado.
func (a *App) drawButton(x, y, w, h int32, text string, color rl.Color) bool {
	mousePos := rl.GetMousePosition()
	isHover := mousePos.X >= float32(x) && mousePos.X <= float32(x+w) &&
		mousePos.Y >= float32(y) && mousePos.Y <= float32(y+h)

	drawColor := color
	if isHover {
		drawColor.R += 30
		drawColor.G += 30
		drawColor.B += 30
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}

	rl.DrawRectangle(x, y, w, h, rl.NewColor(50, 50, 50, 255))
	rl.DrawRectangleLines(x, y, w, h, drawColor)

	textWidth := rl.MeasureText(text, 18)
	rl.DrawText(text, x+(w-textWidth)/2, y+(h-18)/2, 18, rl.White)

	return isHover && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

func (a *App) drawLoadingScreen() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(20, 20, 25, 255))

	title := "TERRAVISTA"
	titleWidth := rl.MeasureText(title, 40)
	rl.DrawText(title, (screenWidth-titleWidth)/2, screenHeight/2-60, 40, rl.Gold)

	barWidth := int32(400)
	barHeight := int32(30)
	barX := (screenWidth - barWidth) / 2
	barY := screenHeight/2 + 20

	rl.DrawRectangle(barX, barY, barWidth, barHeight, rl.DarkGray)
	rl.DrawRectangle(barX, barY, int32(float32(barWidth)*a.LoadingProgress), barHeight, rl.Orange)
	rl.DrawRectangleLines(barX, barY, barWidth, barHeight, rl.White)

	statusWidth := rl.MeasureText(a.LoadingStatus, 18)
	rl.DrawText(a.LoadingStatus, (screenWidth-statusWidth)/2, barY+45, 18, rl.LightGray)

	tip := "Pressione ESPAÇO para entrar imediatamente (o terreno carrega aos poucos)."
	tipWidth := rl.MeasureText(tip, 16)
	rl.DrawText(tip, (screenWidth-tipWidth)/2, screenHeight-50, 16, rl.Gray)
}
