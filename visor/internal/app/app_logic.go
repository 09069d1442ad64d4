package app

import (
	"fmt"
	"log"

	"TerraVista/shared/meshing"
	"TerraVista/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (a *App) updateMap(force bool) {
	if a.netClient == nil || !a.netClient.IsConnected() {
		return
	}

	// throttle: requisita a cada 180 frames (3s) normal, ou 60 no loading
	checkInterval := 180
	if a.Loading {
		checkInterval = 60
	}
	if !force && a.frameCount%checkInterval != 0 {
		return
	}

	center := a.cameraChunk()
	radius := a.Config.DrawRadius

	if a.Loading && a.LoadingExpected == 0 {
		side := int(radius*2 + 1)
		a.LoadingExpected = side * side
		log.Printf("[App] Esperando %d chunks para concluir sincronização inicial", a.LoadingExpected)
	}

	a.netClient.RequestRegion(center, radius)
}

// processMesherResults consome resultados da fila e envia para a GPU.
// Em jogo o upload é fatiado em 4ms por frame para evitar stutter; na tela
// de loading o orçamento é folgado.
func (a *App) processMesherResults() {
	timeBudget := 0.004
	if a.Loading {
		timeBudget = 0.500
	}

	startTime := rl.GetTime()

	for {
		if rl.GetTime()-startTime > timeBudget {
			return
		}

		select {
		case res := <-a.mesher.Results():
			a.renderer.UploadResult(res)
			a.scatterProps(res.Origin)

			if a.Loading {
				a.LoadingChunks++
				if a.LoadingExpected > 0 {
					a.LoadingProgress = float32(a.LoadingChunks) / float32(a.LoadingExpected)
					a.LoadingStatus = fmt.Sprintf("Construindo terreno: %d/%d (%.1f%%)",
						a.LoadingChunks, a.LoadingExpected, a.LoadingProgress*100)
				}
			}
		default:
			if a.Loading {
				timeSinceSync := rl.GetTime() - a.LoadingStartTime

				reachedThreshold := a.LoadingExpected > 0 &&
					float32(a.LoadingChunks)/float32(a.LoadingExpected) >= 0.5
				failedTimeout := timeSinceSync > 20.0

				if reachedThreshold || failedTimeout {
					a.Loading = false
					a.LoadingProgress = 1.0
					log.Printf("[App] Loading concluído! (%d chunks em %.1fs). FailSafe: %v",
						a.LoadingChunks, timeSinceSync, failedTimeout)
				}
			}
			return
		}
	}
}

// remeshChunk re-enfileira o chunk e os vizinhos que compartilham borda.
// As bordas da malha leem alturas do chunk ao lado, então ele também fica
// desatualizado quando este muda.
func (a *App) remeshChunk(origin util.ChunkCoord) {
	coords := []util.ChunkCoord{
		origin,
		origin.Add(util.NewChunkCoord(-util.ChunkSize, 0)),
		origin.Add(util.NewChunkCoord(util.ChunkSize, 0)),
		origin.Add(util.NewChunkCoord(0, -util.ChunkSize)),
		origin.Add(util.NewChunkCoord(0, util.ChunkSize)),
	}

	for i, coord := range coords {
		version := a.store.ChunkVersion(coord)
		if version < 0 {
			continue // não residente
		}
		// Vizinhos só precisam de re-mesh se já têm modelo na GPU
		if i > 0 && a.renderer.GetModelVersion(coord) < 0 {
			continue
		}
		a.mesher.Enqueue(meshing.Request{Origin: coord, Data: a.store, MTime: version})
	}
}
