package app

import (
	"log"

	"TerraVista/shared/proto/tvnet"
	"TerraVista/shared/util"
	"TerraVista/visor/internal/client"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// connectServer tenta conectar ao servidor TerraVista em background.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	a.netClient = client.NewNetworkClient(a.Config.ServerURL, a.store)

	a.netClient.OnStatus = func(status *tvnet.ServerStatus) {
		log.Printf("[Server] Status: %s (pronto: %v)", status.Message, status.Ready)

		a.WorldName = status.WorldName
		a.WorldSeed = status.Seed

		if status.Ready {
			a.LoadingStatus = "Sincronizando com o mundo..."
			// Zera o failsafe: o servidor acabou de ficar pronto
			a.LoadingStartTime = rl.GetTime()
		} else {
			a.LoadingStatus = status.Message
		}
	}

	a.netClient.OnChunk = func(origin util.ChunkCoord) {
		a.remeshChunk(origin)
	}

	if err := a.netClient.Connect(); err != nil {
		log.Printf("[Server] Erro ao conectar: %v", err)
		a.LoadingStatus = "Erro ao conectar ao servidor. Verifique se ele está rodando."
		return
	}

	log.Println("[Network] Conectado ao servidor TerraVista!")
	a.LoadingStatus = "Sincronizando com o mundo..."

	// Pedido inicial imediato, sem esperar o throttle
	a.netClient.RequestRegion(a.cameraChunk(), a.Config.DrawRadius)
}
