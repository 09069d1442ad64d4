package app

import (
	"log"
	"runtime"

	"TerraVista/shared/config"
	"TerraVista/shared/meshing"
	"TerraVista/shared/terrain"
	"TerraVista/shared/util"
	"TerraVista/visor/internal/camera"
	"TerraVista/visor/internal/client"
	"TerraVista/visor/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Aguardando os primeiros chunks
	StateViewing                 // Visualizando o terreno
	StatePaused                  // Pausado
)

// FrameOutput é o resultado de um frame: se a aplicação deve encerrar e se
// o back buffer foi apresentado. Quem controla o loop decide o que fazer
// com os dois bits.
type FrameOutput struct {
	Exit        bool
	SwapBuffers bool
}

// App é a aplicação principal do visor TerraVista.
type App struct {
	Config *config.Config
	State  AppState

	Cam *camera.CameraController

	frameCount    int
	exitRequested bool

	// Coluna selecionada pelo usuário (inspeção)
	SelectedX, SelectedZ int32
	HasSelection         bool

	// Dados de terreno e comunicação
	store     *terrain.TerrainStore
	netClient *client.NetworkClient
	mesher    *meshing.TerrainMesher
	renderer  *render.Renderer

	// Estado da splash screen
	Loading          bool
	LoadingStatus    string
	LoadingProgress  float32
	LoadingChunks    int
	LoadingExpected  int
	LoadingStartTime float64

	// Estado do mundo (vindo do servidor)
	WorldName string
	WorldSeed int64
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:        cfg,
		State:         StateLoading,
		Loading:       true,
		LoadingStatus: "Conectando ao servidor...",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0) // ESC vira pausa, não fechamento

	a.Cam = camera.New(a.Config.FOV)
	a.Cam.SetTarget(rl.Vector3{X: 0, Y: 0, Z: 0})

	log.Println("[TerraVista] Janela inicializada com sucesso")
	log.Printf("[TerraVista] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.store = terrain.NewTerrainStore()

	workers := a.Config.MesherThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 2 {
		workers = 2
	}

	variant := render.VariantBasic
	if a.Config.NormalMapping {
		variant = render.VariantNormalMap
	}

	log.Printf("[App] Iniciando Mesher com %d workers (variante %s)", workers, variant)
	a.renderer = render.NewRenderer(variant)
	a.renderer.LoadPropModels("assets/props")
	a.mesher = meshing.NewTerrainMesher(workers, a.Config.NormalMapping)

	a.LoadingStartTime = rl.GetTime()
	go a.connectServer()

	for !rl.WindowShouldClose() {
		out := a.frame()
		if out.Exit {
			break
		}
	}

	a.shutdown()
	rl.CloseWindow()
}

// frame executa um passo de simulação e desenho.
func (a *App) frame() FrameOutput {
	a.update()
	a.draw()

	return FrameOutput{
		Exit:        a.exitRequested,
		SwapBuffers: true,
	}
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	switch a.State {
	case StateLoading:
		a.updateInput()
		a.updateMap(false)
		a.processMesherResults()
		if !a.Loading {
			a.State = StateViewing
		}
	case StateViewing:
		a.renderer.ProcessPurge()
		if a.frameCount%300 == 0 {
			center := a.cameraChunk()
			a.renderer.SchedulePurge(center, a.Config.DrawRadius+2)
		}
		a.updateCamera()
		a.updateInput()
		a.updateMap(false)
		a.processMesherResults()
	case StatePaused:
		a.updateInput()
	}
}

// cameraChunk devolve a origem do chunk sob o alvo da câmera.
func (a *App) cameraChunk() util.ChunkCoord {
	x, z := util.WorldToColumn(a.Cam.CurrentLookAt)
	return util.ChunkOrigin(x, z)
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.netClient != nil {
		a.netClient.Close()
	}
	if a.mesher != nil {
		a.mesher.Stop()
	}
	if a.renderer != nil {
		a.renderer.Unload()
	}

	if err := a.Config.Save(); err != nil {
		log.Printf("[TerraVista] Erro ao salvar configurações: %v", err)
	}
}
