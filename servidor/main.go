package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"TerraVista/shared/config"
	"TerraVista/shared/proto/tvnet"
	"TerraVista/shared/snapshot"
	"TerraVista/shared/terrain"
	"TerraVista/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub gerencia as conexões WebSocket ativas.
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 4096), // Bufferizado para evitar bloqueios
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case client, ok := <-h.register:
			if !ok {
				return
			}
			h.mu.Lock()
			h.clients[client] = &sync.Mutex{}
			h.mu.Unlock()
			log.Printf("Cliente registrado: %s", client.RemoteAddr())
		case client, ok := <-h.unregister:
			if !ok {
				return
			}
			h.mu.Lock()
			if lock, ok := h.clients[client]; ok {
				lock.Lock()
				delete(h.clients, client)
				client.Close()
				lock.Unlock()
				log.Printf("Cliente desregistrado: %s", client.RemoteAddr())
			}
			h.mu.Unlock()
		case message, ok := <-h.broadcast:
			if !ok {
				return
			}
			h.mu.Lock()
			type clientEntry struct {
				conn *websocket.Conn
				lock *sync.Mutex
			}
			var targets []clientEntry
			for c, l := range h.clients {
				targets = append(targets, clientEntry{c, l})
			}
			h.mu.Unlock()

			for _, target := range targets {
				target.lock.Lock()
				err := target.conn.WriteMessage(websocket.BinaryMessage, message)
				if err != nil {
					log.Printf("Erro ao enviar para cliente %s: %v", target.conn.RemoteAddr(), err)
					target.conn.Close()
					h.mu.Lock()
					delete(h.clients, target.conn)
					h.mu.Unlock()
				}
				target.lock.Unlock()
			}
		}
	}
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez.
func (h *Hub) WriteSafe(conn *websocket.Conn, messageType int, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("cliente não encontrado no hub")
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(messageType, data)
}

// safeSend envia para o broadcast protegendo contra canal fechado.
func (h *Hub) safeSend(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Aviso: falha ao enviar broadcast: %v", r)
		}
	}()
	h.broadcast <- data
}

// SendEnvelope serializa e envia uma mensagem para um cliente específico.
func (h *Hub) SendEnvelope(conn *websocket.Conn, msgType int32, payload []byte) {
	env := &tvnet.Envelope{
		Type:    msgType,
		Payload: payload,
	}
	if err := h.WriteSafe(conn, websocket.BinaryMessage, env.Marshal()); err != nil {
		log.Printf("Erro ao enviar mensagem: %v", err)
	}
}

// BroadcastStatus envia o status do servidor para todos os clientes.
func (h *Hub) BroadcastStatus(cfg *config.Config, ready bool, message string) {
	status := &tvnet.ServerStatus{
		Message:   message,
		Ready:     ready,
		WorldName: cfg.WorldName,
		Seed:      cfg.WorldSeed,
	}
	env := &tvnet.Envelope{
		Type:    tvnet.TypeServerStatus,
		Payload: status.Marshal(),
	}
	h.safeSend(env.Marshal())
}

func main() {
	// Garante que o working directory é o diretório do executável, para que
	// caminhos relativos (saves/, tmp/) funcionem.
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	snapshotOut := flag.String("snapshot", "", "Renderiza o mundo em PNG no caminho dado e sai (modo headless)")
	snapshotSize := flag.Int("snapshot-size", 512, "Lado da imagem do snapshot em pixels")
	worldFlag := flag.String("world", "", "Nome do mundo (sobrescreve o config)")
	seedFlag := flag.Int64("seed", 0, "Seed do mundo (sobrescreve o config)")
	flag.Parse()

	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			mw := io.MultiWriter(os.Stdout, logFile)
			log.SetOutput(mw)
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║     TerraVista SERVER v0.1.0         ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()
	if *worldFlag != "" {
		cfg.WorldName = *worldFlag
	}
	if *seedFlag != 0 {
		cfg.WorldSeed = *seedFlag
	}

	store := terrain.NewTerrainStore()
	gen := terrain.NewGenerator(cfg.WorldSeed)

	log.Printf("Inicializando banco de dados para o mundo: %s (seed %d)", cfg.WorldName, cfg.WorldSeed)
	if err := store.OpenInitialize(cfg.WorldName); err != nil {
		log.Printf("Erro ao abrir SQLite: %v (seguindo sem persistência)", err)
	} else if err := store.Load(cfg.WorldName); err != nil {
		log.Printf("Aviso: falha ao carregar chunks persistidos: %v", err)
	} else {
		log.Printf("[Startup] %d chunks carregados do banco", store.Count())
	}

	// Modo headless: renderiza o snapshot e sai, sem abrir porta
	if *snapshotOut != "" {
		runSnapshot(store, gen, cfg, *snapshotOut, *snapshotSize)
		return
	}

	hub := newHub()
	go hub.run()

	// Auto-save periódico de chunks sujos
	go func() {
		for {
			time.Sleep(30 * time.Second)
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[AutoSave-Loop] Recuperado de pânico: %v", r)
					}
				}()
				if err := store.Save(cfg.WorldName); err != nil {
					log.Printf("[AutoSave] Erro ao salvar: %v", err)
				}
			}()
		}
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, cfg, store, gen)
	})

	addr := cfg.ListenAddr
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}

	// Checagem prévia da porta para dar um erro legível
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("ERRO CRÍTICO: não foi possível abrir %s.", addr)
		log.Printf("Provavelmente há outra instância do servidor rodando.")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
	ln.Close()

	log.Printf("Servidor TerraVista iniciado em %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}

// runSnapshot gera a região central do mundo e grava um PNG via o
// renderizador por software.
func runSnapshot(store *terrain.TerrainStore, gen *terrain.Generator, cfg *config.Config, outPath string, size int) {
	radius := cfg.DrawRadius
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			origin := util.NewChunkCoord(x*util.ChunkSize, z*util.ChunkSize)
			store.EnsureChunk(origin, gen)
		}
	}
	log.Printf("[Snapshot] %d chunks prontos para render", store.Count())

	extent := float32(radius * util.ChunkSize)
	cam := snapshot.DefaultCamera(mgl32.Vec3{0, 0, 0}, extent)
	if err := snapshot.WritePNG(outPath, store, cam, size, size); err != nil {
		log.Fatalf("[Snapshot] %v", err)
	}

	if err := store.Save(cfg.WorldName); err != nil {
		log.Printf("[Snapshot] Aviso: falha ao persistir chunks gerados: %v", err)
	}
}

// serveWs maneja requisições websocket do peer.
func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request, cfg *config.Config, store *terrain.TerrainStore, gen *terrain.Generator) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Erro no upgrade do WebSocket: %v", err)
		return
	}
	hub.register <- conn

	// Status inicial
	status := &tvnet.ServerStatus{
		Message:   "Conectado ao servidor TerraVista",
		Ready:     true,
		WorldName: cfg.WorldName,
		Seed:      cfg.WorldSeed,
	}
	hub.SendEnvelope(conn, tvnet.TypeServerStatus, status.Marshal())

	go func() {
		defer func() {
			hub.unregister <- conn
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Erro ao ler mensagem: %v", err)
				break
			}

			var envelope tvnet.Envelope
			if err := envelope.Unmarshal(message); err != nil {
				log.Printf("Erro ao desempacotar envelope: %v", err)
				continue
			}

			handleClientMessage(hub, conn, store, gen, &envelope)
		}
	}()
}

func handleClientMessage(hub *Hub, conn *websocket.Conn, store *terrain.TerrainStore, gen *terrain.Generator, env *tvnet.Envelope) {
	switch env.Type {
	case tvnet.TypeRegionRequest:
		var req tvnet.RegionRequest
		if err := req.Unmarshal(env.Payload); err != nil {
			log.Printf("Erro ao ler RegionRequest: %v", err)
			return
		}
		log.Printf("[Network] Região Center(%d,%d) R:%d chunks", req.CenterX, req.CenterZ, req.Radius)
		go streamRegionToClient(hub, conn, store, gen, &req)
	}
}

// streamRegionToClient gera (ou recupera) e envia os chunks da região
// pedida. Chunks ausentes nascem aqui via gerador procedural.
func streamRegionToClient(hub *Hub, conn *websocket.Conn, store *terrain.TerrainStore, gen *terrain.Generator, req *tvnet.RegionRequest) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WS-Stream] Recuperado de pânico: %v", r)
		}
	}()

	center := util.ChunkOrigin(req.CenterX, req.CenterZ)
	radius := req.Radius
	if radius < 0 {
		radius = 0
	}
	if radius > 32 {
		radius = 32 // limite de sanidade por pedido
	}

	chunksSent := 0
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			origin := center.Add(util.NewChunkCoord(dx*util.ChunkSize, dz*util.ChunkSize))
			chunk := store.EnsureChunk(origin, gen)
			if chunk == nil {
				continue
			}

			msg := chunk.ToMessage()
			hub.SendEnvelope(conn, tvnet.TypeChunk, msg.Marshal())
			chunksSent++
		}
	}

	if chunksSent > 0 {
		log.Printf("[WS] Streaming → %d chunks enviados (centro %s)", chunksSent, center)
	}
}
