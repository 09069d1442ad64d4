package client

import (
	"log"
	"sync"
	"time"

	"TerraVista/shared/proto/tvnet"
	"TerraVista/shared/terrain"
	"TerraVista/shared/util"

	"github.com/gorilla/websocket"
)

// NetworkClient lida com a comunicação com o servidor TerraVista.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	store     *terrain.TerrainStore
	connected bool
	mu        sync.RWMutex

	// Callbacks para o App
	OnChunk  func(origin util.ChunkCoord)
	OnStatus func(status *tvnet.ServerStatus)
}

func NewNetworkClient(url string, store *terrain.TerrainStore) *NetworkClient {
	return &NetworkClient{
		url:   url,
		store: store,
	}
}

func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var err error
	maxRetries := 10
	for i := 0; i < maxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, maxRetries, c.url)
		c.conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", maxRetries, err)
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close encerra a conexão. O readLoop termina sozinho em seguida.
func (c *NetworkClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.connected = false
}

// RequestRegion pede os chunks num raio em torno do centro.
func (c *NetworkClient) RequestRegion(center util.ChunkCoord, radius int32) {
	req := &tvnet.RegionRequest{
		CenterX: center.X,
		CenterZ: center.Z,
		Radius:  radius,
	}
	c.send(tvnet.TypeRegionRequest, req.Marshal())
}

func (c *NetworkClient) send(msgType int32, payload []byte) {
	if !c.IsConnected() {
		return
	}

	env := &tvnet.Envelope{
		Type:    msgType,
		Payload: payload,
	}

	c.mu.Lock()
	err := c.conn.WriteMessage(websocket.BinaryMessage, env.Marshal())
	c.mu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}
}

func (c *NetworkClient) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		if c.conn != nil {
			c.conn.Close()
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		var env tvnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.handleMessage(&env)
	}
}

func (c *NetworkClient) handleMessage(env *tvnet.Envelope) {
	switch env.Type {
	case tvnet.TypeServerStatus:
		var status tvnet.ServerStatus
		if err := status.Unmarshal(env.Payload); err == nil {
			if c.OnStatus != nil {
				c.OnStatus(&status)
			}
		}
	case tvnet.TypeChunk:
		var chunkMsg tvnet.ChunkMessage
		if err := chunkMsg.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Erro ao desempacotar chunk: %v", err)
			return
		}
		c.processChunk(&chunkMsg)
	}
}

func (c *NetworkClient) processChunk(msg *tvnet.ChunkMessage) {
	if err := msg.Validate(terrain.ChunkColumns); err != nil {
		log.Printf("[Network] Chunk (%d, %d) inválido: %v", msg.X, msg.Z, err)
		return
	}

	chunk, err := terrain.ChunkFromMessage(msg)
	if err != nil {
		log.Printf("[Network] Chunk (%d, %d) rejeitado: %v", msg.X, msg.Z, err)
		return
	}
	if !c.store.PutChunk(chunk) {
		// Versão mais antiga do que a residente
		return
	}

	if c.OnChunk != nil {
		c.OnChunk(chunk.Origin)
	}
}
