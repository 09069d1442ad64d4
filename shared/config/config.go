package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do TerraVista.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Servidor de terreno (usado pelo visor)
	ServerURL string `json:"server_url"`

	// Servidor (porta de escuta e mundo)
	ListenAddr string `json:"listen_addr"`
	WorldName  string `json:"world_name"`
	WorldSeed  int64  `json:"world_seed"`

	// Renderização
	DrawRadius    int32 `json:"draw_radius"` // Raio horizontal em chunks
	MesherThreads int   `json:"mesher_threads"`
	// NormalMapping seleciona a variante do shader de terreno na
	// inicialização (o caminho de tangentes é compilado, não ramificado).
	NormalMapping bool    `json:"normal_mapping"`
	FOV           float32 `json:"fov"`

	// Câmera
	CameraSpeed       float32 `json:"camera_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity"`
	ZoomSpeed         float32 `json:"zoom_speed"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
	WireframeMode bool `json:"wireframe_mode"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "TerraVista",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerURL: "ws://127.0.0.1:8080/ws",

		ListenAddr: ":8080",
		WorldName:  "planalto",
		WorldSeed:  1984,

		DrawRadius:    6,
		MesherThreads: 4,
		NormalMapping: false,
		FOV:           60.0,

		CameraSpeed:       10.0,
		CameraSensitivity: 0.3,
		ZoomSpeed:         5.0,

		ShowDebugInfo: true,
		ShowGrid:      false,
		WireframeMode: false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}
