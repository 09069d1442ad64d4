package terrain

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"TerraVista/shared/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChunkModel representa o esquema do banco de dados para um chunk
type ChunkModel struct {
	ID        string    `gorm:"primaryKey"` // Coordenada formatada "X_Z"
	X, Z      int32     `gorm:"index:idx_pos"`
	Data      []byte    // Alturas e materiais serializados em GOB
	MTime     int64     // Versão/Timestamp
	UpdatedAt time.Time // Para controle interno do GORM
}

// WorldMetadata armazena informações globais do mundo no banco
type WorldMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// chunkPayload é o que vai serializado em GOB dentro de ChunkModel.Data.
type chunkPayload struct {
	Heights   [util.ChunkSize][util.ChunkSize]float32
	Materials [util.ChunkSize][util.ChunkSize]Material
}

const CurrentFormatVersion = 1

// OpenInitialize abre (ou cria) o banco SQLite do mundo e roda migrações.
func (s *TerrainStore) OpenInitialize(worldName string) error {
	if err := os.MkdirAll("saves", 0755); err != nil {
		return err
	}

	dbPath := filepath.Join("saves", fmt.Sprintf("%s.tv", worldName))

	// Logger silencioso em produção
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&ChunkModel{}, &WorldMetadata{}); err != nil {
		return fmt.Errorf("falha na migração do banco: %w", err)
	}

	s.DB = db

	db.Save(&WorldMetadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})
	db.Save(&WorldMetadata{Key: "WorldName", Value: worldName})

	log.Printf("[Persistence] Banco de dados SQLite aberto: %s", dbPath)
	return nil
}

// SaveChunk salva um único chunk no banco de dados SQLite.
func (s *TerrainStore) SaveChunk(chunk *Chunk) error {
	if s.DB == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(chunkPayload{Heights: chunk.Heights, Materials: chunk.Materials}); err != nil {
		log.Printf("[Persistence] ERRO GOB: %v", err)
		return err
	}

	id := fmt.Sprintf("%d_%d", chunk.Origin.X, chunk.Origin.Z)
	model := ChunkModel{
		ID:    id,
		X:     chunk.Origin.X,
		Z:     chunk.Origin.Z,
		Data:  buf.Bytes(),
		MTime: chunk.MTime,
	}

	// Upsert (Cria ou Atualiza)
	s.dbMu.Lock()
	err := s.DB.Save(&model).Error
	s.dbMu.Unlock()
	if err != nil {
		log.Printf("[Persistence] ERRO ao salvar chunk %s: %v", id, err)
	} else {
		chunk.IsDirty = false
	}
	return err
}

// LoadChunk tenta carregar um chunk específico do banco de dados.
func (s *TerrainStore) LoadChunk(origin util.ChunkCoord) (*Chunk, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("banco de dados não inicializado")
	}

	id := fmt.Sprintf("%d_%d", origin.X, origin.Z)
	var model ChunkModel
	if err := s.DB.First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var payload chunkPayload
	dec := gob.NewDecoder(bytes.NewReader(model.Data))
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}

	return &Chunk{
		Origin:    origin,
		Heights:   payload.Heights,
		Materials: payload.Materials,
		MTime:     model.MTime,
	}, nil
}

// Save persiste todos os chunks sujos. O lock do store é liberado antes do
// IO para não travar o servidor durante o salvamento.
func (s *TerrainStore) Save(worldName string) error {
	s.Mu.Lock()
	if s.DB == nil {
		if err := s.OpenInitialize(worldName); err != nil {
			s.Mu.Unlock()
			return err
		}
	}

	var dirtyChunks []*Chunk
	for _, chunk := range s.Chunks {
		if chunk.IsDirty {
			dirtyChunks = append(dirtyChunks, chunk)
		}
	}
	s.Mu.Unlock()

	if len(dirtyChunks) == 0 {
		return nil
	}

	log.Printf("[Persistence] Salvando terreno em SQLite... (Chunks sujos: %d)", len(dirtyChunks))
	count := 0
	for _, chunk := range dirtyChunks {
		if err := s.SaveChunk(chunk); err == nil {
			count++
		}
	}
	log.Printf("[Persistence] Salvamento concluído: %d chunks persistidos.", count)

	return nil
}

// Load inicializa o banco para o mundo dado.
func (s *TerrainStore) Load(worldName string) error {
	return s.OpenInitialize(worldName)
}
