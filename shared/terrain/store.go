package terrain

import (
	"sync"

	"TerraVista/shared/util"

	"gorm.io/gorm"
)

// TerrainStore gerencia o armazenamento de chunks do terreno.
// É usado tanto pelo servidor (fonte da verdade) quanto pelo visor (espelho
// local dos chunks recebidos pela rede).
type TerrainStore struct {
	Mu sync.RWMutex

	// dbMu serializa escritas no banco SQLite (impede "database is locked")
	dbMu sync.Mutex

	// Chunks armazena os blocos do terreno indexados pela origem.
	Chunks map[util.ChunkCoord]*Chunk

	// DB é a conexão com o banco SQLite (GORM); nil quando não persistindo.
	DB *gorm.DB
}

// NewTerrainStore cria um store vazio.
func NewTerrainStore() *TerrainStore {
	return &TerrainStore{
		Chunks: make(map[util.ChunkCoord]*Chunk),
	}
}

// GetChunk retorna o chunk com a origem dada, ou nil.
func (s *TerrainStore) GetChunk(origin util.ChunkCoord) *Chunk {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return s.Chunks[origin]
}

// PutChunk instala (ou substitui) um chunk. Substituições com MTime mais
// antigo que o atual são ignoradas e retornam false.
func (s *TerrainStore) PutChunk(c *Chunk) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if existing, ok := s.Chunks[c.Origin]; ok && existing.MTime > c.MTime {
		return false
	}
	s.Chunks[c.Origin] = c
	return true
}

// ChunkVersion retorna o MTime do chunk, ou -1 se não carregado.
func (s *TerrainStore) ChunkVersion(origin util.ChunkCoord) int64 {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	if c, ok := s.Chunks[origin]; ok {
		return c.MTime
	}
	return -1
}

// Count retorna o número de chunks residentes.
func (s *TerrainStore) Count() int {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return len(s.Chunks)
}

// HeightAtColumn consulta a altura na coluna global (x, z), atravessando a
// fronteira de chunks. Retorna false se o chunk da coluna não está residente.
func (s *TerrainStore) HeightAtColumn(x, z int32) (float32, bool) {
	origin := util.ChunkOrigin(x, z)

	s.Mu.RLock()
	defer s.Mu.RUnlock()

	c, ok := s.Chunks[origin]
	if !ok {
		return 0, false
	}
	return c.Heights[x-origin.X][z-origin.Z], true
}

// Coords retorna as origens de todos os chunks residentes.
func (s *TerrainStore) Coords() []util.ChunkCoord {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	coords := make([]util.ChunkCoord, 0, len(s.Chunks))
	for coord := range s.Chunks {
		coords = append(coords, coord)
	}
	return coords
}

// EnsureChunk retorna o chunk da origem, buscando no banco e por fim gerando
// via Generator quando necessário. Usado pelo servidor.
func (s *TerrainStore) EnsureChunk(origin util.ChunkCoord, gen *Generator) *Chunk {
	if c := s.GetChunk(origin); c != nil {
		return c
	}

	if s.DB != nil {
		if c, err := s.LoadChunk(origin); err == nil {
			s.PutChunk(c)
			return c
		}
	}

	c := gen.GenerateChunk(origin)
	s.PutChunk(c)
	return c
}
