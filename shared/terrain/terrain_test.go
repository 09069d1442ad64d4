package terrain

import (
	"testing"

	"TerraVista/shared/util"
)

func TestGeneratorDeterministic(t *testing.T) {
	g1 := NewGenerator(42)
	g2 := NewGenerator(42)
	g3 := NewGenerator(43)

	same := true
	diff := false
	for x := int32(-20); x < 20; x += 7 {
		for z := int32(-20); z < 20; z += 5 {
			if g1.HeightAt(x, z) != g2.HeightAt(x, z) {
				same = false
			}
			if g1.HeightAt(x, z) != g3.HeightAt(x, z) {
				diff = true
			}
		}
	}

	if !same {
		t.Error("mesma seed produziu alturas diferentes")
	}
	if !diff {
		t.Error("seeds diferentes produziram o mesmo terreno")
	}
}

func TestGeneratorHeightRange(t *testing.T) {
	g := NewGenerator(7)
	for x := int32(-64); x < 64; x += 3 {
		for z := int32(-64); z < 64; z += 3 {
			h := g.HeightAt(x, z)
			if h < 0 || h > g.Amplitude {
				t.Fatalf("altura fora do intervalo em (%d, %d): %v", x, z, h)
			}
		}
	}
}

func TestChunkMessageRoundtrip(t *testing.T) {
	g := NewGenerator(99)
	orig := g.GenerateChunk(util.NewChunkCoord(-16, 32))

	got, err := ChunkFromMessage(orig.ToMessage())
	if err != nil {
		t.Fatalf("ChunkFromMessage: %v", err)
	}

	if !got.Origin.Equals(orig.Origin) {
		t.Errorf("Origin = %v, want %v", got.Origin, orig.Origin)
	}
	if got.MTime != orig.MTime {
		t.Errorf("MTime = %d, want %d", got.MTime, orig.MTime)
	}
	for x := int32(0); x < util.ChunkSize; x++ {
		for z := int32(0); z < util.ChunkSize; z++ {
			if got.Heights[x][z] != orig.Heights[x][z] {
				t.Fatalf("altura local (%d, %d) = %v, want %v", x, z, got.Heights[x][z], orig.Heights[x][z])
			}
			if got.Materials[x][z] != orig.Materials[x][z] {
				t.Fatalf("material local (%d, %d) = %d, want %d", x, z, got.Materials[x][z], orig.Materials[x][z])
			}
		}
	}
}

func TestStorePutAndQuery(t *testing.T) {
	s := NewTerrainStore()
	g := NewGenerator(1)

	origin := util.NewChunkCoord(16, -32)
	c := g.GenerateChunk(origin)
	if !s.PutChunk(c) {
		t.Fatal("PutChunk recusou chunk novo")
	}

	// Consulta atravessando a origem do chunk.
	h, ok := s.HeightAtColumn(origin.X+5, origin.Z+9)
	if !ok {
		t.Fatal("HeightAtColumn não encontrou coluna residente")
	}
	if h != c.Heights[5][9] {
		t.Errorf("altura = %v, want %v", h, c.Heights[5][9])
	}

	if _, ok := s.HeightAtColumn(1000, 1000); ok {
		t.Error("HeightAtColumn deveria falhar para chunk ausente")
	}

	// Versão mais antiga não substitui.
	old := g.GenerateChunk(origin)
	old.MTime = 0
	c.MTime = 5
	if s.PutChunk(old) {
		t.Error("PutChunk aceitou chunk com MTime mais antigo")
	}
	if s.ChunkVersion(origin) != 5 {
		t.Errorf("ChunkVersion = %d, want 5", s.ChunkVersion(origin))
	}
}

func TestEnsureChunkGenerates(t *testing.T) {
	s := NewTerrainStore()
	g := NewGenerator(3)

	origin := util.NewChunkCoord(0, 0)
	c := s.EnsureChunk(origin, g)
	if c == nil {
		t.Fatal("EnsureChunk retornou nil")
	}
	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1", s.Count())
	}

	// Segunda chamada devolve o mesmo chunk residente.
	if again := s.EnsureChunk(origin, g); again != c {
		t.Error("EnsureChunk regenerou chunk residente")
	}
}
