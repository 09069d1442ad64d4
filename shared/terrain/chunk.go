// Package terrain guarda os dados de terreno em chunks de 16x16 colunas e a
// geração procedural que alimenta o servidor.
package terrain

import (
	"TerraVista/shared/proto/tvnet"
	"TerraVista/shared/util"
)

// ChunkColumns é o número de colunas em um chunk (16x16).
const ChunkColumns = util.ChunkSize * util.ChunkSize

// Material identifica o material dominante de uma coluna de terreno.
type Material byte

const (
	MaterialGrass Material = iota
	MaterialDirt
	MaterialRock
	MaterialSand
	MaterialSnow
)

func (m Material) String() string {
	switch m {
	case MaterialGrass:
		return "Grama"
	case MaterialDirt:
		return "Terra"
	case MaterialRock:
		return "Rocha"
	case MaterialSand:
		return "Areia"
	case MaterialSnow:
		return "Neve"
	}
	return "Desconhecido"
}

// Chunk é um bloco de terreno 16x16: altura e material de cada coluna.
// Indexação [x][z] em coordenadas locais (0-15).
type Chunk struct {
	Origin    util.ChunkCoord
	Heights   [util.ChunkSize][util.ChunkSize]float32
	Materials [util.ChunkSize][util.ChunkSize]Material

	// MTime é a versão dos dados; incrementa a cada atualização.
	MTime int64

	// IsDirty marca o chunk para persistência.
	IsDirty bool
}

// HeightAt retorna a altura da coluna local (x, z).
func (c *Chunk) HeightAt(x, z int32) float32 {
	return c.Heights[x][z]
}

// MaterialAt retorna o material da coluna local (x, z).
func (c *Chunk) MaterialAt(x, z int32) Material {
	return c.Materials[x][z]
}

// ToMessage serializa o chunk para o protocolo tvnet (row-major em x).
func (c *Chunk) ToMessage() *tvnet.ChunkMessage {
	msg := &tvnet.ChunkMessage{
		X:         c.Origin.X,
		Z:         c.Origin.Z,
		MTime:     c.MTime,
		Heights:   make([]float32, 0, ChunkColumns),
		Materials: make([]byte, 0, ChunkColumns),
	}
	for x := 0; x < util.ChunkSize; x++ {
		for z := 0; z < util.ChunkSize; z++ {
			msg.Heights = append(msg.Heights, c.Heights[x][z])
			msg.Materials = append(msg.Materials, byte(c.Materials[x][z]))
		}
	}
	return msg
}

// ChunkFromMessage reconstrói um chunk a partir da mensagem do protocolo.
func ChunkFromMessage(msg *tvnet.ChunkMessage) (*Chunk, error) {
	if err := msg.Validate(ChunkColumns); err != nil {
		return nil, err
	}

	c := &Chunk{
		Origin: util.NewChunkCoord(msg.X, msg.Z),
		MTime:  msg.MTime,
	}
	i := 0
	for x := 0; x < util.ChunkSize; x++ {
		for z := 0; z < util.ChunkSize; z++ {
			c.Heights[x][z] = msg.Heights[i]
			c.Materials[x][z] = Material(msg.Materials[i])
			i++
		}
	}
	return c, nil
}
