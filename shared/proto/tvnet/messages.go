// Package tvnet define as mensagens trocadas entre o servidor de terreno e o
// visor, serializadas no wire format do protobuf via shared/pkg/protowire.
package tvnet

import (
	"fmt"

	"TerraVista/shared/pkg/protowire"
)

// Tipos de mensagem transportados no Envelope.
const (
	TypeServerStatus  int32 = 1
	TypeChunk         int32 = 2
	TypeRegionRequest int32 = 3
)

// Envelope embrulha qualquer mensagem do protocolo com seu tipo.
type Envelope struct {
	Type    int32
	Payload []byte
}

func (m *Envelope) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.Type))
	e.EncodeBytes(2, m.Payload)
	return e.Bytes()
}

func (m *Envelope) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Type = int32(v)
		case 2:
			b, err := d.ReadBytes()
			if err != nil {
				return err
			}
			m.Payload = append([]byte(nil), b...)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// ServerStatus informa o estado do servidor ao visor (handshake e avisos).
type ServerStatus struct {
	Message   string
	Ready     bool
	WorldName string
	Seed      int64
}

func (m *ServerStatus) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.Message)
	e.EncodeBool(2, m.Ready)
	e.EncodeString(3, m.WorldName)
	e.EncodeVarint(4, m.Seed)
	return e.Bytes()
}

func (m *ServerStatus) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			if m.Message, err = d.ReadString(); err != nil {
				return err
			}
		case 2:
			if m.Ready, err = d.ReadBool(); err != nil {
				return err
			}
		case 3:
			if m.WorldName, err = d.ReadString(); err != nil {
				return err
			}
		case 4:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Seed = v
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChunkMessage carrega um chunk de terreno: alturas das colunas (16x16,
// row-major) e o id de material de cada coluna.
type ChunkMessage struct {
	X         int32
	Z         int32
	MTime     int64
	Heights   []float32
	Materials []byte
}

func (m *ChunkMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.X))
	e.EncodeVarint(2, int64(m.Z))
	e.EncodeVarint(3, m.MTime)
	e.EncodeFloat32Packed(4, m.Heights)
	e.EncodeBytes(5, m.Materials)
	return e.Bytes()
}

func (m *ChunkMessage) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.X = int32(v)
		case 2:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Z = int32(v)
		case 3:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.MTime = v
		case 4:
			if m.Heights, err = d.ReadFloat32Packed(); err != nil {
				return err
			}
		case 5:
			b, err := d.ReadBytes()
			if err != nil {
				return err
			}
			m.Materials = append([]byte(nil), b...)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate confere se os buffers têm o tamanho de um chunk completo.
func (m *ChunkMessage) Validate(columns int) error {
	if len(m.Heights) != columns {
		return fmt.Errorf("tvnet: chunk (%d, %d) com %d alturas, esperado %d", m.X, m.Z, len(m.Heights), columns)
	}
	if len(m.Materials) != columns {
		return fmt.Errorf("tvnet: chunk (%d, %d) com %d materiais, esperado %d", m.X, m.Z, len(m.Materials), columns)
	}
	return nil
}

// RegionRequest pede ao servidor os chunks em volta de um centro.
type RegionRequest struct {
	CenterX int32
	CenterZ int32
	Radius  int32
}

func (m *RegionRequest) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.CenterX))
	e.EncodeVarint(2, int64(m.CenterZ))
	e.EncodeVarint(3, int64(m.Radius))
	return e.Bytes()
}

func (m *RegionRequest) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.CenterX = int32(v)
		case 2:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.CenterZ = int32(v)
		case 3:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Radius = int32(v)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}
