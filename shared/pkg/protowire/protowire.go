// Package protowire implementa encoding/decoding no wire format do protobuf
// para as mensagens do protocolo tvnet. A aritmética de varint/tag fica por
// conta de google.golang.org/protobuf/encoding/protowire; aqui só mora a
// casca de Encoder/Decoder que as mensagens usam.
// Wire types: 0=Varint, 1=64bit, 2=LengthDelimited, 5=32bit
package protowire

import (
	"errors"
	"fmt"
	"math"

	pw "google.golang.org/protobuf/encoding/protowire"
)

var errTruncated = errors.New("protowire: dados truncados")

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset limpa o buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeVarint codifica um campo varint (int32, int64, bool, enum).
// Zero é o default do proto3 e não é serializado.
func (e *Encoder) EncodeVarint(fieldNum int, v int64) {
	if v == 0 {
		return
	}
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, uint64(v))
}

// EncodeUvarint codifica uint64.
func (e *Encoder) EncodeUvarint(fieldNum int, v uint64) {
	if v == 0 {
		return
	}
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, v)
}

// EncodeBool codifica um bool (true = varint 1).
func (e *Encoder) EncodeBool(fieldNum int, v bool) {
	if !v {
		return
	}
	e.EncodeVarint(fieldNum, 1)
}

// EncodeFloat codifica um float32 (wire type 5).
func (e *Encoder) EncodeFloat(fieldNum int, v float32) {
	if v == 0 {
		return
	}
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), pw.Fixed32Type)
	e.buf = pw.AppendFixed32(e.buf, math.Float32bits(v))
}

// EncodeString codifica uma string (length-delimited).
func (e *Encoder) EncodeString(fieldNum int, s string) {
	if s == "" {
		return
	}
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), pw.BytesType)
	e.buf = pw.AppendString(e.buf, s)
}

// EncodeBytes codifica um slice de bytes (length-delimited).
func (e *Encoder) EncodeBytes(fieldNum int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, b)
}

// EncodeSubmessage codifica uma submensagem já serializada.
func (e *Encoder) EncodeSubmessage(fieldNum int, data []byte) {
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, data)
}

// EncodeFloat32Packed codifica um slice de float32 no formato packed
// (um único campo length-delimited com 4 bytes LE por elemento).
func (e *Encoder) EncodeFloat32Packed(fieldNum int, vs []float32) {
	if len(vs) == 0 {
		return
	}
	payload := make([]byte, 0, len(vs)*4)
	for _, v := range vs {
		payload = pw.AppendFixed32(payload, math.Float32bits(v))
	}
	e.EncodeSubmessage(fieldNum, payload)
}

// ---------- DECODER ----------

// Decoder percorre um buffer no wire format do protobuf.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder cria um decoder sobre data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Done informa se o buffer foi consumido por completo.
func (d *Decoder) Done() bool {
	return d.pos >= len(d.buf)
}

// ReadTag lê a próxima tag (field number + wire type).
func (d *Decoder) ReadTag() (int, int, error) {
	num, typ, n := pw.ConsumeTag(d.buf[d.pos:])
	if n < 0 {
		return 0, 0, fmt.Errorf("protowire: tag inválida na posição %d: %w", d.pos, pw.ParseError(n))
	}
	d.pos += n
	return int(num), int(typ), nil
}

// ReadVarint lê um campo varint como int64.
func (d *Decoder) ReadVarint() (int64, error) {
	v, n := pw.ConsumeVarint(d.buf[d.pos:])
	if n < 0 {
		return 0, errTruncated
	}
	d.pos += n
	return int64(v), nil
}

// ReadBool lê um campo varint como bool.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadVarint()
	return v != 0, err
}

// ReadFloat lê um campo fixed32 como float32.
func (d *Decoder) ReadFloat() (float32, error) {
	v, n := pw.ConsumeFixed32(d.buf[d.pos:])
	if n < 0 {
		return 0, errTruncated
	}
	d.pos += n
	return math.Float32frombits(v), nil
}

// ReadBytes lê um campo length-delimited. O slice retornado referencia o
// buffer original; copie antes de reter.
func (d *Decoder) ReadBytes() ([]byte, error) {
	b, n := pw.ConsumeBytes(d.buf[d.pos:])
	if n < 0 {
		return nil, errTruncated
	}
	d.pos += n
	return b, nil
}

// ReadString lê um campo length-delimited como string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	return string(b), err
}

// ReadFloat32Packed decodifica um campo packed de float32.
func (d *Decoder) ReadFloat32Packed() ([]float32, error) {
	payload, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("protowire: packed float32 com %d bytes (não múltiplo de 4)", len(payload))
	}
	out := make([]float32, 0, len(payload)/4)
	for len(payload) > 0 {
		v, n := pw.ConsumeFixed32(payload)
		if n < 0 {
			return nil, errTruncated
		}
		out = append(out, math.Float32frombits(v))
		payload = payload[n:]
	}
	return out, nil
}

// SkipField pula um campo de wire type desconhecido.
func (d *Decoder) SkipField(fieldNum, wireType int) error {
	n := pw.ConsumeFieldValue(pw.Number(fieldNum), pw.Type(wireType), d.buf[d.pos:])
	if n < 0 {
		return fmt.Errorf("protowire: campo %d (wire type %d) inválido: %w", fieldNum, wireType, pw.ParseError(n))
	}
	d.pos += n
	return nil
}
