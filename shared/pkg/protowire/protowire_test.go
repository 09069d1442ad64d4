package protowire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(1, -42)
	e.EncodeUvarint(2, 300)
	e.EncodeBool(3, true)
	e.EncodeFloat(4, 3.5)
	e.EncodeString(5, "terra")
	e.EncodeBytes(6, []byte{0xDE, 0xAD})

	d := NewDecoder(e.Bytes())

	seen := map[int]bool{}
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			t.Fatalf("ReadTag: %v", err)
		}
		seen[num] = true
		switch num {
		case 1:
			v, err := d.ReadVarint()
			if err != nil || v != -42 {
				t.Errorf("campo 1 = %d (%v), want -42", v, err)
			}
		case 2:
			v, err := d.ReadVarint()
			if err != nil || v != 300 {
				t.Errorf("campo 2 = %d (%v), want 300", v, err)
			}
		case 3:
			v, err := d.ReadBool()
			if err != nil || !v {
				t.Errorf("campo 3 = %v (%v), want true", v, err)
			}
		case 4:
			v, err := d.ReadFloat()
			if err != nil || v != 3.5 {
				t.Errorf("campo 4 = %v (%v), want 3.5", v, err)
			}
		case 5:
			v, err := d.ReadString()
			if err != nil || v != "terra" {
				t.Errorf("campo 5 = %q (%v), want \"terra\"", v, err)
			}
		case 6:
			v, err := d.ReadBytes()
			if err != nil || !bytes.Equal(v, []byte{0xDE, 0xAD}) {
				t.Errorf("campo 6 = %v (%v)", v, err)
			}
		default:
			if err := d.SkipField(num, typ); err != nil {
				t.Fatalf("SkipField(%d, %d): %v", num, typ, err)
			}
		}
	}

	for f := 1; f <= 6; f++ {
		if !seen[f] {
			t.Errorf("campo %d não apareceu no buffer", f)
		}
	}
}

func TestZeroDefaultsOmitted(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(1, 0)
	e.EncodeUvarint(2, 0)
	e.EncodeBool(3, false)
	e.EncodeFloat(4, 0)
	e.EncodeString(5, "")
	e.EncodeBytes(6, nil)

	if len(e.Bytes()) != 0 {
		t.Errorf("valores default serializaram %d bytes, want 0", len(e.Bytes()))
	}
}

func TestFloat32Packed(t *testing.T) {
	want := []float32{0, 1.5, -7.25, 1024}

	e := NewEncoder()
	e.EncodeFloat32Packed(1, want)

	d := NewDecoder(e.Bytes())
	num, typ, err := d.ReadTag()
	if err != nil || num != 1 || typ != 2 {
		t.Fatalf("tag = (%d, %d, %v), want (1, 2, nil)", num, typ, err)
	}

	got, err := d.ReadFloat32Packed()
	if err != nil {
		t.Fatalf("ReadFloat32Packed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("elemento %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSkipUnknownField(t *testing.T) {
	e := NewEncoder()
	e.EncodeString(9, "desconhecido")
	e.EncodeVarint(1, 7)

	d := NewDecoder(e.Bytes())
	var got int64 = -1
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			t.Fatalf("ReadTag: %v", err)
		}
		if num == 1 {
			got, err = d.ReadVarint()
			if err != nil {
				t.Fatalf("ReadVarint: %v", err)
			}
			continue
		}
		if err := d.SkipField(num, typ); err != nil {
			t.Fatalf("SkipField: %v", err)
		}
	}

	if got != 7 {
		t.Errorf("campo 1 = %d, want 7", got)
	}
}

func TestTruncatedBuffer(t *testing.T) {
	e := NewEncoder()
	e.EncodeString(1, "conteudo")

	data := e.Bytes()
	d := NewDecoder(data[:len(data)-3])
	if _, _, err := d.ReadTag(); err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	if _, err := d.ReadBytes(); err == nil {
		t.Error("ReadBytes em buffer truncado deveria falhar")
	}
}
