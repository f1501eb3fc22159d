package bmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"rig-renderer/internal/crypto"
)

// Encode serializes m in the layout Decode reads. Version 12 output is XOR
// encrypted; any other version is written plain under version 10.
func Encode(m *Model) ([]byte, error) {
	w := &writer{}
	w.str(m.Name, 32)
	w.u16(uint16(len(m.Meshes)))
	w.u16(uint16(len(m.Bones)))
	w.u16(uint16(len(m.Actions)))

	for i := range m.Meshes {
		if err := w.mesh(&m.Meshes[i]); err != nil {
			return nil, fmt.Errorf("bmd: encode mesh %d: %w", i, err)
		}
	}

	for _, act := range m.Actions {
		w.i16(int16(act.NumKeys))
		if act.LockPositions {
			w.u8(1)
			for k := 0; k < act.NumKeys; k++ {
				w.vec3(keyAt(act.Positions, k))
			}
		} else {
			w.u8(0)
		}
	}

	for _, b := range m.Bones {
		if b.IsDummy {
			w.u8(1)
			continue
		}
		w.u8(0)
		w.str(b.Name, 32)
		w.i16(int16(b.Parent))
		for a, act := range m.Actions {
			if act.NumKeys <= 0 {
				continue
			}
			var keys BoneKeys
			if a < len(b.Keys) {
				keys = b.Keys[a]
			}
			for k := 0; k < act.NumKeys; k++ {
				w.vec3(keyAt(keys.Positions, k))
			}
			for k := 0; k < act.NumKeys; k++ {
				w.vec3(keyAt(keys.Rotations, k))
			}
		}
	}

	body := w.buf.Bytes()
	if m.Version == 12 {
		out := make([]byte, 0, 8+len(body))
		out = append(out, 'B', 'M', 'D', 12)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
		return append(out, crypto.EncryptXOR(body)...), nil
	}
	return append([]byte{'B', 'M', 'D', 10}, body...), nil
}

func keyAt(keys [][3]float32, k int) [3]float32 {
	if k < len(keys) {
		return keys[k]
	}
	return [3]float32{}
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(b byte) { w.buf.WriteByte(b) }

func (w *writer) u16(v uint16) {
	w.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }

func (w *writer) f32(v float32) {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(v)))
}

func (w *writer) vec3(v [3]float32) {
	w.f32(v[0])
	w.f32(v[1])
	w.f32(v[2])
}

// str writes s NUL padded to n bytes, truncating if needed.
func (w *writer) str(s string, n int) {
	b := make([]byte, n)
	copy(b[:n-1], s)
	w.buf.Write(b)
}

func (w *writer) mesh(m *Mesh) error {
	if len(m.Nodes) != len(m.Verts) {
		return fmt.Errorf("%d vertices but %d vertex nodes", len(m.Verts), len(m.Nodes))
	}
	w.i16(int16(len(m.Verts)))
	w.i16(int16(len(m.Normals)))
	w.i16(int16(len(m.UVs)))
	w.i16(int16(len(m.Tris)))
	w.i16(m.Texture)

	for i, v := range m.Verts {
		w.i16(m.Nodes[i])
		w.i16(0)
		w.vec3(v)
	}
	for i, n := range m.Normals {
		var node int16
		if i < len(m.NormalNodes) {
			node = m.NormalNodes[i]
		}
		w.i16(node)
		w.i16(0)
		w.vec3(n)
		w.i16(0)
		w.i16(0)
	}
	for _, uv := range m.UVs {
		w.f32(uv[0])
		w.f32(uv[1])
	}
	for _, t := range m.Tris {
		rec := make([]byte, 64)
		rec[0] = byte(t.Polygon)
		for k := 0; k < 4; k++ {
			binary.LittleEndian.PutUint16(rec[2+k*2:], uint16(t.VI[k]))
			binary.LittleEndian.PutUint16(rec[10+k*2:], uint16(t.NI[k]))
			binary.LittleEndian.PutUint16(rec[18+k*2:], uint16(t.TI[k]))
		}
		w.buf.Write(rec)
	}
	w.str(strings.ReplaceAll(m.TexPath, "/", "\\"), 32)
	return nil
}
