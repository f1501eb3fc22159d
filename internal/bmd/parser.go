package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"rig-renderer/internal/crypto"
)

var (
	ErrEncrypted = errors.New("unsupported BMD encryption")
	ErrTruncated = errors.New("truncated BMD data")
)

const (
	maxMeshes  = 100
	maxBones   = 1024
	maxActions = 1024
)

// Parse reads a BMD file. Versions 10 (plain) and 12 (XOR) are supported.
func Parse(filepath string) (*Model, error) {
	raw, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", filepath, err)
	}
	m, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("bmd: %s: %w", filepath, err)
	}
	return m, nil
}

// Decode parses BMD bytes including the 4-byte "BMD"+version header.
func Decode(raw []byte) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, errors.New("invalid header")
	}

	version := raw[3]
	var data []byte

	switch version {
	case 15:
		return nil, fmt.Errorf("version %d: %w", version, ErrEncrypted)
	case 12:
		if len(raw) < 8 {
			return nil, fmt.Errorf("v12 header: %w", ErrTruncated)
		}
		size := binary.LittleEndian.Uint32(raw[4:8])
		if 8+int(size) > len(raw) {
			return nil, fmt.Errorf("v12 data: %w", ErrTruncated)
		}
		data = crypto.DecryptXOR(raw[8 : 8+size])
	default:
		data = raw[4:]
	}

	r := &reader{data: data}
	m, err := r.parse()
	if err != nil {
		return nil, err
	}
	m.Version = version
	return m, nil
}

type reader struct {
	data  []byte
	off   int
	short bool
}

func (r *reader) need(n int) bool {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return false
	}
	return true
}

func (r *reader) readStr(n int) string {
	if !r.need(n) {
		return ""
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	// Find null terminator
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	if !r.need(2) {
		return 0
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.off:]))
	r.off += 2
	return v
}

func (r *reader) readU16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readF32() float32 {
	if !r.need(4) {
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readVec3() [3]float32 {
	return [3]float32{r.readF32(), r.readF32(), r.readF32()}
}

func (r *reader) readByte() byte {
	if !r.need(1) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) parse() (*Model, error) {
	m := &Model{Name: r.readStr(32)}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		return nil, fmt.Errorf("invalid mesh count %d", meshCount)
	}
	if boneCount > maxBones || actionCount > maxActions {
		return nil, fmt.Errorf("invalid bone/action count %d/%d", boneCount, actionCount)
	}

	m.Meshes = make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		mesh, err := r.parseMesh()
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		m.Meshes = append(m.Meshes, mesh)
	}

	m.Actions = make([]Action, actionCount)
	for a := range m.Actions {
		act := &m.Actions[a]
		act.NumKeys = int(r.readI16())
		if act.NumKeys < 0 {
			return nil, fmt.Errorf("action %d: negative key count %d", a, act.NumKeys)
		}
		act.LockPositions = r.readByte() > 0
		if act.LockPositions {
			act.Positions = make([][3]float32, act.NumKeys)
			for k := range act.Positions {
				act.Positions[k] = r.readVec3()
			}
		}
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if r.readByte() > 0 {
			m.Bones = append(m.Bones, Bone{Parent: -1, IsDummy: true})
			continue
		}

		bone := Bone{
			Name:   r.readStr(32),
			Parent: int(r.readI16()),
			Keys:   make([]BoneKeys, actionCount),
		}
		for a, act := range m.Actions {
			if act.NumKeys <= 0 {
				continue
			}
			keys := BoneKeys{
				Positions: make([][3]float32, act.NumKeys),
				Rotations: make([][3]float32, act.NumKeys),
			}
			for k := range keys.Positions {
				keys.Positions[k] = r.readVec3()
			}
			for k := range keys.Rotations {
				keys.Rotations[k] = r.readVec3()
			}
			bone.Keys[a] = keys
		}
		m.Bones = append(m.Bones, bone)
	}

	if r.short {
		return nil, ErrTruncated
	}
	return m, nil
}

func (r *reader) parseMesh() (Mesh, error) {
	nv := int(r.readI16())
	nn := int(r.readI16())
	ntc := int(r.readI16())
	nt := int(r.readI16())
	tex := r.readI16()
	if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
		return Mesh{}, fmt.Errorf("negative element count")
	}

	// Vertices: 16 bytes each (node:i16, pad:i16, x:f32, y:f32, z:f32)
	verts := make([][3]float32, nv)
	nodes := make([]int16, nv)
	for j := 0; j < nv; j++ {
		nodes[j] = r.readI16()
		_ = r.readI16() // padding
		verts[j] = r.readVec3()
	}

	// Normals: 20 bytes each (node:i16, pad:i16, nx:f32, ny:f32, nz:f32, bind:i16, pad:i16)
	normals := make([][3]float32, nn)
	normalNodes := make([]int16, nn)
	for j := 0; j < nn; j++ {
		normalNodes[j] = r.readI16()
		_ = r.readI16() // padding
		normals[j] = r.readVec3()
		_ = r.readI16() // bindVertex
		_ = r.readI16() // padding
	}

	// TexCoords: 8 bytes each (u:f32, v:f32)
	uvs := make([][2]float32, ntc)
	for j := 0; j < ntc; j++ {
		uvs[j][0] = r.readF32()
		uvs[j][1] = r.readF32()
	}

	// Triangles: 64 bytes each
	tris := make([]Triangle, nt)
	for j := 0; j < nt; j++ {
		if !r.need(64) {
			return Mesh{}, ErrTruncated
		}
		base := r.off
		poly := int(r.data[base])
		var vi, ni, ti [4]int16
		for k := 0; k < 4; k++ {
			vi[k] = int16(binary.LittleEndian.Uint16(r.data[base+2+k*2:]))
			ni[k] = int16(binary.LittleEndian.Uint16(r.data[base+10+k*2:]))
			ti[k] = int16(binary.LittleEndian.Uint16(r.data[base+18+k*2:]))
		}
		tris[j] = Triangle{Polygon: poly, VI: vi, NI: ni, TI: ti}
		r.off += 64
	}

	// Normalize backslashes
	texPath := strings.ReplaceAll(r.readStr(32), "\\", "/")

	return Mesh{
		Verts:       verts,
		Nodes:       nodes,
		Normals:     normals,
		NormalNodes: normalNodes,
		UVs:         uvs,
		Tris:        tris,
		Texture:     tex,
		TexPath:     texPath,
	}, nil
}
