package bmd

// Triangle holds polygon type and index quadruples into vertex/normal/texcoord arrays.
// Polygon == 4 means quad; otherwise only the first three indices are used.
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Corners returns how many index slots of the triangle are in use.
func (t Triangle) Corners() int {
	if t.Polygon == 4 {
		return 4
	}
	return 3
}

// Mesh holds parsed geometry for one sub-mesh within a BMD file.
// Positions and normals are stored in the space of the bone named by Nodes / NormalNodes.
type Mesh struct {
	Verts       [][3]float32
	Nodes       []int16 // bone index per vertex
	Normals     [][3]float32
	NormalNodes []int16 // bone index per normal
	UVs         [][2]float32
	Tris        []Triangle
	Texture     int16
	TexPath     string // texture reference from BMD (e.g. "sword04.jpg")
}

// Action is one animation of the model. Every non-dummy bone carries
// NumKeys position and rotation keys for it.
type Action struct {
	NumKeys       int
	LockPositions bool
	Positions     [][3]float32 // root motion, present when LockPositions
}

// BoneKeys are the keyframes of one bone for one action.
type BoneKeys struct {
	Positions [][3]float32
	Rotations [][3]float32 // Euler XYZ radians
}

// Bone is one entry of the skeleton. Dummy bones carry no data.
type Bone struct {
	Name    string
	Parent  int
	IsDummy bool
	Keys    []BoneKeys // indexed by action
}

// BindPosition is the position key of action 0, frame 0.
func (b *Bone) BindPosition() [3]float32 {
	if len(b.Keys) == 0 || len(b.Keys[0].Positions) == 0 {
		return [3]float32{}
	}
	return b.Keys[0].Positions[0]
}

// BindRotation is the rotation key of action 0, frame 0.
func (b *Bone) BindRotation() [3]float32 {
	if len(b.Keys) == 0 || len(b.Keys[0].Rotations) == 0 {
		return [3]float32{}
	}
	return b.Keys[0].Rotations[0]
}

// Model is a fully parsed BMD file.
type Model struct {
	Name    string
	Version byte
	Meshes  []Mesh
	Bones   []Bone
	Actions []Action
}
