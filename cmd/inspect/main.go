package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rig-renderer/internal/filter"
	"rig-renderer/internal/importer"
	"rig-renderer/internal/logging"
	"rig-renderer/internal/pipeline"
	"rig-renderer/internal/scene"
)

func main() {
	clip := flag.Int("clip", 0, "Clip whose channels are listed with -channels")
	channels := flag.Bool("channels", false, "List the channels of the selected clip")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-channels] [-clip N] model.bmd")
		os.Exit(2)
	}
	path := flag.Arg(0)

	asset, err := importer.LoadBMD(path)
	if err != nil {
		logging.Fatal("load failed", "model", path, "err", err)
	}
	sc := asset.Scene

	fmt.Printf("Model %q: nodes=%d, meshes=%d, clips=%d\n", sc.Name, sc.Graph.Len(), len(sc.Meshes), len(asset.Clips))

	fmt.Println("\nNodes:")
	sc.Graph.Walk(func(id scene.NodeID, depth int) {
		n := sc.Graph.Node(id)
		line := strings.Repeat("  ", depth+1) + n.Name
		if len(n.Meshes) > 0 {
			line += fmt.Sprintf("  meshes=%v", n.Meshes)
		}
		fmt.Println(line)
	})

	fmt.Println("\nMeshes:")
	for i, m := range sc.Meshes {
		mtl := scene.Material{}
		if m.Material >= 0 && m.Material < len(sc.Materials) {
			mtl = sc.Materials[m.Material]
		}
		fmt.Printf("  Mesh[%d]: verts=%d, faces=%d, bones=%d, normals=%t, uvs=%t, texture=%q, kind=%s\n",
			i, len(m.Positions), len(m.Faces), len(m.Bones), m.HasNormals(), m.HasTexCoords(),
			mtl.Texture, filter.Classify(m, mtl.Texture))
	}

	fmt.Println("\nClips:")
	for i, c := range asset.Clips {
		fmt.Printf("  [%d] %s: duration=%d, channels=%d\n", i, c.Name, c.Duration, len(c.Channels))
	}

	// Bounds need the bind pose skinned into world space.
	pose, err := pipeline.New(sc, nil, nil)
	if err != nil {
		logging.Fatal("pose failed", "model", path, "err", err)
	}
	if lo, hi, ok := pose.Scene().Bounds(); ok {
		size := hi.Sub(lo)
		fmt.Printf("\nBind pose bounds: min(%.1f, %.1f, %.1f) max(%.1f, %.1f, %.1f) size %.1f x %.1f x %.1f\n",
			lo[0], lo[1], lo[2], hi[0], hi[1], hi[2], size[0], size[1], size[2])
	}

	if !*channels {
		return
	}
	if *clip < 0 || *clip >= len(asset.Clips) {
		logging.Fatal("clip out of range", "clip", *clip, "clips", len(asset.Clips))
	}
	c := asset.Clips[*clip]
	fmt.Printf("\nChannels of %s:\n", c.Name)
	for _, ch := range c.Channels {
		fmt.Printf("  %-24s positions=%d rotations=%d\n", ch.Node, len(ch.Positions), len(ch.Rotations))
	}
	if err := c.Validate(); err != nil {
		fmt.Printf("  invalid: %v\n", err)
	}
}
