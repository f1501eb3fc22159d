package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"rig-renderer/internal/importer"
	"rig-renderer/internal/logging"
	"rig-renderer/internal/texture"
)

func main() {
	texDir := flag.String("textures", "", "Texture directory (default: model directory)")
	outDir := flag.String("out", "", "Write every decoded texture as PNG into this directory")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: texdump [-textures DIR] [-out DIR] model.bmd")
		os.Exit(2)
	}
	model := flag.Arg(0)
	if *texDir == "" {
		*texDir = filepath.Dir(model)
	}

	asset, err := importer.LoadBMD(model)
	if err != nil {
		logging.Fatal("load failed", "model", model, "err", err)
	}

	idx := texture.BuildIndex(*texDir)
	fmt.Printf("Indexed %d textures under %s\n", idx.Len(), *texDir)

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			logging.Fatal("create output dir", "dir", *outDir, "err", err)
		}
	}

	ok, failed := 0, 0
	for i, mtl := range asset.Scene.Materials {
		if mtl.Texture == "" {
			fmt.Printf("  [%d] (no texture)\n", i)
			continue
		}
		path, found := idx.ResolvePath(mtl.Texture)
		if !found {
			fmt.Printf("  [%d] %-32s MISSING\n", i, mtl.Texture)
			failed++
			continue
		}
		img, err := texture.LoadTexture(path)
		if err != nil {
			fmt.Printf("  [%d] %-32s %s: %v\n", i, mtl.Texture, path, err)
			failed++
			continue
		}
		b := img.Bounds()
		fmt.Printf("  [%d] %-32s %s %dx%d\n", i, mtl.Texture, path, b.Dx(), b.Dy())
		ok++

		if *outDir == "" {
			continue
		}
		dst := filepath.Join(*outDir, fmt.Sprintf("%02d_%s.png", i, mtl.Name))
		if err := writePNG(dst, img); err != nil {
			logging.Error("write failed", "path", dst, "err", err)
		}
	}

	fmt.Printf("\n%d decoded, %d failed\n", ok, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
