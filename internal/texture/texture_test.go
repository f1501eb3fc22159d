package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"rig-renderer/internal/scene"
)

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeTGA(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tga.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeBMP(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	red := solid(color.NRGBA{R: 255, A: 255})
	writeFile(t, filepath.Join(dir, "sword.jpg"), encodeJPEG(t, red))
	writeFile(t, filepath.Join(dir, "sub", "Sword.png"), encodePNG(t, red))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not a texture"))

	idx := BuildIndex(dir)
	if idx.Len() != 1 {
		t.Errorf("Len = %d, want 1", idx.Len())
	}
	path, ok := idx.ResolvePath(`C:\art\Data\Item\SWORD.bmp`)
	if !ok || filepath.Ext(path) != ".png" {
		t.Errorf("ResolvePath = %q, %t; want the png", path, ok)
	}
	if _, ok := idx.ResolvePath("shield.jpg"); ok {
		t.Error("unknown texture resolved")
	}
}

func TestLoadTextureContainers(t *testing.T) {
	dir := t.TempDir()
	green := solid(color.NRGBA{G: 255, A: 255})

	files := map[string][]byte{
		"skin.png":  encodePNG(t, green),
		"skin.jpg":  encodeJPEG(t, green),
		"skin.jpeg": encodeJPEG(t, green),
		"skin.bmp":  encodeBMP(t, green),
		"skin.tga":  encodeTGA(t, green),
		"skin.ozt":  append(make([]byte, 4), encodeTGA(t, green)...),
		"skin.ozj":  append(make([]byte, 24), encodeJPEG(t, green)...),
		// No known extension: chosen by signature.
		"png.dat": encodePNG(t, green),
		"jpg.dat": encodeJPEG(t, green),
		"tga.dat": encodeTGA(t, green),
	}
	for name, data := range files {
		writeFile(t, filepath.Join(dir, name), data)
	}
	writeFile(t, filepath.Join(dir, "short.ozt"), []byte{1, 2})
	writeFile(t, filepath.Join(dir, "short.ozj"), make([]byte, 24))

	for name := range files {
		img, err := LoadTexture(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if img.Bounds() != image.Rect(0, 0, 4, 4) {
			t.Errorf("%s: bounds = %v", name, img.Bounds())
		}
		if c := img.NRGBAAt(1, 1); c.G < 200 || c.R > 50 || c.A != 255 {
			t.Errorf("%s: pixel = %v, want green", name, c)
		}
	}
	for _, name := range []string{"short.ozt", "short.ozj"} {
		if _, err := LoadTexture(filepath.Join(dir, name)); err == nil {
			t.Errorf("%s accepted", name)
		}
	}
}

func TestCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hull.png"), encodePNG(t, solid(color.NRGBA{B: 255, A: 255})))
	writeFile(t, filepath.Join(dir, "broken.png"), []byte("garbage"))

	c := NewCache(BuildIndex(dir))
	a := c.Resolve("hull.jpg")
	b := c.Resolve("Data/hull.tga")
	if a == nil || a != b {
		t.Errorf("Resolve returned %p and %p, want one cached image", a, b)
	}
	if img := c.Resolve("broken.png"); img != nil {
		t.Error("undecodable texture returned an image")
	}
	if img := c.Resolve("missing.png"); img != nil {
		t.Error("missing texture returned an image")
	}
}

func TestForMaterials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hull.png"), encodePNG(t, solid(color.NRGBA{A: 255})))

	mats := []scene.Material{
		{Name: "plain"},
		{Name: "hull", Texture: "hull.jpg"},
		{Name: "lost", Texture: "lost.jpg"},
	}
	set := ForMaterials(mats, NewCache(BuildIndex(dir)))
	if len(set) != 1 || set[1] == nil {
		t.Errorf("set = %v, want only material 1", set)
	}
	if got := ForMaterials(mats, nil); len(got) != 0 {
		t.Errorf("nil resolver gave %d textures", len(got))
	}
}
