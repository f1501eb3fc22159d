package texture

import (
	"rig-renderer/internal/render"
	"rig-renderer/internal/scene"
)

// ForMaterials resolves the diffuse texture of each material. Materials
// without a texture, or whose texture cannot be loaded, are left out of the set.
func ForMaterials(materials []scene.Material, r Resolver) render.TextureSet {
	set := make(render.TextureSet)
	if r == nil {
		return set
	}
	for i, m := range materials {
		if m.Texture == "" {
			continue
		}
		if img := r.Resolve(m.Texture); img != nil {
			set[i] = img
		}
	}
	return set
}
