package raster

import (
	"math"

	"rig-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in view space.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig returns a key light from above plus a rim light.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, 0, -1}

	halfMain := lightDir.Sub(viewDir).Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  halfMain,
		Ambient:   0.35,
		Hemi:      0.30,
		Direct:    0.90,
		Rim:       0.30,
		SpecInt:   0.35,
		SpecPow:   50.0,
		Exposure:  1.0,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit normal.
// Two-sided lighting lights back faces like front faces; otherwise faces
// turned away from a light receive none of it.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3, twoSided bool) float64 {
	ndlMain := normal.Dot(lc.LightDir)
	ndlRim := normal.Dot(lc.RimDir)
	if twoSided {
		ndlMain = math.Abs(ndlMain)
		ndlRim = math.Abs(ndlRim)
	} else {
		ndlMain = math.Max(ndlMain, 0)
		ndlRim = math.Max(ndlRim, 0)
	}

	// Hemisphere fill
	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if twoSided {
		ndh = math.Abs(ndh)
	}
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadePixel turns a linear base colour and a shade factor into display sRGB bytes.
func (lc *LightConfig) shadePixel(lr, lg, lb, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	fr := math.Pow(ACESTonemap(lr*k), lc.InvGamma)
	fg := math.Pow(ACESTonemap(lg*k), lc.InvGamma)
	fb := math.Pow(ACESTonemap(lb*k), lc.InvGamma)
	return clamp255(fr * 255), clamp255(fg * 255), clamp255(fb * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
