package mathutil

import "math"

// ModelUpright turns a Z-up model to face the Y-up camera: Rx(-90°).
var ModelUpright = RotX(-math.Pi / 2)

// WrapAngle folds an angle in radians into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
