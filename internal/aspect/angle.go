package aspect

import "math"

// Normalize reduces any angle to [0,360)
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 + 360 은 float 반올림으로 360이 될 수 있음
	if a >= 360 {
		a = 0
	}
	return a
}

// Separation returns the shortest angular distance between two longitudes, in [0,180]
func Separation(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		return 360 - d
	}
	return d
}
