package models

import "math"

func exp(x float32) float64 {
	return math.Exp(float64(x))
}
