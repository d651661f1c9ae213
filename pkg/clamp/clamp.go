package clamp

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

// Between limits v to the closed range [lo, hi].
func Between[T number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Duty limits a PWM speed to the 8-bit duty range used by the motor drivers.
func Duty(speed int) int {
	return Between(speed, 0, 255)
}

func Abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
