package animation

import "math"

// EasingFunc maps animation progress [0,1] to eased progress [0,1].
type EasingFunc func(t float64) float64

// Easing names an easing kernel, for use in options and configuration.
type Easing string

const (
	EasingLinear    Easing = "linear"
	EasingEaseOut   Easing = "easeOut"
	EasingEaseInOut Easing = "easeInOut"
)

// Linear applies no shaping.
func Linear(t float64) float64 {
	return t
}

// EaseOut decelerates toward the end of the transition (cubic).
func EaseOut(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOut accelerates through the first half and decelerates through the
// second (cubic).
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Func resolves the named kernel, defaulting to EaseOut for unknown names.
func (e Easing) Func() EasingFunc {
	switch e {
	case EasingLinear:
		return Linear
	case EasingEaseInOut:
		return EaseInOut
	default:
		return EaseOut
	}
}
