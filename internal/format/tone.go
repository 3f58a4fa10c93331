package format

import "math"

// Tone is the positive/negative/neutral reading of a number, used by
// renderers to pick colours or arrows.
type Tone int

const (
	Neutral Tone = iota
	Positive
	Negative
)

func (t Tone) String() string {
	switch t {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// MarshalText lets tones serialize as their names.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Classify reads the sign of v; zero is neutral.
func Classify(v float64) Tone {
	switch {
	case math.IsNaN(v):
		return Neutral
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	default:
		return Neutral
	}
}

// ClassifyPtr is Classify for an optional value; nil is neutral.
func ClassifyPtr(v *float64) Tone {
	if v == nil {
		return Neutral
	}
	return Classify(*v)
}

// ClassifyAtLeast is positive when v >= threshold and negative otherwise.
func ClassifyAtLeast(v, threshold float64) Tone {
	if math.IsNaN(v) {
		return Neutral
	}
	if v >= threshold {
		return Positive
	}
	return Negative
}

// OptClassifyAtLeast is ClassifyAtLeast for an optional value; nil is neutral.
func OptClassifyAtLeast(v *float64, threshold float64) Tone {
	if v == nil {
		return Neutral
	}
	return ClassifyAtLeast(*v, threshold)
}
