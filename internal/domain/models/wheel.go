package models

// WheelConvention selects how color/tone/base are numbered.
type WheelConvention string

const (
	ConventionStandard  WheelConvention = "standard"
	ConventionAlternate WheelConvention = "alternate"
)

// WheelCoordinate is a longitude's position on the 64-gate wheel.
type WheelCoordinate struct {
	Gate       int             `json:"gate"`
	Line       int             `json:"line"`
	Color      int             `json:"color"`
	Tone       int             `json:"tone"`
	Base       int             `json:"base"`
	ColorFrac  float64         `json:"color_fraction"`
	ToneFrac   float64         `json:"tone_fraction"`
	BaseFrac   float64         `json:"base_fraction"`
	GateIndex  int             `json:"gate_index"`
	Convention WheelConvention `json:"convention"`
}
