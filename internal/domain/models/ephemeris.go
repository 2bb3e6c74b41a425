package models

// Body names a point the ephemeris can position.
type Body string

const (
	Sun       Body = "sun"
	Moon      Body = "moon"
	Mercury   Body = "mercury"
	Venus     Body = "venus"
	Mars      Body = "mars"
	Jupiter   Body = "jupiter"
	Saturn    Body = "saturn"
	Uranus    Body = "uranus"
	Neptune   Body = "neptune"
	Pluto     Body = "pluto"
	Chiron    Body = "chiron"
	TrueNode  Body = "true_node"
	Lilith    Body = "lilith"
	SouthNode Body = "south_node"
)

// DefaultBodies is the body set computed when none is configured. Chiron is
// requested explicitly since the built-in provider cannot place it.
var DefaultBodies = []Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn,
	Uranus, Neptune, Pluto, TrueNode, Lilith,
}

// Flags selects ephemeris computation options.
type Flags uint32

const (
	FlagEphemerisFiles Flags = 1 << 1
	FlagSpeed          Flags = 1 << 8
)

// DefaultFlags matches the flag set the chart pipeline requests.
const DefaultFlags = FlagEphemerisFiles | FlagSpeed

// HouseSystem is a single-letter house system code.
type HouseSystem string

const (
	Placidus      HouseSystem = "P"
	Koch          HouseSystem = "K"
	Equal         HouseSystem = "E"
	WholeSign     HouseSystem = "W"
	Regiomontanus HouseSystem = "R"
	Campanus      HouseSystem = "C"
	Alcabitius    HouseSystem = "B"
	Horizontal    HouseSystem = "H"
	Morinus       HouseSystem = "M"
	Topocentric   HouseSystem = "T"
	Porphyry      HouseSystem = "O"
)

// Position is a body's ecliptic position as returned by the ephemeris.
// Longitude may fall outside [0, 360).
type Position struct {
	Longitude float64
	Latitude  float64
	Speed     float64 // degrees per day
}

// Houses is the raw house data for an instant and location.
// Cusps carries 12 values, or 13 when the provider uses index-1-based output.
type Houses struct {
	Cusps     []float64
	Ascendant float64
	Midheaven float64
}
