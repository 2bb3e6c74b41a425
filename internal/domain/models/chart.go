package models

import "time"

// Placement is one body's derived position in a chart.
type Placement struct {
	Longitude     float64          `json:"lon"`
	Latitude      float64          `json:"lat"`
	Speed         float64          `json:"speed"`
	Sign          string           `json:"sign"`
	House         int              `json:"house"`
	HouseFallback bool             `json:"house_fallback,omitempty"`
	Wheel         *WheelCoordinate `json:"wheel,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// HousePlacement holds the reduced cusps and angles of a chart.
type HousePlacement struct {
	System    HouseSystem `json:"system"`
	Ascendant float64     `json:"asc"`
	Midheaven float64     `json:"mc"`
	Cusps     [12]float64 `json:"cusps"`
}

// Degradation flags every fallback path a computation took.
type Degradation struct {
	HouseSystemFallback bool `json:"house_system_fallback,omitempty"`
	HouseFallback       bool `json:"house_fallback,omitempty"`
	SolverBracket       bool `json:"solver_bracket,omitempty"`
	BodyFailures        int  `json:"body_failures,omitempty"`
}

// Any reports whether any fallback path was taken.
func (d Degradation) Any() bool {
	return d.HouseSystemFallback || d.HouseFallback || d.SolverBracket || d.BodyFailures > 0
}

// SolverReport describes how the design instant was found.
type SolverReport struct {
	Target      float64 `json:"target"`
	Residual    float64 `json:"residual"`
	Iterations  int     `json:"iterations"`
	Evaluations int     `json:"evaluations"`
	Retries     int     `json:"retries"`
	Converged   bool    `json:"converged"`
	Degraded    bool    `json:"degraded"`
}

// ChartFrame is the classification of all bodies at a single instant.
type ChartFrame struct {
	DatetimeUTC time.Time            `json:"datetime_utc"`
	JulianDay   float64              `json:"jd"`
	Planets     map[string]Placement `json:"planets"`
	Houses      HousePlacement       `json:"houses"`
}

// DesignFrame is the chart frame at the design instant.
type DesignFrame struct {
	ChartFrame
	SolarArc float64      `json:"solar_arc"`
	Solver   SolverReport `json:"solver"`
}

// ChartSettings echoes the effective settings of a computation.
type ChartSettings struct {
	HouseSystem HouseSystem     `json:"houses_system"`
	Flags       Flags           `json:"flags"`
	Convention  WheelConvention `json:"wheel_convention"`
}

// ChartDebug carries raw provider diagnostics.
type ChartDebug struct {
	JulianDay    float64   `json:"jd"`
	CuspsLen     int       `json:"cusps_len"`
	AscMCRaw     []float64 `json:"ascmc_raw"`
	FailedBodies []string  `json:"failed_bodies,omitempty"`
}

// Chart is the full result of the chart pipeline.
type Chart struct {
	ID         string          `json:"id"`
	Resolution Resolution      `json:"-"`
	Mode       ResolutionMode  `json:"resolution_mode"`
	Adjustment LocalAdjustment `json:"local_adjustment,omitempty"`
	Settings   ChartSettings   `json:"settings"`
	ChartFrame
	Design   *DesignFrame `json:"design,omitempty"`
	Degraded Degradation  `json:"degraded"`
	Warnings []string     `json:"warnings,omitempty"`
	Debug    *ChartDebug  `json:"__debug,omitempty"`
}
