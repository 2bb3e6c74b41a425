package models

// ChartRequest is the typed chart input as read from flags or a request file.
type ChartRequest struct {
	ID           string   `json:"id,omitempty" yaml:"id"`
	TimestampUTC any      `json:"timestamp_utc,omitempty" yaml:"timestamp_utc"`
	Date         string   `json:"date,omitempty" yaml:"date"`
	Time         string   `json:"time,omitempty" yaml:"time"`
	Timezone     string   `json:"timezone,omitempty" yaml:"timezone"`
	RawOffset    *int     `json:"raw_offset,omitempty" yaml:"raw_offset"`
	DSTOffset    *int     `json:"dst_offset,omitempty" yaml:"dst_offset"`
	Latitude     *float64 `json:"latitude" yaml:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" yaml:"longitude" validate:"required,gte=-180,lte=180"`
	HouseSystem  string   `json:"houses_system,omitempty" yaml:"houses_system" default:"P"`
	Convention   string   `json:"wheel_convention,omitempty" yaml:"wheel_convention" default:"standard" validate:"oneof=standard alternate"`
	Design       bool     `json:"design,omitempty" yaml:"design"`
	Debug        bool     `json:"debug,omitempty" yaml:"debug"`
}

// TimeFields extracts the time input of the request.
func (r ChartRequest) TimeFields() TimeFields {
	return TimeFields{
		Timestamp: r.TimestampUTC,
		Date:      r.Date,
		Time:      r.Time,
		Zone:      r.Timezone,
		RawOffset: r.RawOffset,
		DSTOffset: r.DSTOffset,
	}
}
