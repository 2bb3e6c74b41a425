package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"Astrolabe/internal/domain/models"
)

// requestFlags binds the chart request flags shared by chart, design and resolve.
type requestFlags struct {
	file        string
	id          string
	timestamp   string
	date        string
	clock       string
	zone        string
	rawOffset   int
	dstOffset   int
	lat         float64
	lon         float64
	houseSystem string
	convention  string
	design      bool
	debug       bool
}

func (f *requestFlags) bindTime(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.timestamp, "timestamp", "", "UTC timestamp: unix seconds or ISO-8601")
	fs.StringVar(&f.date, "date", "", "local date D.M.YYYY")
	fs.StringVar(&f.clock, "time", "", "local time H:MM[:SS]")
	fs.StringVar(&f.zone, "tz", "", "IANA zone name for --date/--time")
	fs.IntVar(&f.rawOffset, "raw-offset", 0, "standard UTC offset in seconds for --date/--time")
	fs.IntVar(&f.dstOffset, "dst-offset", 0, "daylight saving offset in seconds for --date/--time")
}

func (f *requestFlags) bindChart(cmd *cobra.Command) {
	f.bindTime(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "file", "f", "", "request file (YAML or JSON); flags set explicitly override it")
	fs.StringVar(&f.id, "id", "", "request id (generated when empty)")
	fs.Float64Var(&f.lat, "lat", 0, "geographic latitude in degrees, north positive")
	fs.Float64Var(&f.lon, "lon", 0, "geographic longitude in degrees, east positive")
	fs.StringVar(&f.houseSystem, "houses", "", "house system code (P K E W R C B H M T O)")
	fs.StringVar(&f.convention, "convention", "", "wheel convention (standard|alternate)")
	fs.BoolVar(&f.design, "design", false, "also compute the design chart")
	fs.BoolVar(&f.debug, "debug", false, "include raw provider diagnostics")
}

// request builds the chart request from the request file, then the flags that were set.
func (f *requestFlags) request(cmd *cobra.Command) (models.ChartRequest, error) {
	var req models.ChartRequest
	if f.file != "" {
		b, err := os.ReadFile(f.file)
		if err != nil {
			return req, WrapExitError(ExitCommandError, "read request file", err)
		}
		if err := yaml.Unmarshal(b, &req); err != nil {
			return req, WrapExitError(ExitCommandError, "parse request file", err)
		}
	}

	fs := cmd.Flags()
	set := func(name string) bool {
		flag := fs.Lookup(name)
		return flag != nil && flag.Changed
	}
	if set("id") {
		req.ID = f.id
	}
	if set("timestamp") {
		req.TimestampUTC = f.timestamp
	}
	if set("date") {
		req.Date = f.date
	}
	if set("time") {
		req.Time = f.clock
	}
	if set("tz") {
		req.Timezone = f.zone
	}
	if set("raw-offset") {
		v := f.rawOffset
		req.RawOffset = &v
	}
	if set("dst-offset") {
		v := f.dstOffset
		req.DSTOffset = &v
	}
	if set("lat") {
		v := f.lat
		req.Latitude = &v
	}
	if set("lon") {
		v := f.lon
		req.Longitude = &v
	}
	if set("houses") {
		req.HouseSystem = f.houseSystem
	}
	if set("convention") {
		req.Convention = f.convention
	}
	if set("design") {
		req.Design = f.design
	}
	if set("debug") {
		req.Debug = f.debug
	}
	return req, nil
}

// loadRequests reads a batch file: a list of requests, or a mapping with a requests key.
func loadRequests(path string) ([]models.ChartRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read batch file", err)
	}

	var list []models.ChartRequest
	if err := yaml.Unmarshal(b, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Requests []models.ChartRequest `yaml:"requests"`
	}
	if err := yaml.Unmarshal(b, &wrapped); err != nil {
		return nil, WrapExitError(ExitCommandError, "parse batch file", fmt.Errorf("want a list of requests or {requests: [...]}: %w", err))
	}
	return wrapped.Requests, nil
}
