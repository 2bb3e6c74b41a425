package buildinfo

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X Astrolabe/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata as structured data.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
}

func String() string {
	return fmt.Sprintf("astrolabe %s (commit=%s, date=%s)", Version, Commit, Date)
}
