package version

import (
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X".
var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()
)

// Info is the build stamp reported by /healthz and logged at startup.
type Info struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
	}
}

func (i Info) String() string {
	return i.Version + " (commit=" + i.Commit + ", built=" + i.BuildDate + ", go=" + i.GoVersion + ")"
}

// UserAgent identifies the gateway to the upstream engines.
func UserAgent() string {
	return "LibGate/" + Version
}
