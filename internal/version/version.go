package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/smartconfig/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/smartconfig/internal/version.Commit=abc123"
//
// Unset values come from the VCS stamp in the build info, then fall back to
// a dev version.
var (
	// Version is the release version
	Version = ""
	// Commit is the short git revision
	Commit = ""
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		vcs := readVCS(info.Settings)
		if Commit == "" {
			Commit = vcs.commit()
		}
		if Version == "" {
			Version = vcs.version()
		}
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// vcsInfo is the version control stamp Go embeds in binaries built from a
// checkout.
type vcsInfo struct {
	revision string
	modified bool
	time     string
}

func readVCS(settings []debug.BuildSetting) vcsInfo {
	var v vcsInfo
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value
		case "vcs.modified":
			v.modified = s.Value == "true"
		case "vcs.time":
			v.time = s.Value
		}
	}
	return v
}

// commit returns the 7-character revision, suffixed "-dirty" for a
// modified tree, or "" without a revision.
func (v vcsInfo) commit() string {
	if v.revision == "" {
		return ""
	}
	c := v.revision
	if len(c) > 7 {
		c = c[:7]
	}
	if v.modified {
		c += "-dirty"
	}
	return c
}

// version returns dev-YYYYMMDD from the commit time. Build info carries no
// tags.
func (v vcsInfo) version() string {
	t, err := time.Parse(time.RFC3339, v.time)
	if err != nil {
		return ""
	}
	return "dev-" + t.Format("20060102")
}

// Info is the version report printed by the version command
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Full returns the version with its commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Get returns the version report for the running binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
