// Package version provides build information for the nibble8 interpreter.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// These will be set at build time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const unknown = "unknown"

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
	Arch      string
	Modified  bool
}

// GetBuildInfo returns the linker provided values, completed from the
// VCS settings embedded by the go tool.
func GetBuildInfo() BuildInfo {
	buildInfo := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return buildInfo
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if buildInfo.GitCommit == unknown {
				buildInfo.GitCommit = setting.Value
			}
		case "vcs.time":
			if buildInfo.BuildTime == unknown {
				buildInfo.BuildTime = setting.Value
			}
		case "vcs.modified":
			buildInfo.Modified = setting.Value == "true"
		}
	}
	return buildInfo
}

// ShortCommit returns the first 7 characters of the commit hash.
func (b BuildInfo) ShortCommit() string {
	if len(b.GitCommit) > 7 {
		return b.GitCommit[:7]
	}
	return b.GitCommit
}

// GetVersion returns a simple version string
func GetVersion() string {
	return GetBuildInfo().versionString()
}

func (b BuildInfo) versionString() string {
	if b.Version != "dev" || b.GitCommit == unknown {
		return b.Version
	}
	s := "dev-" + b.ShortCommit()
	if b.Modified {
		s += "-dirty"
	}
	return s
}

// String returns a one line description of the build.
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("nibble8 version ")
	sb.WriteString(b.versionString())

	if b.GitCommit != unknown {
		fmt.Fprintf(&sb, " (commit %s)", b.ShortCommit())
	}

	if b.BuildTime != unknown {
		if parsedTime, err := time.Parse(time.RFC3339, b.BuildTime); err == nil {
			fmt.Fprintf(&sb, " built on %s", parsedTime.UTC().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(&sb, " built on %s", b.BuildTime)
		}
	}

	fmt.Fprintf(&sb, " with %s for %s/%s", b.GoVersion, b.Platform, b.Arch)
	return sb.String()
}

// GetDetailedVersion returns a detailed version string
func GetDetailedVersion() string {
	return GetBuildInfo().String()
}

// PrintBuildInfo writes formatted build information to w.
func PrintBuildInfo(w io.Writer) {
	buildInfo := GetBuildInfo()

	fmt.Fprintf(w, "nibble8 - CHIP-8 interpreter\n")
	fmt.Fprintf(w, "Version:     %s\n", buildInfo.versionString())
	fmt.Fprintf(w, "Git Commit:  %s\n", buildInfo.GitCommit)
	fmt.Fprintf(w, "Build Time:  %s\n", buildInfo.BuildTime)
	fmt.Fprintf(w, "Go Version:  %s\n", buildInfo.GoVersion)
	fmt.Fprintf(w, "Platform:    %s/%s\n", buildInfo.Platform, buildInfo.Arch)
}
