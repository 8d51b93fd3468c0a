package common

import (
	"fmt"
	"runtime/debug"
)

// Version and GitCommit can be set via ldflags at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const userAgentProduct = "stellarbit-hubclient"

// GetModuleBuildInfo returns the version and commit of the running binary,
// preferring the ldflags values over the module build info.
func GetModuleBuildInfo() (string, string, bool) {
	if Version != "dev" {
		return Version, GitCommit, true
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}

	version := info.Main.Version
	if len(version) == 0 || version == "(devel)" {
		version = Version
	}

	gitCommit := GitCommit
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			gitCommit = setting.Value
			break
		}
	}

	return version, gitCommit, true
}

// UserAgent is the default User-Agent sent to the hub.
func UserAgent() string {
	version, _, ok := GetModuleBuildInfo()
	if !ok {
		version = Version
	}
	return fmt.Sprintf("%s/%s", userAgentProduct, version)
}
