package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/orizon-lang/tscpp/internal/codegen"
)

// Version information for the tscpp tool
var (
	Version   = "0.1.0"
	BuildDate = "2026-10-18"
	CommitSHA = "unknown" // Will be set during build
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version        string `json:"version"`
	RuntimeVersion string `json:"runtime_version"`
	BuildDate      string `json:"build_date"`
	CommitSHA      string `json:"commit_sha"`
	GoVersion      string `json:"go_version"`
	Platform       string `json:"platform"`
	Arch           string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:        Version,
		RuntimeVersion: codegen.RuntimeVersion,
		BuildDate:      BuildDate,
		CommitSHA:      CommitSHA,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS,
		Arch:           runtime.GOARCH,
	}
}

// PrintVersion prints version information in a consistent format
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]any{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "JS runtime: %s\n", info.RuntimeVersion)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
	return err
}
