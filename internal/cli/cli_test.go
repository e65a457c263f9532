package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orizon-lang/tscpp/internal/codegen"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.cue")} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q): %v", path, err)
		}
		if cfg.Output != "a.cpp" || cfg.Log.Level != "info" {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
	}
}

func TestLoadConfig_CUE(t *testing.T) {
	p := writeConfig(t, "tscpp.cue", `
output: "out.cpp"
format: true
jobs:   2
log: {
	level:   "debug"
	journal: false
}
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != "out.cpp" || !cfg.Format || cfg.Jobs != 2 || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	p := writeConfig(t, "tscpp.json", `{"verbose": true, "runtime": ">= 0.1"}`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Verbose || cfg.Runtime != ">= 0.1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Output != "a.cpp" {
		t.Fatalf("default output lost: %q", cfg.Output)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", `outptu: "x.cpp"`},
		{"wrong type", `verbose: "yes"`},
		{"bad level", `log: level: "loud"`},
		{"negative jobs", `jobs: -1`},
		{"syntax", `output: `},
		{"unsatisfied runtime", `runtime: ">= 99.0"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, "bad.cue", tt.content)
			if _, err := LoadConfig(p); err == nil {
				t.Fatalf("LoadConfig accepted %q", tt.content)
			}
		})
	}
}

func TestCheckRuntime(t *testing.T) {
	tests := []struct {
		constraint string
		ok         bool
	}{
		{codegen.RuntimeVersion, true},
		{">= 0.1.0", true},
		{"^0.2", true},
		{"< 0.1.0", false},
		{"not a constraint", false},
	}
	for _, tt := range tests {
		err := CheckRuntime(tt.constraint)
		if (err == nil) != tt.ok {
			t.Errorf("CheckRuntime(%q) = %v, want ok=%v", tt.constraint, err, tt.ok)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		ok    bool
	}{
		{"", slog.LevelInfo, true},
		{"debug", slog.LevelDebug, true},
		{"WARN", slog.LevelWarn, true},
		{"loud", 0, false},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("ParseLevel(%q) error = %v", tt.name, err)
			continue
		}
		if tt.ok && level != tt.level {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.name, level, tt.level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var stderr bytes.Buffer
	jsonPath := filepath.Join(t.TempDir(), "log.json")

	logger, closeLog, err := NewLogger(&stderr, LogOptions{Level: slog.LevelDebug, JSONPath: jsonPath})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("compiled", "path", "a.ts")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(stderr.String(), "msg=compiled") || !strings.Contains(stderr.String(), "path=a.ts") {
		t.Fatalf("text handler output: %q", stderr.String())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("json record %q: %v", data, err)
	}
	if record["msg"] != "compiled" || record["path"] != "a.ts" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var stderr bytes.Buffer
	logger, _, err := NewLogger(&stderr, LogOptions{Level: slog.LevelInfo})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	if stderr.Len() != 0 {
		t.Fatalf("debug record written at info level: %q", stderr.String())
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("stage.lex-ms"); got != "STAGE_LEX_MS" {
		t.Fatalf("toJournalKey = %q", got)
	}
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	if err := PrintVersion(&out, "tscpp", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "tscpp v"+Version+"\n") {
		t.Fatalf("unexpected text: %q", out.String())
	}
	if !strings.Contains(out.String(), codegen.RuntimeVersion) {
		t.Fatalf("runtime version missing: %q", out.String())
	}

	out.Reset()
	if err := PrintVersion(&out, "tscpp", true); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Tool string      `json:"tool"`
		Info VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Tool != "tscpp" || doc.Info.Version != Version {
		t.Fatalf("unexpected json: %+v", doc)
	}
}
