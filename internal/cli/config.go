package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	semver "github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/tscpp/internal/codegen"
)

// Config holds the settings that may come from a configuration file.
// Command line flags override them.
type Config struct {
	Output  string    `json:"output"`
	Verbose bool      `json:"verbose"`
	Format  bool      `json:"format"`
	Runtime string    `json:"runtime"`
	Jobs    int       `json:"jobs"`
	Log     LogConfig `json:"log"`
}

// LogConfig configures the driver logger
type LogConfig struct {
	Level   string `json:"level"`
	JSON    string `json:"json"`
	Journal bool   `json:"journal"`
}

// configSchema closes the accepted fields so a misspelled key is an error.
const configSchema = `close({
	output?:  string
	verbose?: bool
	format?:  bool
	runtime?: string
	jobs?:    int & >=0
	log?: close({
		level?:   "debug" | "info" | "warn" | "error"
		json?:    string
		journal?: bool
	})
})`

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		Output: "a.cpp",
		Log:    LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a CUE file. JSON is valid CUE, so
// JSON files load as well. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decodeConfig(data, configPath, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

func decodeConfig(data []byte, filename string, config *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return err
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return err
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return unified.Decode(config)
}

// Validate checks the values the schema cannot express.
func (c *Config) Validate() error {
	if c.Runtime != "" {
		if err := CheckRuntime(c.Runtime); err != nil {
			return err
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CheckRuntime verifies that the emitted JS runtime satisfies constraint.
func CheckRuntime(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid runtime constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(codegen.RuntimeVersion)
	if err != nil {
		return fmt.Errorf("invalid runtime version %q: %w", codegen.RuntimeVersion, err)
	}
	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("runtime %s does not satisfy %q: %w", v, constraint, errors.Join(errs...))
	}
	return nil
}
