package config

import (
	"path/filepath"
	"strings"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// FileName is the optional per-project config file, looked up in the project root
const FileName = "pdfmake.yml"

// Config describes all configuration options
type Config struct {
	BuildDir string `yaml:"buildDir" env:"-" default:"build" usage:"Build output directory, relative to the project root"`
	Gulp     string `yaml:"gulp" env:"PDFMAKE_GULP,exact" default:"gulp" usage:"Command used to run gulp tasks"`
	Chrome   struct {
		Key      string `yaml:"key" env:"PDFJS_CHROME_KEY,exact" usage:"Private key used to sign the Chromium extension"`
		Manifest string `yaml:"manifest" env:"PDF_BROWSERS,exact" default:"test/resources/browser_manifests/browser_manifest.json"`
	} `yaml:"chrome"`
	MozCentral struct {
		Path         string `yaml:"path" env:"MC_PATH,exact" usage:"mozilla-central checkout"`
		BaselineMake string `yaml:"baselineMake" env:"-" default:"node make mozcentral"`
	} `yaml:"mozcentral"`
	Log struct {
		Level string `yaml:"level" env:"PDFMAKE_LOG_LEVEL,exact" default:"info"`
	} `yaml:"log"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a Loader that fills
// it from the defaults, root/pdfmake.yml (if present) and environ. A nil
// environ means os.Environ().
func Loader(root string, environ []string) (*Config, *aconfig.Loader) {
	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		Envs:      environ,
		Files:     []string{filepath.Join(root, FileName)},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yml": aconfigyaml.New(),
		},
	})
}

// Default returns a config with every option set to its default value
func Default() *Config {
	cfg := &Config{}
	err := aconfig.LoaderFor(cfg, aconfig.Config{
		SkipFiles: true,
		SkipEnv:   true,
		SkipFlags: true,
	}).Load()
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load builds and validates the configuration for the project in root.
// Environment variables that are set to an empty string are ignored.
func Load(root string, environ []string) (*Config, error) {
	cfg, loader := Loader(root, environ)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrapf(err, "Failed to load %s", filepath.Join(root, FileName))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.BuildDir) == "" {
		return eris.New("Invalid value for buildDir: must not be empty")
	}

	if strings.TrimSpace(cfg.Gulp) == "" {
		return eris.New("Invalid value for gulp: must not be empty")
	}

	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
