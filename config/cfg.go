package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	FetchConfig struct {
		Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
		Concurrency int           `yaml:"concurrency" validate:"gte=0"`
		UserAgent   string        `yaml:"user_agent"`
		MaxSize     int64         `yaml:"max_size" validate:"gte=0"`
		Proxy       SecretString  `yaml:"proxy,omitempty" validate:"omitempty,url"`
	}

	DocumentConfig struct {
		FixZip                bool   `yaml:"fix_zip"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		ArchiveSuffix         string `yaml:"archive_suffix"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Fetch     FetchConfig    `yaml:"fetch"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// unmarshalConfig decodes data on top of cfg. Unknown fields are errors.
// When process is set result is sanitized and validated.
func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if !process {
		return cfg, nil
	}
	if err := gencfg.Sanitize(cfg); err != nil {
		return nil, err
	}
	if err := gencfg.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaults expands embedded template into configuration.
func defaults(process bool, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, process)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration returns default configuration with values from the file
// at path (if any) superimposed on it. The final result is validated.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	if len(path) == 0 {
		return defaults(true, options...)
	}

	cfg, err := defaults(false, options...)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg, err = unmarshalConfig(data, cfg, true); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded configuration template, used as default
// configuration file content.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump returns configuration as YAML with secrets masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
