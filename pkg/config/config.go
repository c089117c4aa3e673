package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding the config file.
const EnvPrefix = "AUDITREPORT"

// Lockfile describes where the dependency graph comes from.
type Lockfile struct {
	Ecosystem  string `mapstructure:"ecosystem"`
	Path       string `mapstructure:"path"`
	GraphPath  string `mapstructure:"graph_path"`
	Repository string `mapstructure:"repository"`
	Ref        string `mapstructure:"ref"`
}

// Advisories describes where the matched vulnerabilities come from.
type Advisories struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	Image  string `mapstructure:"image"`
}

// Finding tunes the normalization of advisories.
type Finding struct {
	IDMode         string `mapstructure:"id_mode"`
	IdentifierType string `mapstructure:"identifier_type"`
	IdentifierURL  string `mapstructure:"identifier_url"`
}

// Log configures the logger.
type Log struct {
	Level string `mapstructure:"level"`
}

// Tracing configures span export. An empty endpoint disables it.
type Tracing struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

type Config struct {
	SchemaVersion string     `mapstructure:"schema_version"`
	DirectPolicy  string     `mapstructure:"direct_policy"`
	Lockfile      Lockfile   `mapstructure:"lockfile"`
	Advisories    Advisories `mapstructure:"advisories"`
	Finding       Finding    `mapstructure:"finding"`
	Output        string     `mapstructure:"output"`
	Log           Log        `mapstructure:"log"`
	Tracing       Tracing    `mapstructure:"tracing"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("schema_version", "15.0.7")
	v.SetDefault("direct_policy", "adjacency")
	v.SetDefault("lockfile.ecosystem", "cargo")
	v.SetDefault("lockfile.path", "Cargo.lock")
	v.SetDefault("lockfile.graph_path", "")
	v.SetDefault("lockfile.repository", "")
	v.SetDefault("lockfile.ref", "main")
	v.SetDefault("advisories.source", "file")
	v.SetDefault("advisories.path", "-")
	v.SetDefault("advisories.image", "rust:1-slim")
	v.SetDefault("finding.id_mode", "advisory")
	v.SetDefault("finding.identifier_type", "rustsec")
	v.SetDefault("finding.identifier_url", "https://rustsec.org/advisories/")
	v.SetDefault("output", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// New returns a viper instance with defaults and environment overrides wired.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configPath (when not empty) into v and decodes the result.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values outside of the supported enumerations.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value string
		allow []string
	}{
		{"schema_version", c.SchemaVersion, []string{"2.0", "14.1.2", "15.0.7"}},
		{"direct_policy", c.DirectPolicy, []string{"adjacency", "discovery"}},
		{"lockfile.ecosystem", c.Lockfile.Ecosystem, []string{"cargo", "go"}},
		{"advisories.source", c.Advisories.Source, []string{"file", "container"}},
		{"finding.id_mode", c.Finding.IDMode, []string{"advisory", "uuid"}},
	}
	for _, chk := range checks {
		if !contains(chk.allow, chk.value) {
			return fmt.Errorf("invalid %s %q: expected one of %s",
				chk.key, chk.value, strings.Join(chk.allow, ", "))
		}
	}
	if c.Lockfile.Path == "" {
		return fmt.Errorf("lockfile.path must not be empty")
	}
	if c.Lockfile.Ecosystem == "go" && c.Lockfile.GraphPath == "" {
		return fmt.Errorf("lockfile.graph_path is required for the go ecosystem")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1")
	}
	if c.Advisories.Source == "container" && c.Lockfile.Repository != "" {
		return fmt.Errorf("advisories.source container needs a local lockfile, not lockfile.repository")
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
