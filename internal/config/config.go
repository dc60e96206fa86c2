// Package config loads and validates the server's static configuration:
// bind address, object-store backend, graph/output key prefixes, named
// datasets, and named routing modes. Loaded with spf13/viper and
// validated with go-playground/validator.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ObjectStoreConfig selects and configures the object-store backend.
type ObjectStoreConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=filesystem s3 s3-by-env"`

	// Filesystem
	Root string `mapstructure:"root" validate:"required_if=Type filesystem"`

	// S3 / s3-by-env
	Endpoint        string `mapstructure:"endpoint"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	BucketName      string `mapstructure:"bucket_name" validate:"required_if=Type s3"`
	AllowHTTP       bool   `mapstructure:"allow_http"`
}

// GraphsConfig configures where graphs live and how many stay resident.
type GraphsConfig struct {
	Prefix string `mapstructure:"prefix"`
	// CacheSize is the graph cache budget in mebibytes.
	CacheSize int `mapstructure:"cache_size" validate:"gte=0"`
}

// OutputsConfig configures where persisted RPC results are written.
type OutputsConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// DatasetConfig describes one named reference dataset used as the
// origin population for differential queries.
type DatasetConfig struct {
	KeyPattern    string      `mapstructure:"key_pattern" validate:"required"`
	Resolutions   map[int]int `mapstructure:"resolutions" validate:"required"`
	H3IndexColumn string      `mapstructure:"h3index_column_name" validate:"required"`
}

// FileResolution returns the file-keying resolution a dataset is
// sharded at for a given data resolution.
func (d DatasetConfig) FileResolution(dataResolution int) (int, error) {
	fileResolution, ok := d.Resolutions[dataResolution]
	if !ok {
		return 0, fmt.Errorf("config: dataset has no file resolution configured for data resolution %d", dataResolution)
	}
	return fileResolution, nil
}

// RoutingModeConfig names a preference factor a client can select by
// name instead of passing a raw float.
type RoutingModeConfig struct {
	// EdgePreferenceFactor must lie in [0, 1] when set; omit it (nil) to
	// mean "route by raw cost only".
	EdgePreferenceFactor *float64 `mapstructure:"edge_preference_factor" validate:"omitempty,gte=0,lte=1"`
}

// ServerConfig is the top-level configuration document.
type ServerConfig struct {
	BindTo       string                       `mapstructure:"bind_to" validate:"required,hostname_port"`
	MetricsAddr  string                       `mapstructure:"metrics_addr"`
	ObjectStore  ObjectStoreConfig            `mapstructure:"objectstore" validate:"required"`
	Graphs       GraphsConfig                 `mapstructure:"graphs"`
	Outputs      OutputsConfig                `mapstructure:"outputs"`
	Datasets     map[string]DatasetConfig     `mapstructure:"datasets"`
	RoutingModes map[string]RoutingModeConfig `mapstructure:"routing_modes" validate:"dive"`
}

// Load reads configuration from path (any format viper supports - yaml/
// toml/json) and validates it.
func Load(path string) (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("graphs.prefix", "graphs/")
	v.SetDefault("graphs.cache_size", 10)
	v.SetDefault("outputs.prefix", "outputs/")
	v.SetDefault("metrics_addr", ":9090")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", path, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct-tag validation over cfg.
func Validate(cfg *ServerConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// RoutingModeFactor resolves a named routing mode to its preference
// factor. The empty name always means "exact, no preference weighting"
// regardless of what is configured under that name.
func (c *ServerConfig) RoutingModeFactor(name string) (float64, error) {
	if name == "" {
		return 0, nil
	}
	mode, ok := c.RoutingModes[name]
	if !ok {
		return 0, fmt.Errorf("config: unknown routing_mode %q", name)
	}
	if mode.EdgePreferenceFactor == nil {
		return 0, nil
	}
	return *mode.EdgePreferenceFactor, nil
}
