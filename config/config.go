// Package config loads the cephmod configuration file and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/ceph"
)

// DefaultPath is read when no configuration file is given.
const DefaultPath = "/etc/cephmod/cephmod.yaml"

// Config is the root configuration structure.
type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	Binaries   BinariesConfig   `mapstructure:"binaries"`
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
}

// ConnectionConfig holds the connection parameters modules use when the caller leaves them out.
type ConnectionConfig struct {
	ClientName     string `mapstructure:"client_name"`
	Cluster        string `mapstructure:"cluster"`
	Conf           string `mapstructure:"conf"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
}

// BinariesConfig locates the CLI tools.
type BinariesConfig struct {
	Ceph string `mapstructure:"ceph"`
	Rbd  string `mapstructure:"rbd"`
}

// LogConfig controls the log output on stderr.
type LogConfig struct {
	Verbose bool   `mapstructure:"verbose"`
	Debug   bool   `mapstructure:"debug"`
	File    string `mapstructure:"file"`
}

// ServerConfig contains the settings of the serve command.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// Load reads the configuration from path, or from DefaultPath when path is empty, and applies
// CEPHMOD_* environment overrides (connection.cluster → CEPHMOD_CONNECTION_CLUSTER).
// The default file is optional; an explicitly given one must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigFile(DefaultPath)
	}

	v.SetEnvPrefix("CEPHMOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil && (path != "" || !notFound(err)) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func notFound(err error) bool {
	var viperErr viper.ConfigFileNotFoundError
	return errors.As(err, &viperErr) || errors.Is(err, fs.ErrNotExist)
}

func setDefaults(v *viper.Viper) {
	defaults := types.DefaultConnParams()
	v.SetDefault("connection.client_name", defaults.ClientName)
	v.SetDefault("connection.cluster", defaults.Cluster)
	v.SetDefault("connection.conf", "")
	v.SetDefault("connection.connect_timeout", defaults.ConnectTimeout)

	binaries := ceph.DefaultBinaries()
	v.SetDefault("binaries.ceph", binaries.Ceph)
	v.SetDefault("binaries.rbd", binaries.Rbd)

	v.SetDefault("log.verbose", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")

	v.SetDefault("server.listen", "127.0.0.1:7480")
}

// Validate checks for configuration errors.
func (c *Config) Validate() error {
	if c.Connection.ClientName == "" {
		return fmt.Errorf("connection.client_name must not be empty")
	}
	if c.Connection.Cluster == "" {
		return fmt.Errorf("connection.cluster must not be empty")
	}
	if c.Connection.ConnectTimeout < 0 {
		return fmt.Errorf("connection.connect_timeout must not be negative")
	}
	return nil
}

// ConnParams returns the default connection parameters.
func (c *Config) ConnParams() types.ConnParams {
	return types.ConnParams{
		ClientName:     c.Connection.ClientName,
		Cluster:        c.Connection.Cluster,
		Conf:           c.Connection.Conf,
		ConnectTimeout: c.Connection.ConnectTimeout,
	}
}

// CephBinaries returns the tool locations.
func (c *Config) CephBinaries() ceph.Binaries {
	return ceph.Binaries{Ceph: c.Binaries.Ceph, Rbd: c.Binaries.Rbd}
}
