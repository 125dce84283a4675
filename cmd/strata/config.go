// Config loading for the strata CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyServerAddr  = "server.addr"
	cfgKeyPublicURL   = "server.public_url"
	cfgKeyOpenAPIFile = "server.openapi_file"
	cfgKeyLogLevel    = "log.level"
	cfgKeyLogPretty   = "log.pretty"

	defaultBackend    = "sqlite"
	defaultServerAddr = ":8080"
	defaultLogLevel   = "info"
)

// cliSettings is the resolved config.yaml content.
type cliSettings struct {
	Backend     string
	DataDir     string
	ServerAddr  string
	PublicURL   string
	OpenAPIFile string
	LogLevel    string
	LogPretty   bool
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Strata CLI configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

server:
  # Listen address for the HTTP API
  addr: ":8080"
  # Server URL advertised in the OpenAPI document (optional)
  # public_url:
  # Path to the OpenAPI definition YAML (optional)
  # openapi_file:

log:
  level: info
  pretty: false
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*cliSettings, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &cliSettings{
		Backend:     v.GetString(cfgKeyBackend),
		DataDir:     v.GetString(cfgKeyDataDir),
		ServerAddr:  v.GetString(cfgKeyServerAddr),
		PublicURL:   v.GetString(cfgKeyPublicURL),
		OpenAPIFile: v.GetString(cfgKeyOpenAPIFile),
		LogLevel:    v.GetString(cfgKeyLogLevel),
		LogPretty:   v.GetBool(cfgKeyLogPretty),
	}, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
