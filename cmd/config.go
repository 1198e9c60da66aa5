package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"adscan/internal/adlog"
)

const (
	// DefaultCompression is gzip's standard compromise level.
	DefaultCompression = 6
	MinCompression     = 0
	MaxCompression     = 9
)

// AppConfig is adscan's application configuration: the snapshot to read,
// where to write the archive, how hard to compress it, and verbosity.
type AppConfig struct {
	Input       string `mapstructure:"input"`
	Output      string `mapstructure:"output"`
	Compression int    `mapstructure:"compression"`
	Verbose     bool   `mapstructure:"verbose"`
}

// Manager handles configuration loading, saving, and access in a
// thread-safe manner.
type Manager struct {
	viper *viper.Viper
	cfg   AppConfig
	mu    sync.RWMutex
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{viper: viper.New()}
}

const (
	defaultConfigFileName = "adscan.yaml"
	configTemplateName    = "config"
)

var yamlTmpl = `# adscan configuration file

# Path to the snapshot to ingest when no positional argument is given.
input: "{{.Input}}"

# Output archive path.
output: "{{.Output}}"

# gzip compression level, 0-9.
compression: {{.Compression}}

# Verbose logging.
verbose: {{.Verbose}}
`

// configSearchPaths defines where to look for configuration files.
var configSearchPaths = []string{
	".",              // Current directory (highest priority)
	"$HOME/.adscan",  // User home directory
	"/etc/adscan",    // System directory
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return defaultConfigFileName
}

func saveConfigToFile(cfg AppConfig, path string, perm os.FileMode) error {
	content, err := generateConfigContent(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, perm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func generateConfigContent(cfg AppConfig) ([]byte, error) {
	tmpl, err := template.New(configTemplateName).Parse(yamlTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("failed to generate config content: %w", err)
	}
	return buf.Bytes(), nil
}

// Init initializes the configuration by setting defaults and reading the
// config file from search paths (current directory, ~/.adscan,
// /etc/adscan). Returns an error if the config file exists but cannot be
// read.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	m.viper.SetConfigName("adscan")
	m.viper.SetConfigType("yaml")
	for _, path := range configSearchPaths {
		m.viper.AddConfigPath(path)
	}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return m.viper.Unmarshal(&m.cfg)
}

// Get returns the current application configuration.
func (m *Manager) Get() AppConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Set sets a configuration value by key and updates the internal config
// struct.
func (m *Manager) Set(key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viper.Set(key, value)
	return m.viper.Unmarshal(&m.cfg)
}

// Save saves the current configuration to adscan.yaml in the current
// directory with file permissions 0600.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return saveConfigToFile(m.cfg, DefaultConfigPath(), 0600)
}

// Reload reloads the configuration from viper, updating the internal
// config struct with the latest merged state (flags > file > defaults).
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viper.Unmarshal(&m.cfg)
}

// ConfigPath returns the path to the configuration file that was loaded,
// or an empty string if none was found.
func (m *Manager) ConfigPath() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) setDefaults() {
	m.viper.SetDefault("input", "")
	m.viper.SetDefault("output", "adscan-out.tar.gz")
	m.viper.SetDefault("compression", DefaultCompression)
	m.viper.SetDefault("verbose", false)
}

// Package-level API, mirroring the rest of the CLI's global-manager
// convention.

var cfgManager *Manager

func manager() *Manager {
	if cfgManager == nil {
		cfgManager = NewManager()
	}
	return cfgManager
}

func InitConfig() error                { return manager().Init() }
func GetConfig() AppConfig             { return manager().Get() }
func SetConfig(k string, v any) error  { return manager().Set(k, v) }
func SaveConfig() error                { return manager().Save() }
func Reload() error                    { return manager().Reload() }
func GetConfigPath() string            { return manager().ConfigPath() }

// BindFlags binds the root command's persistent flags to viper
// configuration keys, so flags override the config file.
func BindFlags(cmd *cobra.Command) {
	v := manager().viper
	v.BindPFlag("output", cmd.PersistentFlags().Lookup("output"))
	v.BindPFlag("compression", cmd.PersistentFlags().Lookup("compression"))
	v.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
}

// Cobra commands

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage adscan configuration",
	Long:  "Manage adscan.yaml: default output path, compression level, and verbosity.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  "Generate adscan.yaml in the current directory.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := SaveConfig(); err != nil {
			adlog.Errorf("initializing configuration: %v", err)
			return
		}
		adlog.Info("configuration initialized")
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long:  "Set a value in adscan.yaml, e.g., output, compression, verbose.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]
		if err := validateConfigSet(key, value); err != nil {
			adlog.Error(err.Error())
			return
		}
		if err := SetConfig(key, value); err != nil {
			adlog.Errorf("setting %s: %v", key, err)
			return
		}
		if err := SaveConfig(); err != nil {
			adlog.Errorf("saving configuration: %v", err)
			return
		}
		adlog.Infof("configuration updated: %s = %s", key, value)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		c := GetConfig()
		path := GetConfigPath()

		cmd.Println("adscan config")
		if path != "" {
			cmd.Printf("Config file: %s\n", path)
		} else {
			cmd.Println("Config file: (not set)")
		}
		cmd.Println()
		cmd.Printf("Input:       %s\n", valueOrNotSet(c.Input))
		cmd.Printf("Output:      %s\n", c.Output)
		cmd.Printf("Compression: %d\n", c.Compression)
		cmd.Printf("Verbose:     %v\n", c.Verbose)
	},
}

func valueOrNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func validateConfigSet(key, value string) error {
	switch key {
	case "compression":
		return ValidateCompressionString(value)
	case "output":
		if value == "" {
			return fmt.Errorf("output path cannot be empty")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
