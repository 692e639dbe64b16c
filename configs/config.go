package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig locates the durable action-log record. Dir defaults to the
// working directory at startup; the location is passed explicitly into the
// history component rather than resolved globally.
type StorageConfig struct {
	Dir      string `mapstructure:"dir"`
	Filename string `mapstructure:"filename"`
}

func (s StorageConfig) Path() string {
	return filepath.Join(s.Dir, s.Filename)
}

// DatabaseConfig applies to the SQL task readers.
type DatabaseConfig struct {
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// LoadConfig loads configuration from config.yaml and environment variables.
// Environment variables (TASKPROC_ prefix) take precedence over file values.
//
// Config file search order (first found is used):
// 1. Path from TASKPROC_CONFIG_FILE environment variable
// 2. ./configs/config.yaml, ./config.yaml (relative to working directory)
// 3. <executable_dir>/configs/config.yaml
// 4. <project_root>/configs/config.yaml (detected by go.mod)
//
// A missing config file is fine: defaults plus environment apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("TASKPROC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if timeout := v.GetString("database.query_timeout"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid database.query_timeout: %w", err)
		}
		config.Database.QueryTimeout = d
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// findConfigFile searches for config.yaml in multiple locations.
func findConfigFile() string {
	if envPath := os.Getenv("TASKPROC_CONFIG_FILE"); envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	candidates := []string{
		"./configs/config.yaml",
		"./config.yaml",
	}

	if exeDir, err := getExecutableDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(exeDir, "configs", "config.yaml"),
			filepath.Join(exeDir, "config.yaml"),
		)
	}

	if projectRoot, err := findProjectRoot(); err == nil {
		candidates = append(candidates,
			filepath.Join(projectRoot, "configs", "config.yaml"),
			filepath.Join(projectRoot, "config.yaml"),
		)
	}

	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if fileExists(absPath) {
			return absPath
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func getExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	// Server defaults (serve mode only)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)

	// Storage defaults: working directory at startup
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	v.SetDefault("storage.dir", wd)
	v.SetDefault("storage.filename", ".taskproc.storage")

	// SQL reader defaults
	v.SetDefault("database.query_timeout", "10s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if config.Storage.Filename == "" {
		return fmt.Errorf("storage.filename must not be empty")
	}
	if config.Database.QueryTimeout <= 0 {
		return fmt.Errorf("database.query_timeout must be positive")
	}
	return nil
}
