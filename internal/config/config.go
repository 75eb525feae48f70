package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Redis   RedisConfig   `yaml:"redis"`
	Storage StorageConfig `yaml:"storage"`
	Journal JournalConfig `yaml:"journal"`
	Roster  RosterConfig  `yaml:"roster"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

// ServerConfig drives the local admin facade, not the remote backend.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	RetryMaxDelay  time.Duration `yaml:"retry_max_delay"`
}

// RedisConfig points at the local credential store. TokenKeys is the
// legacy fallback chain: keys are tried in order and the first non-empty
// value wins.
type RedisConfig struct {
	Host      string   `yaml:"host"`
	Port      int      `yaml:"port"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
	TokenKeys []string `yaml:"token_keys"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type JournalConfig struct {
	Enabled            bool          `yaml:"enabled"`
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RosterConfig struct {
	ChunkSize   int `yaml:"chunk_size"`
	WorkerCount int `yaml:"worker_count"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = 35 * time.Second
	}
	if c.Backend.RetryAttempts == 0 {
		c.Backend.RetryAttempts = 3
	}
	if c.Backend.RetryDelay == 0 {
		c.Backend.RetryDelay = time.Second
	}
	if c.Backend.RetryMaxDelay == 0 {
		c.Backend.RetryMaxDelay = 8 * time.Second
	}
	if len(c.Redis.TokenKeys) == 0 {
		// Legacy key chain kept for compatibility with older app builds.
		c.Redis.TokenKeys = []string{"auth:token", "userToken", "token"}
	}
	if c.Roster.ChunkSize == 0 {
		c.Roster.ChunkSize = 50
	}
	if c.Roster.WorkerCount == 0 {
		c.Roster.WorkerCount = 4
	}
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...]
func (c *Config) JournalDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		c.Journal.User, c.Journal.Password, c.Journal.Host, c.Journal.Port, c.Journal.Name)
}
