package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"YTM4A/pkg/cache"
	"YTM4A/pkg/logger"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development"`
	Log         logger.Config `yaml:"log"`
	Server      struct {
		Port            int           `yaml:"port" default:"8000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30m"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		// Requests per second allowed on POST /process per client IP.
		ProcessRate  float64 `yaml:"process_rate" default:"1"`
		ProcessBurst int     `yaml:"process_burst" default:"5"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Storage struct {
		BaseDir   string        `yaml:"base_dir" default:"./downloads"`
		TempDir   string        `yaml:"temp_dir" default:"./downloads/temp"`
		TempTTL   time.Duration `yaml:"temp_ttl" default:"1h"`
		SweepEach time.Duration `yaml:"sweep_interval" default:"5m"`
	} `yaml:"storage"`
	Tools struct {
		YtDlp            string        `yaml:"ytdlp" default:"yt-dlp"`
		YtDlpArgs        []string      `yaml:"ytdlp_args"`
		FFmpeg           string        `yaml:"ffmpeg" default:"ffmpeg"`
		Bitrate          string        `yaml:"audio_bitrate" default:"64k"`
		AcquireTimeout   time.Duration `yaml:"acquire_timeout" default:"20m"`
		TranscodeTimeout time.Duration `yaml:"transcode_timeout" default:"10m"`
	} `yaml:"tools"`
	AssemblyAI struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url" default:"https://api.assemblyai.com"`
		PollInterval time.Duration `yaml:"poll_interval" default:"3s"`
		Timeout      time.Duration `yaml:"timeout" default:"15m"`
	} `yaml:"assemblyai"`
	Market struct {
		BaseURL      string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		LookbackDays int           `yaml:"lookback_days" default:"60"`
		RateLimit    float64       `yaml:"rate_limit" default:"2"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"15m"`
		Timeout      time.Duration `yaml:"timeout" default:"20s"`
	} `yaml:"market"`
	Cache cache.Config `yaml:"cache"`
}

// Load reads and parses a YAML configuration file. Unset fields take their
// `default` tag values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is read first when present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ASSEMBLYAI_API_KEY"); v != "" {
		c.AssemblyAI.APIKey = v
	}
	if v := os.Getenv("YTM4A_BASE_DIR"); v != "" {
		c.Storage.BaseDir = v
	}
	if v := os.Getenv("YTM4A_TEMP_DIR"); v != "" {
		c.Storage.TempDir = v
	}
	if v := os.Getenv("YTM4A_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("YTM4A_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("YTDLP_PATH"); v != "" {
		c.Tools.YtDlp = v
	}
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		c.Tools.FFmpeg = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		if c.Cache.Type == cache.TypeMemory {
			c.Cache.Type = cache.TypeLayered
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	return c, c.Validate()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Storage.BaseDir == "" {
		return fmt.Errorf("storage.base_dir is required")
	}
	if c.Storage.TempTTL <= 0 {
		return fmt.Errorf("storage.temp_ttl must be positive")
	}
	switch c.Cache.Type {
	case cache.TypeMemory, cache.TypeRedis, cache.TypeLayered:
	default:
		return fmt.Errorf("cache.type must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Type)
	}
	if c.Cache.Type != cache.TypeMemory && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for cache.type %q", c.Cache.Type)
	}
	return nil
}

// AnalysisEnabled reports whether the analysis pipeline can run.
func (c *Config) AnalysisEnabled() bool {
	return c.AssemblyAI.APIKey != ""
}
