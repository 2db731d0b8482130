package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	PumpPortal struct {
		WebSocketURL   string        `yaml:"websocket_url"`
		APIKey         string        `yaml:"api_key"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"pumpportal"`
	Metadata struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		RateCapacity int           `yaml:"rate_capacity"`
		RatePerSec   float64       `yaml:"rate_per_sec"`
	} `yaml:"metadata"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		SignalsTopic string   `yaml:"signals_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Replay struct {
			Enabled    bool          `yaml:"enabled"`
			Topic      string        `yaml:"topic"`
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"replay"`
	} `yaml:"kafka"`
	Pipeline struct {
		Workers       int           `yaml:"workers"`
		QueueSize     int           `yaml:"queue_size"`
		RetryLimit    int           `yaml:"retry_limit"`
		RetryDelay    time.Duration `yaml:"retry_delay"`
		DedupWindow   time.Duration `yaml:"dedup_window"`
		InFlightTTL   time.Duration `yaml:"inflight_ttl"`
		DeliveryTTL   time.Duration `yaml:"delivery_ttl"`
		MinMarketCap  float64       `yaml:"min_market_cap"`
		MinInitialBuy float64       `yaml:"min_initial_buy"`
		MintMinLen    int           `yaml:"mint_min_len"`
		MintMaxLen    int           `yaml:"mint_max_len"`
	} `yaml:"pipeline"`
	Scoring struct {
		SocialRequired bool     `yaml:"social_required"`
		PenaltyPerFlag float64  `yaml:"penalty_per_flag"`
		Denylist       []string `yaml:"denylist"`
		Weights        struct {
			Liquidity float64 `yaml:"liquidity"`
			Volume    float64 `yaml:"volume"`
			Holders   float64 `yaml:"holders"`
			Social    float64 `yaml:"social"`
			Momentum  float64 `yaml:"momentum"`
			Recency   float64 `yaml:"recency"`
		} `yaml:"weights"`
		Tiers struct {
			Liquidity []TierRule `yaml:"liquidity"`
			Volume    []TierRule `yaml:"volume"`
			Holders   []TierRule `yaml:"holders"`
		} `yaml:"tiers"`
		Thresholds struct {
			Primary   float64 `yaml:"primary"`
			Secondary float64 `yaml:"secondary"`
			Urgent    float64 `yaml:"urgent"`
		} `yaml:"thresholds"`
	} `yaml:"scoring"`
	Alerts struct {
		Timeout time.Duration `yaml:"timeout"`
		Slack   struct {
			WebhookURL string `yaml:"webhook_url"`
			Channel    string `yaml:"channel"`
		} `yaml:"slack"`
		Discord struct {
			WebhookURL string `yaml:"webhook_url"`
		} `yaml:"discord"`
		Telegram struct {
			BotToken string `yaml:"bot_token"`
			ChatID   string `yaml:"chat_id"`
		} `yaml:"telegram"`
	} `yaml:"alerts"`
}

// TierRule maps a minimum input value to a component score.
type TierRule struct {
	Min   float64 `yaml:"min"`
	Score float64 `yaml:"score"`
}

// Load reads a YAML configuration file. A missing file is not an error:
// env-only deploys run on defaults plus LoadWithEnv overrides.
func Load(path string) (*Config, error) {
	var c Config
	c.applyDefaults()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PUMP_WS_URL"); v != "" {
		c.PumpPortal.WebSocketURL = v
	}
	if v := os.Getenv("PUMP_API_KEY"); v != "" {
		c.PumpPortal.APIKey = v
	}
	if v := os.Getenv("METADATA_BASE_URL"); v != "" {
		c.Metadata.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		c.Alerts.Slack.WebhookURL = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		c.Alerts.Discord.WebhookURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Alerts.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Alerts.Telegram.ChatID = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	c.Environment = "development"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 15 * time.Second
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.PumpPortal.WebSocketURL = "wss://pumpportal.fun/api/data"
	c.PumpPortal.ReconnectDelay = 5 * time.Second
	c.PumpPortal.PingInterval = 30 * time.Second
	c.Metadata.BaseURL = "https://frontend-api.pump.fun"
	c.Metadata.Timeout = 5 * time.Second
	c.Metadata.RateCapacity = 5
	c.Metadata.RatePerSec = 2
	c.Redis.Host = "localhost"
	c.Redis.Port = 6379
	c.Redis.Prefix = "sentinel"
	c.ClickHouse.Host = "localhost"
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "sentinel"
	c.ClickHouse.User = "default"
	c.Kafka.SignalsTopic = "sentinel.signals"
	c.Pipeline.Workers = 4
	c.Pipeline.QueueSize = 1000
	c.Pipeline.RetryLimit = 3
	c.Pipeline.RetryDelay = 2 * time.Second
	c.Pipeline.DedupWindow = 300 * time.Second
	c.Pipeline.InFlightTTL = 30 * time.Second
	c.Pipeline.DeliveryTTL = 24 * time.Hour
	c.Pipeline.MintMinLen = 30
	c.Pipeline.MintMaxLen = 50
	c.Scoring.PenaltyPerFlag = 10
	c.Scoring.Denylist = []string{"official", "2.0", "v2", "real", "new", "legit"}
	c.Scoring.Weights.Liquidity = 0.25
	c.Scoring.Weights.Volume = 0.20
	c.Scoring.Weights.Holders = 0.15
	c.Scoring.Weights.Social = 0.20
	c.Scoring.Weights.Momentum = 0.10
	c.Scoring.Weights.Recency = 0.10
	c.Scoring.Thresholds.Primary = 70
	c.Scoring.Thresholds.Secondary = 85
	c.Scoring.Thresholds.Urgent = 95
	c.Alerts.Timeout = 10 * time.Second
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.PumpPortal.WebSocketURL == "" {
		return fmt.Errorf("pumpportal.websocket_url is required")
	}
	t := c.Scoring.Thresholds
	if !(t.Primary <= t.Secondary && t.Secondary <= t.Urgent) {
		return fmt.Errorf("scoring thresholds must ascend: %v <= %v <= %v", t.Primary, t.Secondary, t.Urgent)
	}
	w := c.Scoring.Weights
	sum := w.Liquidity + w.Volume + w.Holders + w.Social + w.Momentum + w.Recency
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}
	if c.Pipeline.DedupWindow <= 0 {
		return fmt.Errorf("pipeline.dedup_window must be positive")
	}
	if c.Pipeline.MintMinLen <= 0 || c.Pipeline.MintMaxLen < c.Pipeline.MintMinLen {
		return fmt.Errorf("invalid mint length bounds: %d..%d", c.Pipeline.MintMinLen, c.Pipeline.MintMaxLen)
	}
	if c.Kafka.Replay.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when replay is enabled")
	}
	return nil
}
