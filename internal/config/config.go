package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"tradefeed/internal/types"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Exchange  ExchangeConfig  `mapstructure:"exchange"`
	Retention RetentionConfig `mapstructure:"retention"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ExchangeConfig holds the exchange websocket settings.
type ExchangeConfig struct {
	WSURL                 string   `mapstructure:"ws_url"`
	DefaultSymbols        []string `mapstructure:"default_symbols"`
	ReconnectDelaySeconds int      `mapstructure:"reconnect_delay_seconds"`
}

// RetentionConfig holds the rolling-window settings.
type RetentionConfig struct {
	MaxTradeAgeMinutes   int `mapstructure:"max_trade_age_minutes"`
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// ReconnectDelay returns the delay between stream connection attempts.
func (c ExchangeConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelaySeconds) * time.Second
}

// Window returns the maximum trade age kept in memory.
func (c RetentionConfig) Window() time.Duration {
	return time.Duration(c.MaxTradeAgeMinutes) * time.Minute
}

// SweepInterval returns how often aged trades are evicted.
func (c RetentionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Load reads configuration from a YAML file with TRADEFEED_* environment
// overrides (e.g. TRADEFEED_EXCHANGE_WS_URL).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tradefeed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":3333")
	v.SetDefault("exchange.ws_url", "wss://stream.binance.com:9443/ws")
	v.SetDefault("exchange.default_symbols", []string{"BTC/USDT", "ETH/USDT"})
	v.SetDefault("exchange.reconnect_delay_seconds", 5)
	v.SetDefault("retention.max_trade_age_minutes", 5)
	v.SetDefault("retention.sweep_interval_seconds", 30)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.NewConfigError("failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.NewConfigError("failed to unmarshal config", err)
	}
	return &cfg, nil
}
