package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables
// (PARKS_ prefix) with optional overrides from a config.yaml in the working
// directory.
type Config struct {
	KafkaBrokers     []string      `mapstructure:"kafka_brokers"`
	KafkaSourceTopic string        `mapstructure:"kafka_source_topic"`
	KafkaSinkTopic   string        `mapstructure:"kafka_sink_topic"`
	KafkaGroupID     string        `mapstructure:"kafka_group_id"`
	HTTPAddr         string        `mapstructure:"http_addr"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFormat        string        `mapstructure:"log_format"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`

	BatchSize          int           `mapstructure:"batch_size"`
	BatchFlushInterval time.Duration `mapstructure:"batch_flush_interval"`
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PARKS")
	v.AutomaticEnv()

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_source_topic", "park-candidates")
	v.SetDefault("kafka_sink_topic", "park-evaluations")
	v.SetDefault("kafka_group_id", "park-data-etl")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("batch_size", 50)
	v.SetDefault("batch_flush_interval", "500ms")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		KafkaBrokers:       splitBrokers(v.GetString("kafka_brokers")),
		KafkaSourceTopic:   v.GetString("kafka_source_topic"),
		KafkaSinkTopic:     v.GetString("kafka_sink_topic"),
		KafkaGroupID:       v.GetString("kafka_group_id"),
		HTTPAddr:           v.GetString("http_addr"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
		BatchSize:          v.GetInt("batch_size"),
		BatchFlushInterval: v.GetDuration("batch_flush_interval"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("PARKS_KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("PARKS_KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("PARKS_KAFKA_SINK_TOPIC is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid PARKS_SHUTDOWN_TIMEOUT")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("invalid PARKS_BATCH_SIZE")
	}
	if cfg.BatchFlushInterval <= 0 {
		return nil, errors.New("invalid PARKS_BATCH_FLUSH_INTERVAL")
	}

	return cfg, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
