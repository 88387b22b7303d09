package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/spotmeta/internal/metafile"
)

// ErrMissingField is returned when the required field name argument is absent.
var ErrMissingField = errors.New("missing required field name")

// Config holds the converter settings: positional arguments plus
// environment variables.
type Config struct {
	Field    string
	Class    string
	Category string

	LogLevel  string
	LogFormat string

	// MetricsTextfile, when set, receives the run metrics in Prometheus
	// text format after the document is written.
	MetricsTextfile string

	// Kafka publication of the finished document, enabled by KAFKA_BROKERS.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaTimeout time.Duration
}

// KafkaEnabled reports whether documents should be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load builds the configuration from positional arguments (program name
// excluded) and environment variables, applying defaults where unset.
func Load(args []string) (*Config, error) {
	if len(args) < 1 {
		return nil, ErrMissingField
	}

	kafkaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("KAFKA_TIMEOUT", "10s"))
	if err != nil || kafkaTimeout <= 0 {
		return nil, errors.New("invalid KAFKA_TIMEOUT")
	}

	cfg := &Config{
		Field:           args[0],
		Class:           argOrDefault(args, 1, metafile.DefaultClass),
		Category:        argOrDefault(args, 2, metafile.DefaultCategory),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "fpa-metafiles"),
		KafkaTimeout:    kafkaTimeout,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	return cfg, nil
}

func argOrDefault(args []string, i int, def string) string {
	if len(args) > i {
		return args[i]
	}
	return def
}
