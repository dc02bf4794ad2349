package cmd

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"custody/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort string
	LogLevel string
	Storage  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers      []string
	KafkaTraceTopic   string
	KafkaWriteTimeout time.Duration

	TraceRelaySchedule string
	TraceRelayBatch    int

	ArchiveSchedule   string
	ArchiveBatch      int
	ArchiveS3Bucket   string
	ArchiveS3Prefix   string
	ArchiveS3Endpoint string
	AWSRegion         string

	JWTSecret string
}

// LoadConfig reads .env when it exists, then the process environment.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_TRACE_TOPIC", "custody.trace-events")
	v.SetDefault("KAFKA_WRITE_TIMEOUT", "10s")
	v.SetDefault("TRACE_RELAY_SCHEDULE", "*/5 * * * * *")
	v.SetDefault("TRACE_RELAY_BATCH", 200)
	v.SetDefault("ARCHIVE_SCHEDULE", "0 */10 * * * *")
	v.SetDefault("ARCHIVE_BATCH", 20)
	v.SetDefault("ARCHIVE_S3_PREFIX", "custody-archive")

	cfg := Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Storage:            strings.ToLower(v.GetString("STORAGE")),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSslMode:          v.GetString("DB_SSLMODE"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTraceTopic:    v.GetString("KAFKA_TRACE_TOPIC"),
		KafkaWriteTimeout:  v.GetDuration("KAFKA_WRITE_TIMEOUT"),
		TraceRelaySchedule: v.GetString("TRACE_RELAY_SCHEDULE"),
		TraceRelayBatch:    v.GetInt("TRACE_RELAY_BATCH"),
		ArchiveSchedule:    v.GetString("ARCHIVE_SCHEDULE"),
		ArchiveBatch:       v.GetInt("ARCHIVE_BATCH"),
		ArchiveS3Bucket:    v.GetString("ARCHIVE_S3_BUCKET"),
		ArchiveS3Prefix:    v.GetString("ARCHIVE_S3_PREFIX"),
		ArchiveS3Endpoint:  v.GetString("ARCHIVE_S3_ENDPOINT"),
		AWSRegion:          v.GetString("AWS_REGION"),
		JWTSecret:          v.GetString("JWT_SECRET"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings of the selected storage backend.
func (c Config) Validate() error {
	var problems []error
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DBUser == "" {
			problems = append(problems, errs.NewValueIsRequiredError("DB_USER"))
		}
		if c.DBName == "" {
			problems = append(problems, errs.NewValueIsRequiredError("DB_NAME"))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidError("STORAGE"))
	}
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	return errors.Join(problems...)
}

// RelayEnabled reports whether trace events are published to Kafka.
func (c Config) RelayEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ArchiveEnabled reports whether closed listings are exported to S3.
func (c Config) ArchiveEnabled() bool {
	return c.ArchiveS3Bucket != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
