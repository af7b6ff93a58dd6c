package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"

	envPrefix = "SNACK"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers    []string
	KafkaClientID   string
	KafkaOrderTopic string
	KafkaAuditTopic string

	// AdminCode - админ-код в открытом виде; хешируется при старте.
	// AdminCodeHash (bcrypt) имеет приоритет.
	AdminCode     string
	AdminCodeHash string

	CORSOrigins      []string
	ResetClearsAudit bool
	AuditLimit       int

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает настройки для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8001",
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		KafkaClientID:       "snack-orders",
		KafkaOrderTopic:     "snack.order.events",
		KafkaAuditTopic:     "snack.audit.events",
		CORSOrigins:         []string{"*"},
		AuditLimit:          1000,
		LogLevel:            "info",
		LogFormat:           "text",
		ShutdownTimeout:     5 * time.Second,
	}
}

// LoadConfig читает .env (если есть), затем config.yaml и переменные окружения SNACK_*.
// Переменные окружения перекрывают файл. configFile == "" - поиск config.yaml
// в текущем каталоге и /etc/snack-orders.
func LoadConfig(configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// CORS_ORIGINS без префикса оставлен для совместимости со старыми деплоями.
	_ = v.BindEnv("cors.origins", envPrefix+"_CORS_ORIGINS", "CORS_ORIGINS")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/snack-orders")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		HTTPAddr:            v.GetString("http.addr"),
		GRPCAddr:            v.GetString("grpc.addr"),
		MetricsAddr:         v.GetString("metrics.addr"),
		StorageDriver:       strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		PostgresDSN:         strings.TrimSpace(v.GetString("postgres.dsn")),
		PostgresAutoMigrate: v.GetBool("postgres.auto_migrate"),
		KafkaBrokers:        splitList(v.GetStringSlice("kafka.brokers")),
		KafkaClientID:       v.GetString("kafka.client_id"),
		KafkaOrderTopic:     v.GetString("kafka.order_topic"),
		KafkaAuditTopic:     v.GetString("kafka.audit_topic"),
		AdminCode:           v.GetString("admin.code"),
		AdminCodeHash:       v.GetString("admin.code_hash"),
		CORSOrigins:         splitList(v.GetStringSlice("cors.origins")),
		ResetClearsAudit:    v.GetBool("reset.clears_audit"),
		AuditLimit:          v.GetInt("audit.limit"),
		LogLevel:            v.GetString("log.level"),
		LogFormat:           v.GetString("log.format"),
		ShutdownTimeout:     v.GetDuration("shutdown.timeout"),
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("http.addr", cfg.HTTPAddr)
	v.SetDefault("grpc.addr", cfg.GRPCAddr)
	v.SetDefault("metrics.addr", cfg.MetricsAddr)
	v.SetDefault("storage.driver", cfg.StorageDriver)
	v.SetDefault("postgres.dsn", cfg.PostgresDSN)
	v.SetDefault("postgres.auto_migrate", cfg.PostgresAutoMigrate)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.client_id", cfg.KafkaClientID)
	v.SetDefault("kafka.order_topic", cfg.KafkaOrderTopic)
	v.SetDefault("kafka.audit_topic", cfg.KafkaAuditTopic)
	v.SetDefault("admin.code", "")
	v.SetDefault("admin.code_hash", "")
	v.SetDefault("cors.origins", strings.Join(cfg.CORSOrigins, ","))
	v.SetDefault("reset.clears_audit", cfg.ResetClearsAudit)
	v.SetDefault("audit.limit", cfg.AuditLimit)
	v.SetDefault("log.level", cfg.LogLevel)
	v.SetDefault("log.format", cfg.LogFormat)
	v.SetDefault("shutdown.timeout", cfg.ShutdownTimeout)
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres.dsn is required for postgres storage")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}
	if c.HTTPAddr == "" {
		return errors.New("http.addr is required")
	}
	if c.AuditLimit < 0 {
		return errors.New("audit.limit must be >= 0")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ConfigureLogger настраивает глобальный logrus по конфигурации.
func (c Config) ConfigureLogger() {
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// splitList разбирает значения вида "a,b" и ["a", "b"] в плоский список.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
