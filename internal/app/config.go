package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/pedidos/internal/jobs"
	"github.com/vladislavdragonenkov/pedidos/internal/ledger"
	"github.com/vladislavdragonenkov/pedidos/internal/messaging/kafka"
)

// EnvPrefix — префикс переменных окружения, переопределяющих конфиг.
const EnvPrefix = "PEDIDOS_"

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	// DataFile — путь к JSON-снимку журнала; пустая строка — журнал только в памяти.
	DataFile  string `yaml:"data_file"`
	Numbering string `yaml:"numbering"`
	Timezone  string `yaml:"timezone"`
	Currency  string `yaml:"currency"`
	LogLevel  string `yaml:"log_level"`

	Backup BackupConfig `yaml:"backup"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

// BackupConfig — резервные копии файла журнала по расписанию cron.
type BackupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	Dir      string `yaml:"dir"`
	Keep     int    `yaml:"keep"`
}

// KafkaConfig — лента изменений журнала. Без brokers лента выключена.
type KafkaConfig struct {
	Brokers   []string `yaml:"brokers"`
	Topic     string   `yaml:"topic"`
	QueueSize int      `yaml:"queue_size"`
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		GRPCAddr:    ":50051",
		MetricsAddr: ":9090",
		DataFile:    "pedidos.json",
		Numbering:   ledger.AutoNumbering.String(),
		Timezone:    "UTC",
		Currency:    "BRL",
		LogLevel:    "info",
		Backup: BackupConfig{
			Schedule: jobs.DefaultBackupSchedule,
			Dir:      "backups",
			Keep:     24,
		},
		Kafka: KafkaConfig{
			Topic:     kafka.TopicLedgerEvents,
			QueueSize: 256,
		},
	}
}

// LoadConfig собирает конфиг: значения по умолчанию, затем YAML-файл (path или
// PEDIDOS_CONFIG; отсутствующий файл не ошибка), затем .env и PEDIDOS_* из окружения.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.WithField("path", path).Debug("config file not found, using defaults")
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":       &c.HTTPAddr,
		"GRPC_ADDR":       &c.GRPCAddr,
		"METRICS_ADDR":    &c.MetricsAddr,
		"DATA_FILE":       &c.DataFile,
		"NUMBERING":       &c.Numbering,
		"TIMEZONE":        &c.Timezone,
		"CURRENCY":        &c.Currency,
		"LOG_LEVEL":       &c.LogLevel,
		"BACKUP_SCHEDULE": &c.Backup.Schedule,
		"BACKUP_DIR":      &c.Backup.Dir,
		"KAFKA_TOPIC":     &c.Kafka.Topic,
	}
	for key, target := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*target = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"BACKUP_KEEP":      &c.Backup.Keep,
		"KAFKA_QUEUE_SIZE": &c.Kafka.QueueSize,
	}
	for key, target := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*target = n
		}
	}

	if v, ok := lookup(EnvPrefix + "BACKUP_ENABLED"); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sBACKUP_ENABLED: %w", EnvPrefix, err)
		}
		c.Backup.Enabled = enabled
	}
	if v, ok := lookup(EnvPrefix + "KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitBrokers(v)
	}
	return nil
}

// Validate проверяет значения, которые иначе всплыли бы только при запуске.
func (c Config) Validate() error {
	if _, ok := ledger.ParseNumbering(c.Numbering); !ok {
		return fmt.Errorf("invalid numbering %q: want auto or manual", c.Numbering)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("invalid backup.keep %d: must be >= 0", c.Backup.Keep)
	}
	if c.Backup.Enabled && c.DataFile == "" {
		return errors.New("backup requires data_file")
	}
	return nil
}

// Location возвращает часовой пояс для даты создания заказов.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NumberingMode возвращает режим нумерации; некорректное значение отсекает Validate.
func (c Config) NumberingMode() ledger.Numbering {
	n, _ := ledger.ParseNumbering(c.Numbering)
	return n
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
