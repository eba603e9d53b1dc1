package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"measure-filter/storage"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Obergrenze für pageSize in Listen-Ansichten
	MaxPageSize int `envconfig:"MAX_PAGE_SIZE" default:"200"`

	MetricRefreshSchedule string `envconfig:"METRIC_REFRESH_SCHEDULE" default:"@every 5m"`

	// Nachrichten: eingebaut, überschrieben aus Verzeichnis oder S3-Bucket
	MessagesLocale   string `envconfig:"MESSAGES_LOCALE" default:"en"`
	MessagesDir      string `envconfig:"MESSAGES_DIR"`
	MessagesS3Bucket string `envconfig:"MESSAGES_S3_BUCKET"`
	MessagesS3Prefix string `envconfig:"MESSAGES_S3_PREFIX" default:"i18n/"`

	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// MessagesS3 gibt den Bucket mit den Nachrichtendateien zurück, falls konfiguriert.
func (c *Config) MessagesS3() (storage.S3Config, bool) {
	if c.MessagesS3Bucket == "" {
		return storage.S3Config{}, false
	}
	return storage.S3Config{
		URL:    c.S3URL,
		Region: c.S3Region,
		Key:    c.S3Key,
		Secret: c.S3Secret,
		Bucket: c.MessagesS3Bucket,
	}, true
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
