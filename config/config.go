package config

import (
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"laurel-engine"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`

	// PostgreSQL (records, matches, master matches)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"laurel"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Search index (Neo4j full-text over name part tokens)
	SearchDBHost     string `env:"SEARCH_DB_HOST" env-default:"localhost"`
	SearchDBPort     int    `env:"SEARCH_DB_PORT" env-default:"7687"`
	SearchDBUser     string `env:"SEARCH_DB_USER" env-default:""`
	SearchDBPassword string `env:"SEARCH_DB_PASSWORD" env-default:""`
	SearchIndexName  string `env:"SEARCH_INDEX_NAME" env-default:"namePartTokens"`
	SearchMaxHits    int    `env:"SEARCH_MAX_HITS" env-default:"50"`

	// Kafka Consumer (match job triggers)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaJobTopic        string   `env:"KAFKA_JOB_TOPIC" env-default:"match-dataset-jobs"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"laurel-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer (job lifecycle events)
	KafkaEventTopic   string `env:"KAFKA_EVENT_TOPIC" env-default:"match-job-events"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Matching
	LastNameLocalTypes  string  `env:"LAST_NAME_LOCAL_TYPES" env-default:"surname,100"`
	FirstNameLocalTypes string  `env:"FIRST_NAME_LOCAL_TYPES" env-default:"forename,200"`
	OrgNameLocalTypes   string  `env:"ORG_NAME_LOCAL_TYPES" env-default:"corporatebody,500"`
	MatchScoreThreshold float64 `env:"MATCH_SCORE_THRESHOLD" env-default:"0.1"`
	MatchWorkerCount    int     `env:"MATCH_WORKER_COUNT" env-default:"4"`
	RecordBatchSize     int     `env:"RECORD_BATCH_SIZE" env-default:"100"`
}

// Load reads the process configuration. A local .env file is applied first
// when present so development setups match deployed env-var configuration.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LastNameTypes returns the configured last-name local type codes.
func (c Config) LastNameTypes() []string {
	return splitTypes(c.LastNameLocalTypes)
}

// FirstNameTypes returns the configured first-name local type codes.
func (c Config) FirstNameTypes() []string {
	return splitTypes(c.FirstNameLocalTypes)
}

// OrgNameTypes returns the configured organization-name local type codes.
func (c Config) OrgNameTypes() []string {
	return splitTypes(c.OrgNameLocalTypes)
}

func splitTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			types = append(types, p)
		}
	}
	return types
}
