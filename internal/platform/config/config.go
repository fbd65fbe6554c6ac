// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "claimdocs/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// WorkerAddr serves the export worker's health and metrics endpoints.
	WorkerAddr string
}

// DatabaseConfig points at PostgreSQL. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	TxTimeout       time.Duration
	Migrate         bool
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the export queue settings.
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	TopicPrefix   string
	Partitions    int32
	Replication   int16
}

// StorageConfig points at the S3 bucket holding media and artifacts. An empty
// bucket selects in-memory blob storage, which is private to one process.
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	UsePathStyle  bool
}

// CatalogConfig controls requirement resolution.
type CatalogConfig struct {
	ItemLevelGroups          []int
	FixedClaimDocumentTypes  []string
	CacheTTL                 time.Duration
	StoreDepositSlipID       int64
	StoreDepositSlipName     string
	StoreDepositSlipGroup    int
	StoreDepositSlipPriority int
	TpaDepositSlipID         int64
	TpaDepositSlipName       string
	TpaDepositSlipGroup      int
	TpaDepositSlipPriority   int
}

// ExportConfig controls the export pipeline.
type ExportConfig struct {
	ImageWidth           int
	Workers              int
	TransformConcurrency int
	MaxAttempts          int
	RetryBackoff         time.Duration
	LockTTL              time.Duration
	ZipEmailGroup        int
	ZipEmailSortPriority int
	CollageCellWidth     int
	CollageCellHeight    int
}

// NotifyConfig controls completion notifications.
type NotifyConfig struct {
	Channel string
}

type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
	Catalog  CatalogConfig
	Export   ExportConfig
	Notify   NotifyConfig
}

// FromEnv builds a Config from environment variables with development defaults.
func FromEnv() (Config, error) {
	var errs []error
	cfg := Config{
		Server: Server{
			Addr:            get("CLAIMDOCS_ADDR", ":8080"),
			Environment:     get("ENVIRONMENT", "development"),
			LogLevel:        get("LOG_LEVEL", "info"),
			RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
			WorkerAddr:      get("WORKER_ADDR", ":9090"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 25, &errs),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5, &errs),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute, &errs),
			TxTimeout:       getDuration("DATABASE_TX_TIMEOUT", 10*time.Second, &errs),
			Migrate:         get("DATABASE_MIGRATE", "true") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Kafka: KafkaConfig{
			Brokers:       getList("KAFKA_BROKERS", nil),
			ConsumerGroup: get("KAFKA_CONSUMER_GROUP", "claimdocs-export"),
			TopicPrefix:   get("KAFKA_TOPIC_PREFIX", "claims.export"),
			Partitions:    int32(getInt("KAFKA_TOPIC_PARTITIONS", 6, &errs)),
			Replication:   int16(getInt("KAFKA_TOPIC_REPLICATION", 1, &errs)),
		},
		Storage: StorageConfig{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        get("AWS_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			UsePathStyle:  get("S3_USE_PATH_STYLE", "false") == "true",
		},
		Catalog: CatalogConfig{
			ItemLevelGroups:          getIntList("ITEM_LEVEL_GROUPS", []int{3}, &errs),
			FixedClaimDocumentTypes:  getList("FIXED_CLAIM_DOCUMENT_TYPES", []string{"receipt", "signature"}),
			CacheTTL:                 getDuration("CATALOG_CACHE_TTL", 10*time.Minute, &errs),
			StoreDepositSlipID:       int64(getInt("DEPOSIT_SLIP_STORE_DOCUMENT_ID", 900, &errs)),
			StoreDepositSlipName:     get("DEPOSIT_SLIP_STORE_NAME", "Store deposit slip"),
			StoreDepositSlipGroup:    getInt("DEPOSIT_SLIP_STORE_GROUP", 1, &errs),
			StoreDepositSlipPriority: getInt("DEPOSIT_SLIP_STORE_PRIORITY", 50, &errs),
			TpaDepositSlipID:         int64(getInt("DEPOSIT_SLIP_TPA_DOCUMENT_ID", 901, &errs)),
			TpaDepositSlipName:       get("DEPOSIT_SLIP_TPA_NAME", "Third-party deposit slip"),
			TpaDepositSlipGroup:      getInt("DEPOSIT_SLIP_TPA_GROUP", 2, &errs),
			TpaDepositSlipPriority:   getInt("DEPOSIT_SLIP_TPA_PRIORITY", 51, &errs),
		},
		Export: ExportConfig{
			ImageWidth:           getInt("EXPORT_IMAGE_WIDTH", 1280, &errs),
			Workers:              getInt("EXPORT_WORKERS", 4, &errs),
			TransformConcurrency: getInt("EXPORT_TRANSFORM_CONCURRENCY", 4, &errs),
			MaxAttempts:          getInt("EXPORT_MAX_ATTEMPTS", 5, &errs),
			RetryBackoff:         getDuration("EXPORT_RETRY_BACKOFF", 2*time.Second, &errs),
			LockTTL:              getDuration("EXPORT_LOCK_TTL", 5*time.Minute, &errs),
			ZipEmailGroup:        getInt("EXPORT_ZIP_EMAIL_GROUP", 1, &errs),
			ZipEmailSortPriority: getInt("EXPORT_ZIP_EMAIL_SORT_PRIORITY", 100, &errs),
			CollageCellWidth:     getInt("COLLAGE_CELL_WIDTH", 640, &errs),
			CollageCellHeight:    getInt("COLLAGE_CELL_HEIGHT", 480, &errs),
		},
		Notify: NotifyConfig{
			Channel: get("NOTIFY_CHANNEL", "claimdocs.notifications"),
		},
	}
	return cfg, errors.Join(errs...)
}

// IsProduction reports whether the process runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsTest reports whether the process runs inside a test harness.
func (c Config) IsTest() bool {
	return c.Server.Environment == "test"
}

// ValidateServer reports settings the HTTP server cannot run without.
func (c Config) ValidateServer() error {
	var errs []error
	if c.IsProduction() && c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required in production"))
	}
	if len(c.Catalog.ItemLevelGroups) == 0 {
		errs = append(errs, errors.New("ITEM_LEVEL_GROUPS must name at least one group"))
	}
	return errors.Join(errs...)
}

// ValidateWorker reports settings the export worker cannot run without.
func (c Config) ValidateWorker() error {
	var errs []error
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.Export.Workers < 1 {
		errs = append(errs, errors.New("EXPORT_WORKERS must be at least 1"))
	}
	if c.Export.MaxAttempts < 1 {
		errs = append(errs, errors.New("EXPORT_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Export.ImageWidth < 1 {
		errs = append(errs, errors.New("EXPORT_IMAGE_WIDTH must be positive"))
	}
	// The API cannot read a worker's in-memory blobs.
	if !c.IsTest() && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required by the export worker"))
	}
	return errors.Join(errs...)
}

func get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strutil.SplitList(v, ",")
}

func getIntList(key string, def []int, errs *[]error) []int {
	parts := getList(key, nil)
	if parts == nil {
		return def
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		out = append(out, n)
	}
	return out
}
