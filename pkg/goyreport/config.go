package goyreport

import (
	"flag"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/goydb/goyreport/internal/pipeline"
	"go.uber.org/zap"
)

const EnvPrefix = "GOYREPORT_"

// Config is read from GOYREPORT_* environment variables and can be
// overridden by command line flags.
type Config struct {
	ListenAddress string `env:"LISTEN_ADDRESS" envDefault:":7070" validate:"required"`
	DatabaseDir   string `env:"DATABASE_DIR" envDefault:"./dbs" validate:"required"`
	// Database holds the source and output collections
	Database string `env:"DATABASE" envDefault:"chicago" validate:"required"`

	SourceCollection string `env:"SOURCE_COLLECTION" envDefault:"crimes" validate:"required"`
	// OutputCollection prefixes the output collections of the reports
	OutputCollection string `env:"OUTPUT_COLLECTION" envDefault:"crime"`
	TimestampField   string `env:"TIMESTAMP_FIELD" envDefault:"Date" validate:"required"`
	GroupByField     string `env:"GROUP_BY_FIELD" envDefault:"Primary Type" validate:"required"`
	Timezone         string `env:"TIMEZONE" envDefault:"UTC" validate:"required"`

	// Admins as "user:password,user2:password2", none leaves the
	// server open
	Admins        string `env:"ADMINS"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"goyreport-session" validate:"min=8"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," validate:"omitempty,dive,hostname_port"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"crime-reports" validate:"required_with=KafkaBrokers"`

	// CacheSize is the number of reports kept, 0 disables the cache
	CacheSize     int64  `env:"CACHE_SIZE" envDefault:"1000" validate:"gte=0"`
	ReadBatchSize int    `env:"READ_BATCH_SIZE" envDefault:"500" validate:"gt=0"`
	RetryMax      uint64 `env:"RETRY_MAX" envDefault:"3"`
	// ReportInterval reruns all reports while serving, 0 disables it
	ReportInterval time.Duration `env:"REPORT_INTERVAL" envDefault:"0s" validate:"gte=0"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

var validate = validator.New()

func NewConfig() (*Config, error) {
	var cfg Config
	err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Flags registers all options on fs, using the current values
// as defaults.
func (c *Config) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.ListenAddress, "addr", c.ListenAddress, "Address to bind the server to")
	fs.StringVar(&c.DatabaseDir, "dbs", c.DatabaseDir, "Directory of the database files")
	fs.StringVar(&c.Database, "db", c.Database, "Database with the source and output collections")
	fs.StringVar(&c.SourceCollection, "source", c.SourceCollection, "Collection the reports read")
	fs.StringVar(&c.OutputCollection, "output", c.OutputCollection, "Prefix of the report output collections")
	fs.StringVar(&c.TimestampField, "timestamp-field", c.TimestampField, "Field with the time of a record")
	fs.StringVar(&c.GroupByField, "group-field", c.GroupByField, "Field the type report groups by")
	fs.StringVar(&c.Timezone, "tz", c.Timezone, "Timezone of weekdays and hours")
	fs.StringVar(&c.Admins, "admins", c.Admins, "Server admins as user:password,...")
	fs.StringVar(&c.KafkaTopic, "kafka-topic", c.KafkaTopic, "Topic report rows are published to")
	fs.Int64Var(&c.CacheSize, "cache", c.CacheSize, "Number of cached reports")
	fs.IntVar(&c.ReadBatchSize, "batch", c.ReadBatchSize, "Documents read per transaction")
	fs.Uint64Var(&c.RetryMax, "retries", c.RetryMax, "Retries of transient failures")
	fs.DurationVar(&c.ReportInterval, "interval", c.ReportInterval, "Rerun reports on this interval while serving")
	fs.StringVar(&c.LogFormat, "log", c.LogFormat, "Log format, json or console")
}

func (c *Config) ParseFlags() {
	c.Flags(flag.CommandLine)
	flag.Parse()
}

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	_, err = c.Location()
	return err
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Definitions returns the built-in reports over the source
// collection.
func (c Config) Definitions() ([]pipeline.Definition, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return pipeline.Definitions(c.SourceCollection, c.TimestampField, c.GroupByField, loc), nil
}

func (c Config) Logger() (*zap.Logger, error) {
	if c.LogFormat == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
