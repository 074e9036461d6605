package config

import (
	"github.com/caarlos0/env/v8"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"Media converter"`
	Port    string `env:"PORT" envDefault:"8080"`

	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"30"`
	RateLimitDuration    time.Duration `env:"RATE_LIMIT_DURATION" envDefault:"1m"`
	BodyLimitInMB        int           `env:"BODY_LIMIT_IN_MB" envDefault:"50"`

	// WorkDir holds per-request scratch directories. Defaults to <os temp>/mediaconverter.
	WorkDir           string        `env:"WORK_DIR"`
	ConversionTimeout time.Duration `env:"CONVERSION_TIMEOUT" envDefault:"2m"`

	RasterDPI   float64 `env:"RASTER_DPI" envDefault:"200"`
	JpegQuality int     `env:"JPEG_QUALITY" envDefault:"95"`
	AvifQuality int     `env:"AVIF_QUALITY" envDefault:"80"`
	MaxPixels   int64   `env:"MAX_PIXELS" envDefault:"89478485"`
	SofficePath string  `env:"SOFFICE_PATH" envDefault:"soffice"`

	TraceStdout bool `env:"TRACE_STDOUT" envDefault:"false"`

	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"mediaconverter"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"conversions"`

	S3Region    string `env:"S3_REGION"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Prefix    string `env:"S3_PREFIX" envDefault:"converted"`
}

func New() *Config {
	conf, err := Parse()
	if err != nil {
		slog.Error(err.Error())

		panic("Failed to parse config")
	}

	return conf
}

func Parse() (*Config, error) {
	conf := &Config{}

	if err := env.Parse(conf); err != nil {
		return nil, err
	}

	if conf.WorkDir == "" {
		conf.WorkDir = filepath.Join(os.TempDir(), "mediaconverter")
	}

	return conf, nil
}

func (c *Config) BodyLimit() int {
	return c.BodyLimitInMB * 1024 * 1024
}

func (c *Config) JournalEnabled() bool {
	return c.MongoURI != ""
}

func (c *Config) MirrorEnabled() bool {
	return c.S3Bucket != ""
}
