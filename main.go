package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hyperdxio/otel-config-go/otelconfig"
	"go.uber.org/zap"

	"mediaconverter/api/rest"
	"mediaconverter/config"
	"mediaconverter/converter"
	"mediaconverter/journal"
	"mediaconverter/mirror"
	"mediaconverter/service"
	"mediaconverter/shared/log"
	"mediaconverter/shared/trace"
	"mediaconverter/shared/workspace"
)

//	@title			Media converter
//	@version		1.0
//	@description	Converts uploaded PDFs and images between formats

// @BasePath	/
func main() {
	serviceConfig := config.New()

	ctx := context.Background()

	tp := trace.InitTrace(serviceConfig.TraceStdout)
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		slog.Error("Error configuring OpenTelemetry", "error", err)
	} else {
		defer otelShutdown()
	}

	logger := log.InitLogger(ctx)
	defer func() {
		if err = logger.Sync(); err != nil {
			slog.Error("Error syncing logger", "error", err)
		}
	}()

	workspaces, err := workspace.NewManager(serviceConfig.WorkDir)
	if err != nil {
		logger.Panic("Failed to prepare work dir", zap.Error(err))
	}
	if removed, err := workspaces.Purge(); err != nil {
		logger.Warn("Error purging stale workspaces", zap.Error(err))
	} else if removed > 0 {
		logger.Info("Purged stale workspaces", zap.Int("count", removed))
	}

	dispatcher := converter.MustDispatcher(converter.Options{
		Timeout:     serviceConfig.ConversionTimeout,
		RasterDPI:   serviceConfig.RasterDPI,
		SofficePath: serviceConfig.SofficePath,
		JpegQuality: serviceConfig.JpegQuality,
		AvifQuality: serviceConfig.AvifQuality,
		MaxPixels:   serviceConfig.MaxPixels,
	}, logger)

	conversionJournal := newJournal(ctx, serviceConfig, logger)
	defer func() {
		if err := conversionJournal.Close(ctx); err != nil {
			logger.Error("Error closing journal", zap.Error(err))
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      serviceConfig.AppName,
		BodyLimit:    serviceConfig.BodyLimit(),
		ErrorHandler: rest.ErrorHandler(logger),
	})
	app.Use(
		recover.New(),
		otelfiber.Middleware(),
		fiberzap.New(fiberzap.Config{Logger: logger}),
		compress.New(compress.Config{Level: compress.LevelBestSpeed}),
		etag.New(etag.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.Method() != fiber.MethodGet
			},
		}),
		limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.IP() == "127.0.0.1"
			},
			Max:        serviceConfig.RateLimitMaxRequests,
			Expiration: serviceConfig.RateLimitDuration,
		}),
		swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    serviceConfig.AppName,
		}),
	)

	convertService := service.NewConvertService(workspaces, dispatcher, conversionJournal, newMirror(serviceConfig, logger), logger)

	rest.NewOperationController(app, logger)
	rest.NewConvertController(app, serviceConfig, convertService, logger)

	if err = app.Listen(":" + serviceConfig.Port); err != nil {
		logger.Panic(err.Error())
		return
	}
}

func newJournal(ctx context.Context, cfg *config.Config, logger *zap.Logger) journal.Journal {
	if !cfg.JournalEnabled() {
		return journal.Nop{}
	}

	j, err := journal.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	if err != nil {
		logger.Error("Conversion journal disabled", zap.Error(err))
		return journal.Nop{}
	}
	return j
}

func newMirror(cfg *config.Config, logger *zap.Logger) mirror.Mirror {
	if !cfg.MirrorEnabled() {
		return mirror.Nop{}
	}

	awsConfig := &aws.Config{
		Region:      aws.String(cfg.S3Region),
		Credentials: credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
	}
	if cfg.S3Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.S3Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	awsSession, err := session.NewSession(awsConfig)
	if err != nil {
		logger.Error("Artifact mirror disabled", zap.Error(err))
		return mirror.Nop{}
	}
	return mirror.NewS3(s3.New(awsSession), cfg.S3Bucket, cfg.S3Prefix, logger)
}
