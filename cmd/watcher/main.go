package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/qwertytam/mtlockyer/internal/logging"
	"github.com/qwertytam/mtlockyer/internal/secrets"
	"github.com/qwertytam/mtlockyer/internal/site"
	"github.com/qwertytam/mtlockyer/internal/watcher"
	appconfig "github.com/qwertytam/mtlockyer/pkg/config"
)

func main() {
	logger := logging.New()
	slog.SetDefault(logger)

	cfg := appconfig.MustLoad()

	logger.Info("watcher lambda starting",
		slog.String("region", cfg.AWSRegion),
		slog.String("site_base_url", cfg.SiteBaseURL),
	)

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	s3Client := s3.NewFromConfig(awsCfg)
	snsClient := sns.NewFromConfig(awsCfg)
	secretsManager := secrets.NewManager(awsCfg, logger)

	siteClient, err := site.NewClient(site.Config{
		BaseURL: cfg.SiteBaseURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to create site client", slog.String("error", err.Error()))
		panic(fmt.Sprintf("failed to create site client: %v", err))
	}

	handler := watcher.NewHandler(cfg, secretsManager, siteClient, s3Client, snsClient, logger)

	lambda.Start(handler.HandleEvent)
}
