// Package watcher implements the Lambda handler that checks the waitlist
// position and fans out a notification when it moves.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/qwertytam/mtlockyer/internal/models"
	"github.com/qwertytam/mtlockyer/internal/notification"
	"github.com/qwertytam/mtlockyer/internal/secrets"
	"github.com/qwertytam/mtlockyer/internal/storage"
	"github.com/qwertytam/mtlockyer/internal/waitlist"
	appconfig "github.com/qwertytam/mtlockyer/pkg/config"
)

// CredentialSource retrieves the site login material.
type CredentialSource interface {
	GetSiteCredentials(ctx context.Context, secretName string) (*secrets.SiteCredentials, error)
}

// PositionFetcher retrieves the current waitlist position from the site.
type PositionFetcher interface {
	FetchPosition(ctx context.Context, username, password, studentID string) (string, error)
}

// Response summarizes one invocation.
type Response struct {
	Changed          bool   `json:"changed"`
	Position         string `json:"position"`
	PreviousPosition string `json:"previous_position"`
	Notified         bool   `json:"notified"`
}

// Handler processes scheduled invocations. The S3 location and SNS topic
// come from the invocation payload rather than the environment, so one
// deployed function can serve multiple schedules.
type Handler struct {
	cfg          *appconfig.Config
	credentials  CredentialSource
	site         PositionFetcher
	newStore     func(bucket, key string) storage.ObjectStore
	newPublisher func(topicArn string) notification.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandler creates a handler wired to real AWS clients.
func NewHandler(
	cfg *appconfig.Config,
	credentials CredentialSource,
	site PositionFetcher,
	s3Client *s3.Client,
	snsClient *sns.Client,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:         cfg,
		credentials: credentials,
		site:        site,
		newStore: func(bucket, key string) storage.ObjectStore {
			return storage.NewS3Store(s3Client, bucket, key, logger)
		},
		newPublisher: func(topicArn string) notification.Publisher {
			return notification.NewSNSPublisher(snsClient, topicArn, logger)
		},
		logger: logger,
		now:    time.Now,
	}
}

// HandleEvent runs one waitlist check end to end.
func (h *Handler) HandleEvent(ctx context.Context, payload models.InvocationPayload) (Response, error) {
	if err := validatePayload(payload); err != nil {
		return Response{}, err
	}

	h.logger.InfoContext(ctx, "waitlist check starting",
		slog.String("s3_bucket", payload.S3Bucket),
		slog.String("s3_object_key", payload.S3ObjectKey),
	)

	creds, err := h.credentials.GetSiteCredentials(ctx, h.cfg.SecretName)
	if err != nil {
		return Response{}, fmt.Errorf("get site credentials: %w", err)
	}

	position, err := h.site.FetchPosition(ctx, payload.SiteUser, creds.Password, creds.StudentID)
	if err != nil {
		return Response{}, fmt.Errorf("fetch waitlist position: %w", err)
	}

	tracker := waitlist.NewTracker(h.newStore(payload.S3Bucket, payload.S3ObjectKey), h.logger)
	result, err := tracker.Check(ctx, position)
	if err != nil {
		return Response{}, fmt.Errorf("check waitlist position: %w", err)
	}

	resp := Response{
		Changed:          result.Changed,
		Position:         result.Position,
		PreviousPosition: result.PreviousPosition,
	}

	if result.Changed {
		subject := fmt.Sprintf("Now #%s on the waitlist; previously #%s",
			result.Position, result.PreviousPosition)
		body := "Sent at " + h.now().UTC().Format(models.TimeFormat)

		if err := h.newPublisher(payload.SNSTopicArn).Publish(ctx, subject, body); err != nil {
			// the state object is already updated; a failed publish means
			// this movement will never be announced
			return resp, fmt.Errorf("publish notification: %w", err)
		}
		resp.Notified = true
	}

	h.logger.InfoContext(ctx, "waitlist check complete",
		slog.Bool("changed", resp.Changed),
		slog.Bool("notified", resp.Notified),
		slog.String("position", resp.Position),
	)
	return resp, nil
}

func validatePayload(p models.InvocationPayload) error {
	switch {
	case p.SiteUser == "":
		return fmt.Errorf("invalid payload: site-un is required")
	case p.S3Bucket == "":
		return fmt.Errorf("invalid payload: s3-bucket is required")
	case p.S3ObjectKey == "":
		return fmt.Errorf("invalid payload: s3-object-key is required")
	case p.SNSTopicArn == "":
		return fmt.Errorf("invalid payload: sns-topic-arn is required")
	}
	return nil
}
