// Package notification publishes watcher results to the deployment's SNS
// fan-out topic. Delivery formatting (email-json) is a property of the
// subscriptions, not of the publisher.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

// Publisher defines the interface for sending operator-facing notifications.
type Publisher interface {
	Publish(ctx context.Context, subject, body string) error
}

// SNSPublisher implements Publisher against one SNS topic.
type SNSPublisher struct {
	client   *sns.Client
	topicArn string
	logger   *slog.Logger
}

// NewSNSPublisher creates a publisher bound to topicArn.
func NewSNSPublisher(client *sns.Client, topicArn string, logger *slog.Logger) *SNSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SNSPublisher{
		client:   client,
		topicArn: topicArn,
		logger:   logger,
	}
}

// Publish sends one notification with the given subject and body. Every
// publication carries a unique event id attribute so downstream consumers
// can correlate duplicate deliveries.
func (p *SNSPublisher) Publish(ctx context.Context, subject, body string) error {
	eventID := uuid.New().String()

	result, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification to SNS: %w", err)
	}

	p.logger.InfoContext(ctx, "notification published",
		slog.String("event_id", eventID),
		slog.String("sns_message_id", aws.ToString(result.MessageId)),
		slog.String("topic_arn", p.topicArn),
	)
	return nil
}
