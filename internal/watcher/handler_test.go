package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/qwertytam/mtlockyer/internal/models"
	"github.com/qwertytam/mtlockyer/internal/notification"
	"github.com/qwertytam/mtlockyer/internal/secrets"
	"github.com/qwertytam/mtlockyer/internal/storage"
	appconfig "github.com/qwertytam/mtlockyer/pkg/config"
)

type fakeCredentials struct {
	creds *secrets.SiteCredentials
	err   error
}

func (f *fakeCredentials) GetSiteCredentials(ctx context.Context, secretName string) (*secrets.SiteCredentials, error) {
	return f.creds, f.err
}

type fakeFetcher struct {
	position string
	err      error
	username string
}

func (f *fakeFetcher) FetchPosition(ctx context.Context, username, password, studentID string) (string, error) {
	f.username = username
	return f.position, f.err
}

type fakeStore struct {
	data []byte
}

func (f *fakeStore) Get(ctx context.Context) ([]byte, error) {
	if f.data == nil {
		return nil, storage.ErrNotFound
	}
	return f.data, nil
}

func (f *fakeStore) Put(ctx context.Context, data []byte) error {
	f.data = data
	return nil
}

type fakePublisher struct {
	subject string
	body    string
	err     error
	calls   int
}

func (f *fakePublisher) Publish(ctx context.Context, subject, body string) error {
	f.calls++
	f.subject = subject
	f.body = body
	return f.err
}

func storedRecord(t *testing.T, position string) []byte {
	t.Helper()

	record := models.WaitlistRecord{
		WaitlistDatetime: "2024-01-01 09:00:00.000000 UTC+0000",
		LastUpdated:      "2024-01-01 09:00:00.000000 UTC+0000",
		WaitlistPosition: position,
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return data
}

func testPayload() models.InvocationPayload {
	return models.InvocationPayload{
		SiteUser:    "user@example.com",
		S3Bucket:    "state-bucket",
		S3ObjectKey: "state.json",
		SNSTopicArn: "arn:aws:sns:us-east-1:123456789012:test-topic",
	}
}

func newTestHandler(fetcher *fakeFetcher, store *fakeStore, publisher *fakePublisher) *Handler {
	return &Handler{
		cfg: &appconfig.Config{SecretName: "mtlockeyer-aws-secrets"},
		credentials: &fakeCredentials{
			creds: &secrets.SiteCredentials{Password: "pw", StudentID: "student-1"},
		},
		site: fetcher,
		newStore: func(bucket, key string) storage.ObjectStore {
			return store
		},
		newPublisher: func(topicArn string) notification.Publisher {
			return publisher
		},
		logger: slog.Default(),
		now: func() time.Time {
			return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestHandleEventPositionChanged(t *testing.T) {
	fetcher := &fakeFetcher{position: "7"}
	store := &fakeStore{data: storedRecord(t, "12")}
	publisher := &fakePublisher{}
	handler := newTestHandler(fetcher, store, publisher)

	resp, err := handler.HandleEvent(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if !resp.Changed {
		t.Error("expected Changed to be true")
	}
	if !resp.Notified {
		t.Error("expected Notified to be true")
	}
	if publisher.calls != 1 {
		t.Fatalf("expected 1 publish, got %d", publisher.calls)
	}
	if publisher.subject != "Now #7 on the waitlist; previously #12" {
		t.Errorf("unexpected subject %q", publisher.subject)
	}
	if !strings.HasPrefix(publisher.body, "Sent at 2024-03-15 12:00:00") {
		t.Errorf("unexpected body %q", publisher.body)
	}
	if fetcher.username != "user@example.com" {
		t.Errorf("expected site-un from payload, got %q", fetcher.username)
	}
}

func TestHandleEventPositionUnchanged(t *testing.T) {
	fetcher := &fakeFetcher{position: "12"}
	store := &fakeStore{data: storedRecord(t, "12")}
	publisher := &fakePublisher{}
	handler := newTestHandler(fetcher, store, publisher)

	resp, err := handler.HandleEvent(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if resp.Changed {
		t.Error("expected Changed to be false")
	}
	if publisher.calls != 0 {
		t.Errorf("expected no publishes, got %d", publisher.calls)
	}
}

func TestHandleEventFirstRun(t *testing.T) {
	fetcher := &fakeFetcher{position: "30"}
	store := &fakeStore{}
	publisher := &fakePublisher{}
	handler := newTestHandler(fetcher, store, publisher)

	resp, err := handler.HandleEvent(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if !resp.Changed {
		t.Error("expected first run to count as a change")
	}
	if resp.PreviousPosition != "-1" {
		t.Errorf("expected previous position -1, got %q", resp.PreviousPosition)
	}
	if publisher.subject != "Now #30 on the waitlist; previously #-1" {
		t.Errorf("unexpected subject %q", publisher.subject)
	}
}

func TestHandleEventPublishFailure(t *testing.T) {
	fetcher := &fakeFetcher{position: "7"}
	store := &fakeStore{data: storedRecord(t, "12")}
	publisher := &fakePublisher{err: errors.New("sns unavailable")}
	handler := newTestHandler(fetcher, store, publisher)

	resp, err := handler.HandleEvent(context.Background(), testPayload())
	if err == nil {
		t.Fatal("expected error when publish fails")
	}
	if resp.Notified {
		t.Error("expected Notified to be false")
	}
}

func TestHandleEventFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("login rejected")}
	store := &fakeStore{}
	publisher := &fakePublisher{}
	handler := newTestHandler(fetcher, store, publisher)

	_, err := handler.HandleEvent(context.Background(), testPayload())
	if err == nil {
		t.Fatal("expected error when fetch fails")
	}
	if publisher.calls != 0 {
		t.Errorf("expected no publishes, got %d", publisher.calls)
	}
}

func TestHandleEventInvalidPayload(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.InvocationPayload)
		wantSub string
	}{
		{"missing site user", func(p *models.InvocationPayload) { p.SiteUser = "" }, "site-un"},
		{"missing bucket", func(p *models.InvocationPayload) { p.S3Bucket = "" }, "s3-bucket"},
		{"missing object key", func(p *models.InvocationPayload) { p.S3ObjectKey = "" }, "s3-object-key"},
		{"missing topic arn", func(p *models.InvocationPayload) { p.SNSTopicArn = "" }, "sns-topic-arn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&fakeFetcher{position: "1"}, &fakeStore{}, &fakePublisher{})
			payload := testPayload()
			tt.mutate(&payload)

			_, err := handler.HandleEvent(context.Background(), payload)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}
