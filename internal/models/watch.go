package models

// TimeFormat is the timestamp layout used in the waitlist state object and
// in notification bodies. Timestamps are always UTC.
const TimeFormat = "2006-01-02 15:04:05.000000 MST-0700"

// InvocationPayload is the inert JSON document the schedule hands to the
// watcher on every firing. The composition layer only assembles it; the
// watcher is its sole interpreter.
type InvocationPayload struct {
	SiteUser    string `json:"site-un"`
	S3Bucket    string `json:"s3-bucket"`
	S3ObjectKey string `json:"s3-object-key"`
	SNSTopicArn string `json:"sns-topic-arn"`
}

// WaitlistRecord is the state object persisted between watcher runs.
// WaitlistDatetime is when the position last changed; LastUpdated is when it
// was last checked. The position is kept as the string scraped from the page.
type WaitlistRecord struct {
	WaitlistDatetime string `json:"waitlist_datetime"`
	LastUpdated      string `json:"last_updated"`
	WaitlistPosition string `json:"waitlist_position"`
}

// DefaultWaitlistRecord seeds the state when no object exists yet. Position
// "-1" never matches a real position, so the first successful run always
// registers as a change.
func DefaultWaitlistRecord(now string) WaitlistRecord {
	return WaitlistRecord{
		WaitlistDatetime: now,
		LastUpdated:      now,
		WaitlistPosition: "-1",
	}
}
