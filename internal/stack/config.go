package stack

import (
	"fmt"
	"strings"
)

// DefaultScheduleRateHours is the cadence used when no rate is configured.
// The deployed value has been three-hourly even where surrounding docs said
// hourly; the default preserves the deployed behavior rather than the docs.
const DefaultScheduleRateHours = 3

// DeploymentConfig carries every input the composition depends on. It is
// constructed once and read-only afterwards; Compose consumes nothing else.
type DeploymentConfig struct {
	// Name is the deployment name, hyphen-delimited (e.g. "test").
	Name string

	// AccountID and Region anchor every derived ARN. They are threaded
	// through explicitly rather than read from ambient AWS context.
	AccountID string
	Region    string

	// Tag is the application tag; it prefixes every resource name and is
	// applied as the ownership/cost-allocation tag.
	Tag string

	// EmailRecipients lists notification addresses separated by "," or ";"
	// in any combination. May be empty, which means no subscriptions.
	EmailRecipients string

	// SiteUser is the site credential reference handed to the function via
	// the invocation payload. Never interpreted here.
	SiteUser string

	// BucketName and ObjectKey locate the watcher's state object.
	BucketName string
	ObjectKey  string

	// SecretName is the Secrets Manager reference holding the rest of the
	// site credentials. Either a bare name or a full ARN.
	SecretName string

	// ScheduleRateHours is the fixed-rate cadence in hours. Zero selects
	// DefaultScheduleRateHours.
	ScheduleRateHours int
}

// Validate fails fast on inputs that would make the composition meaningless.
// A malformed or empty EmailRecipients string is deliberately not an error;
// it degrades to zero subscriptions.
func (c DeploymentConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("deployment name is required")
	}
	if strings.TrimSpace(c.AccountID) == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if strings.TrimSpace(c.Tag) == "" {
		return fmt.Errorf("application tag is required")
	}
	if strings.TrimSpace(c.SiteUser) == "" {
		return fmt.Errorf("site credential reference is required")
	}
	if strings.TrimSpace(c.BucketName) == "" {
		return fmt.Errorf("bucket name is required")
	}
	if strings.TrimSpace(c.ObjectKey) == "" {
		return fmt.Errorf("object key is required")
	}
	if strings.TrimSpace(c.SecretName) == "" {
		return fmt.Errorf("secret reference is required")
	}
	if c.ScheduleRateHours < 0 {
		return fmt.Errorf("schedule rate must not be negative, got %d", c.ScheduleRateHours)
	}
	return nil
}

func (c DeploymentConfig) rateHours() int {
	if c.ScheduleRateHours == 0 {
		return DefaultScheduleRateHours
	}
	return c.ScheduleRateHours
}
