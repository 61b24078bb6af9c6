package stack

import (
	"encoding/json"
	"fmt"

	"github.com/qwertytam/mtlockyer/internal/models"
)

// ScheduleSpec describes the one fixed-rate trigger of the deployment. The
// cadence is a plain numeric rate with no calendar expressiveness. Nothing
// prevents a slow invocation from overlapping the next firing; the watcher
// tolerates that rather than this layer preventing it.
type ScheduleSpec struct {
	Name      string          `json:"name"`
	Arn       string          `json:"arn"`
	RateHours int             `json:"rate_hours"`
	TargetArn string          `json:"target_arn"`
	RoleArn   string          `json:"role_arn"`
	Payload   json.RawMessage `json:"payload"`
}

func (s ScheduleSpec) LogicalName() string { return s.Name }

func (s ScheduleSpec) ARN() string { return s.Arn }

// RateExpression renders the cadence in the scheduler's rate() form.
func (s ScheduleSpec) RateExpression() string {
	if s.RateHours == 1 {
		return "rate(1 hour)"
	}
	return fmt.Sprintf("rate(%d hours)", s.RateHours)
}

// newSchedule binds the trigger to the function under the scheduler role and
// assembles the invocation payload. The payload is configuration handed to
// the function at invocation time; it is never interpreted here.
func newSchedule(id Identity, arns arnContext, cfg DeploymentConfig, fn, topic Resource) (ScheduleSpec, error) {
	payload := models.InvocationPayload{
		SiteUser:    cfg.SiteUser,
		S3Bucket:    cfg.BucketName,
		S3ObjectKey: cfg.ObjectKey,
		SNSTopicArn: topic.ARN(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ScheduleSpec{}, fmt.Errorf("marshal invocation payload: %w", err)
	}

	name := id.FullName + "-schedule"
	return ScheduleSpec{
		Name:      name,
		Arn:       arns.schedule(name),
		RateHours: cfg.rateHours(),
		TargetArn: fn.ARN(),
		RoleArn:   arns.iamRole(schedulerRoleName(id)),
		Payload:   raw,
	}, nil
}
