// Package stack composes a deployment configuration into the desired-state
// description of one fixed topology: a fixed-rate schedule invoking a Lambda
// watcher that reports through an SNS fan-out topic, bound by two
// least-privilege IAM roles. The description is an immutable value; applying
// it against live infrastructure belongs to the deploy package.
package stack

import "encoding/json"

// TagKey is the ownership/cost-allocation tag applied to the function and to
// the stack as a whole.
const TagKey = "application"

// Stack is the complete desired-state description of one deployment.
// All fields are populated by Compose and never mutated afterwards.
type Stack struct {
	Identity      Identity          `json:"identity"`
	Function      FunctionSpec      `json:"function"`
	Topic         TopicSpec         `json:"topic"`
	Schedule      ScheduleSpec      `json:"schedule"`
	SchedulerRole RoleSpec          `json:"scheduler_role"`
	FunctionRole  RoleSpec          `json:"function_role"`
	Tags          map[string]string `json:"tags"`
}

// Compose translates cfg into the deployment's desired-state description.
// It is a pure function: identical configurations produce identical stacks,
// and Description renders them to identical bytes. Resources are built in
// dependency order because each later spec embeds identifiers of earlier
// ones; nothing is emitted if validation fails.
func Compose(cfg DeploymentConfig) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := NewIdentity(cfg.Tag, cfg.Name)
	arns := arnContext{region: cfg.Region, accountID: cfg.AccountID}
	tags := map[string]string{TagKey: cfg.Tag}

	fn := newFunction(id, arns, tags)
	topic := newTopic(id, arns, cfg.EmailRecipients)

	schedule, err := newSchedule(id, arns, cfg, fn, topic)
	if err != nil {
		return nil, err
	}

	schedulerRole := newSchedulerRole(id, arns, fn)
	functionRole := newFunctionRole(id, arns, topic, arns.secret(cfg.SecretName))

	return &Stack{
		Identity:      id,
		Function:      fn,
		Topic:         topic,
		Schedule:      schedule,
		SchedulerRole: schedulerRole,
		FunctionRole:  functionRole,
		Tags:          tags,
	}, nil
}

// Description renders the stack as stable indented JSON. Struct field order
// is fixed and maps marshal with sorted keys, so equal stacks always yield
// byte-identical output.
func (s *Stack) Description() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
