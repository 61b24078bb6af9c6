// Package deploy applies a composed stack description with Pulumi. It is the
// only layer that talks to the deployment engine; the stack package hands it
// an immutable description and is never called back.
package deploy

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/scheduler"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/sns"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/qwertytam/mtlockyer/internal/models"
	"github.com/qwertytam/mtlockyer/internal/stack"
)

// FunctionCodePath is where the CI pipeline drops the watcher archive before
// running the deployment.
const FunctionCodePath = "build/watcher.zip"

const logRetentionDays = 14

// Apply registers every resource of the stack with the Pulumi engine. The
// engine owns diffing and lifecycle; this function only declares. Wiring
// between resources uses live engine outputs rather than the derived ARNs in
// the description, so a drifted account never produces dangling references.
func Apply(ctx *pulumi.Context, st *stack.Stack) error {
	tags := pulumi.StringMap{}
	for k, v := range st.Tags {
		tags[k] = pulumi.String(v)
	}

	functionRole, err := iam.NewRole(ctx, st.FunctionRole.Name, &iam.RoleArgs{
		Name:             pulumi.String(st.FunctionRole.Name),
		AssumeRolePolicy: pulumi.String(st.FunctionRole.AssumeRolePolicy()),
		Tags:             tags,
	})
	if err != nil {
		return fmt.Errorf("create function role: %w", err)
	}

	schedulerRole, err := iam.NewRole(ctx, st.SchedulerRole.Name, &iam.RoleArgs{
		Name:             pulumi.String(st.SchedulerRole.Name),
		AssumeRolePolicy: pulumi.String(st.SchedulerRole.AssumeRolePolicy()),
		Tags:             tags,
	})
	if err != nil {
		return fmt.Errorf("create scheduler role: %w", err)
	}

	logGroup, err := cloudwatch.NewLogGroup(ctx, st.Function.Name+"-logs", &cloudwatch.LogGroupArgs{
		Name:            pulumi.String("/aws/lambda/" + st.Function.Name),
		RetentionInDays: pulumi.Int(logRetentionDays),
		Tags:            tags,
	})
	if err != nil {
		return fmt.Errorf("create log group: %w", err)
	}

	fn, err := lambda.NewFunction(ctx, st.Function.Name, &lambda.FunctionArgs{
		Name:       pulumi.String(st.Function.Name),
		Runtime:    pulumi.String(st.Function.Runtime),
		Handler:    pulumi.String(st.Function.Handler),
		Role:       functionRole.Arn,
		Code:       pulumi.NewFileArchive(FunctionCodePath),
		MemorySize: pulumi.Int(st.Function.MemoryMB),
		Timeout:    pulumi.Int(st.Function.TimeoutSeconds),
		Tags:       tags,
	}, pulumi.DependsOn([]pulumi.Resource{logGroup}))
	if err != nil {
		return fmt.Errorf("create function: %w", err)
	}

	topic, err := sns.NewTopic(ctx, st.Topic.Name, &sns.TopicArgs{
		Name:        pulumi.String(st.Topic.Name),
		DisplayName: pulumi.String(st.Topic.DisplayName),
		Tags:        tags,
	})
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}

	for i, sub := range st.Topic.Subscriptions {
		_, err = sns.NewTopicSubscription(ctx, fmt.Sprintf("%s-subscription-%d", st.Topic.Name, i), &sns.TopicSubscriptionArgs{
			Topic:    topic.Arn,
			Protocol: pulumi.String(sub.Protocol),
			Endpoint: pulumi.String(sub.Endpoint),
		})
		if err != nil {
			return fmt.Errorf("create subscription %d: %w", i, err)
		}
	}

	schedulerPolicy, err := iam.NewRolePolicy(ctx, st.SchedulerRole.Name+"-policy", &iam.RolePolicyArgs{
		Role: schedulerRole.Name,
		Policy: fn.Arn.ApplyT(func(arn string) (string, error) {
			doc, err := json.Marshal(stack.SchedulerPolicy(arn))
			return string(doc), err
		}).(pulumi.StringOutput),
	})
	if err != nil {
		return fmt.Errorf("attach scheduler policy: %w", err)
	}

	secretArn := st.FunctionRole.Policy.Statement[1].Resource[0]
	functionPolicy, err := iam.NewRolePolicy(ctx, st.FunctionRole.Name+"-policy", &iam.RolePolicyArgs{
		Role: functionRole.Name,
		Policy: topic.Arn.ApplyT(func(arn string) (string, error) {
			doc, err := json.Marshal(stack.FunctionPolicy(arn, secretArn))
			return string(doc), err
		}).(pulumi.StringOutput),
	})
	if err != nil {
		return fmt.Errorf("attach function policy: %w", err)
	}

	var payload models.InvocationPayload
	if err := json.Unmarshal(st.Schedule.Payload, &payload); err != nil {
		return fmt.Errorf("decode invocation payload: %w", err)
	}

	_, err = scheduler.NewSchedule(ctx, st.Schedule.Name, &scheduler.ScheduleArgs{
		Name:      pulumi.String(st.Schedule.Name),
		GroupName: pulumi.String("default"),
		FlexibleTimeWindow: &scheduler.ScheduleFlexibleTimeWindowArgs{
			Mode: pulumi.String("OFF"),
		},
		ScheduleExpression: pulumi.String(st.Schedule.RateExpression()),
		Target: &scheduler.ScheduleTargetArgs{
			Arn:     fn.Arn,
			RoleArn: schedulerRole.Arn,
			Input: topic.Arn.ApplyT(func(arn string) (string, error) {
				p := payload
				p.SNSTopicArn = arn
				raw, err := json.Marshal(p)
				return string(raw), err
			}).(pulumi.StringOutput),
		},
	}, pulumi.DependsOn([]pulumi.Resource{schedulerPolicy, functionPolicy}))
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	ctx.Export("functionArn", fn.Arn)
	ctx.Export("topicArn", topic.Arn)
	ctx.Export("scheduleName", pulumi.String(st.Schedule.Name))

	return nil
}
