package stack

import "fmt"

// PolicyVersion is the IAM policy language version.
const PolicyVersion = "2012-10-17"

// Statement is one access grant. Statements are always Allow; the topology
// has no use for explicit denies.
type Statement struct {
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

// PolicyDocument is one role's complete inline policy. Statements for a role
// are grouped into a single document so the role is attached atomically and
// a partially granted state is never observable.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// RoleSpec describes one execution identity and the single inline policy
// document attached to it.
type RoleSpec struct {
	Name          string         `json:"name"`
	Arn           string         `json:"arn"`
	AssumeService string         `json:"assume_service"`
	Policy        PolicyDocument `json:"policy"`
}

func (r RoleSpec) LogicalName() string { return r.Name }

func (r RoleSpec) ARN() string { return r.Arn }

// AssumeRolePolicy renders the trust document for the role's service
// principal.
func (r RoleSpec) AssumeRolePolicy() string {
	return fmt.Sprintf(`{"Version":%q,"Statement":[{"Effect":"Allow","Principal":{"Service":%q},"Action":"sts:AssumeRole"}]}`,
		PolicyVersion, r.AssumeService)
}

// SchedulerPolicy grants exactly one capability: invoking the one target
// function. The scheduler identity shares nothing with the function's own
// execution identity.
func SchedulerPolicy(functionArn string) PolicyDocument {
	return PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{
			{
				Effect:   "Allow",
				Action:   []string{"lambda:InvokeFunction"},
				Resource: []string{functionArn},
			},
		},
	}
}

// FunctionPolicy grants the watcher's three access needs: publish to the one
// topic, read the one secret, and object access for its state file.
func FunctionPolicy(topicArn, secretArn string) PolicyDocument {
	return PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{
			{
				Effect:   "Allow",
				Action:   []string{"sns:Publish"},
				Resource: []string{topicArn},
			},
			{
				Effect:   "Allow",
				Action:   []string{"secretsmanager:GetSecretValue"},
				Resource: []string{secretArn},
			},
			{
				Effect: "Allow",
				Action: []string{"s3:PutObject", "s3:GetObject", "s3:ListBucket"},
				// TODO: narrow to the state bucket and its objects. The
				// wildcard leaves a compromised function identity free to
				// touch every bucket in the account.
				Resource: []string{"*"},
			},
		},
	}
}

func schedulerRoleName(id Identity) string {
	return id.FullName + "-scheduler-role"
}

func functionRoleName(id Identity) string {
	return id.FullName + "-function-role"
}

func newSchedulerRole(id Identity, arns arnContext, fn Resource) RoleSpec {
	name := schedulerRoleName(id)
	return RoleSpec{
		Name:          name,
		Arn:           arns.iamRole(name),
		AssumeService: "scheduler.amazonaws.com",
		Policy:        SchedulerPolicy(fn.ARN()),
	}
}

func newFunctionRole(id Identity, arns arnContext, topic Resource, secretArn string) RoleSpec {
	name := functionRoleName(id)
	return RoleSpec{
		Name:          name,
		Arn:           arns.iamRole(name),
		AssumeService: "lambda.amazonaws.com",
		Policy:        FunctionPolicy(topic.ARN(), secretArn),
	}
}
