package stack

import (
	"fmt"
	"strings"
)

// Resource is implemented by every composed entity that other entities refer
// to. The schedule binding and policy composer consume identifiers through
// this interface instead of inspecting each spec's concrete shape.
type Resource interface {
	LogicalName() string
	ARN() string
}

const arnPartition = "aws"

// arnContext derives ARNs from the deployment's account and region so the
// description is closed over the configuration alone. The apply stage
// re-derives live ARNs from engine outputs when wiring resources together.
type arnContext struct {
	region    string
	accountID string
}

func (a arnContext) lambdaFunction(name string) string {
	return fmt.Sprintf("arn:%s:lambda:%s:%s:function:%s", arnPartition, a.region, a.accountID, name)
}

func (a arnContext) snsTopic(name string) string {
	return fmt.Sprintf("arn:%s:sns:%s:%s:%s", arnPartition, a.region, a.accountID, name)
}

func (a arnContext) iamRole(name string) string {
	return fmt.Sprintf("arn:%s:iam::%s:role/%s", arnPartition, a.accountID, name)
}

func (a arnContext) schedule(name string) string {
	return fmt.Sprintf("arn:%s:scheduler:%s:%s:schedule/default/%s", arnPartition, a.region, a.accountID, name)
}

// secret passes a full ARN through untouched so an externally owned secret
// can be referenced exactly as configured.
func (a arnContext) secret(ref string) string {
	if strings.HasPrefix(ref, "arn:") {
		return ref
	}
	return fmt.Sprintf("arn:%s:secretsmanager:%s:%s:secret:%s", arnPartition, a.region, a.accountID, ref)
}
