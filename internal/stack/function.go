package stack

// Function sizing is fixed: a run drives a full login and page parse, so the
// timeout sits well above normal site latency but far below the fire rate.
const (
	FunctionTimeoutSeconds = 90
	FunctionMemoryMB       = 512
	FunctionRuntime        = "provided.al2"
	FunctionHandler        = "bootstrap"
)

// FunctionSpec describes the one compute function of the deployment.
type FunctionSpec struct {
	Name           string            `json:"name"`
	Arn            string            `json:"arn"`
	Runtime        string            `json:"runtime"`
	Handler        string            `json:"handler"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	MemoryMB       int               `json:"memory_mb"`
	Tags           map[string]string `json:"tags"`
}

func (f FunctionSpec) LogicalName() string { return f.Name }

func (f FunctionSpec) ARN() string { return f.Arn }

func newFunction(id Identity, arns arnContext, tags map[string]string) FunctionSpec {
	name := id.FullName + "-function"
	return FunctionSpec{
		Name:           name,
		Arn:            arns.lambdaFunction(name),
		Runtime:        FunctionRuntime,
		Handler:        FunctionHandler,
		TimeoutSeconds: FunctionTimeoutSeconds,
		MemoryMB:       FunctionMemoryMB,
		Tags:           tags,
	}
}
