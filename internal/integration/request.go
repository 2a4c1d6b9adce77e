package integration

// Operation is the closed set of handler operation kinds.
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationRead   Operation = "READ"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
	OperationList   Operation = "LIST"
)

// Request is one handler invocation as delivered by the invoking framework.
// DesiredState is required for every operation except LIST; PreviousState
// is populated on UPDATE.
type Request struct {
	LogicalResourceID  string `json:"logicalResourceId,omitempty"`
	StackID            string `json:"stackId,omitempty"`
	ClientRequestToken string `json:"clientRequestToken,omitempty"`

	DesiredState  *ResourceModel `json:"desiredState,omitempty"`
	PreviousState *ResourceModel `json:"previousState,omitempty"`

	// Stack-level tags propagated by the framework.
	DesiredStackTags  map[string]string `json:"desiredStackTags,omitempty"`
	PreviousStackTags map[string]string `json:"previousStackTags,omitempty"`

	// Service-owned aws:* tags.
	SystemTags         map[string]string `json:"systemTags,omitempty"`
	PreviousSystemTags map[string]string `json:"previousSystemTags,omitempty"`

	// NextToken is the LIST pagination marker.
	NextToken string `json:"nextToken,omitempty"`
}
