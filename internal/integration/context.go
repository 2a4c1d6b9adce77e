package integration

import "time"

// CallbackContext carries cross-invocation progress for one logical
// reconciliation. It is serialized by the invoking framework between
// invocations and discarded once the handler reaches a terminal state.
//
// Every flag is monotonic: once set it is never cleared, so execute-once
// steps are never repeated when an invocation resumes mid-chain.
type CallbackContext struct {
	// IntegrationArn caches the resource ARN once known so later steps do
	// not need another lookup.
	IntegrationArn string `json:"integrationArn,omitempty"`
	// TaggingFallback records that the create call was retried with system
	// tags only after an access-denied on the full tag set.
	TaggingFallback bool `json:"taggingFallback,omitempty"`
	// AddTagsComplete records that the post-create tag application ran.
	AddTagsComplete bool `json:"addTagsComplete,omitempty"`
	// ModifyComplete records that the update's modify call ran.
	ModifyComplete bool `json:"modifyComplete,omitempty"`
	// DeleteComplete records that the delete call ran.
	DeleteComplete bool `json:"deleteComplete,omitempty"`
	// StabilizationStart is the wall-clock time of the first stabilization
	// poll, used to enforce the overall timeout.
	StabilizationStart *time.Time `json:"stabilizationStart,omitempty"`
}

func (c *CallbackContext) isAddTagsDone() bool { return c.AddTagsComplete }
func (c *CallbackContext) markAddTagsDone()    { c.AddTagsComplete = true }

func (c *CallbackContext) isModifyDone() bool { return c.ModifyComplete }
func (c *CallbackContext) markModifyDone()    { c.ModifyComplete = true }

func (c *CallbackContext) isDeleteDone() bool { return c.DeleteComplete }
func (c *CallbackContext) markDeleteDone()    { c.DeleteComplete = true }
