// Package cfn defines the progress-event contract between resource handlers
// and the CloudFormation invocation framework: operation status, the closed
// handler error code set, and the step-chaining combinator handlers use to
// sequence remote calls.
package cfn

// OperationStatus is the top-level state of a handler invocation.
type OperationStatus string

const (
	StatusInProgress OperationStatus = "IN_PROGRESS"
	StatusSuccess    OperationStatus = "SUCCESS"
	StatusFailed     OperationStatus = "FAILED"
)

// HandlerErrorCode is the closed set of error codes a handler may surface to
// the invoking framework on a terminal failure (or, for Throttling, on an
// in-progress retry).
type HandlerErrorCode string

const (
	ErrCodeNone                 HandlerErrorCode = ""
	ErrCodeNotFound             HandlerErrorCode = "NotFound"
	ErrCodeAlreadyExists        HandlerErrorCode = "AlreadyExists"
	ErrCodeResourceConflict     HandlerErrorCode = "ResourceConflict"
	ErrCodeServiceLimitExceeded HandlerErrorCode = "ServiceLimitExceeded"
	ErrCodeAccessDenied         HandlerErrorCode = "AccessDenied"
	ErrCodeThrottling           HandlerErrorCode = "Throttling"
	ErrCodeInternalFailure      HandlerErrorCode = "InternalFailure"
	ErrCodeNotStabilized        HandlerErrorCode = "NotStabilized"
	ErrCodeInvalidRequest       HandlerErrorCode = "InvalidRequest"
)

// ProgressEvent is the result of one handler invocation. M is the resource
// model type and C the callback context type; both are round-tripped opaquely
// by the invoking framework between invocations.
//
// Invariants: SUCCESS never carries an error code; FAILED always carries a
// non-empty message and an error code and no models; IN_PROGRESS never
// carries a models list or message.
type ProgressEvent[M, C any] struct {
	Status               OperationStatus  `json:"status"`
	CallbackDelaySeconds int64            `json:"callbackDelaySeconds"`
	ErrorCode            HandlerErrorCode `json:"errorCode,omitempty"`
	Message              string           `json:"message,omitempty"`
	ResourceModel        M                `json:"resourceModel,omitempty"`
	ResourceModels       []M              `json:"resourceModels,omitempty"`
	CallbackContext      C                `json:"callbackContext,omitempty"`
	NextToken            string           `json:"nextToken,omitempty"`
}

// Step transforms one progress event into the next. A step typically makes
// exactly one remote API call.
type Step[M, C any] func(ProgressEvent[M, C]) ProgressEvent[M, C]

// Progress returns a non-terminal event that lets the step chain continue
// within the current invocation.
func Progress[M, C any](model M, context C) ProgressEvent[M, C] {
	return ProgressEvent[M, C]{
		Status:          StatusInProgress,
		ResourceModel:   model,
		CallbackContext: context,
	}
}

// Suspend returns an in-progress event that requests re-invocation after
// delaySeconds. The callback context is round-tripped to the next invocation.
func Suspend[M, C any](delaySeconds int64, model M, context C) ProgressEvent[M, C] {
	return ProgressEvent[M, C]{
		Status:               StatusInProgress,
		CallbackDelaySeconds: delaySeconds,
		ResourceModel:        model,
		CallbackContext:      context,
	}
}

// SuccessList returns a terminal success event carrying a page of models, as
// produced by LIST handlers.
func SuccessList[M, C any](models []M, nextToken string) ProgressEvent[M, C] {
	return ProgressEvent[M, C]{
		Status:         StatusSuccess,
		ResourceModels: models,
		NextToken:      nextToken,
	}
}

// Succeed converts the event into a terminal success carrying the current
// resource model. The callback context is discarded.
func (p ProgressEvent[M, C]) Succeed() ProgressEvent[M, C] {
	return ProgressEvent[M, C]{
		Status:        StatusSuccess,
		ResourceModel: p.ResourceModel,
	}
}

// SucceedEmpty converts the event into a terminal success with no resource
// model, as produced by DELETE handlers.
func (p ProgressEvent[M, C]) SucceedEmpty() ProgressEvent[M, C] {
	return ProgressEvent[M, C]{Status: StatusSuccess}
}

// Fail converts the event into a terminal failure with the given code and
// message. Models and context are discarded.
func (p ProgressEvent[M, C]) Fail(code HandlerErrorCode, message string) ProgressEvent[M, C] {
	if message == "" {
		message = "unknown error"
	}
	if code == ErrCodeNone {
		code = ErrCodeInternalFailure
	}
	return ProgressEvent[M, C]{
		Status:    StatusFailed,
		ErrorCode: code,
		Message:   message,
	}
}

// IsFailed reports whether the event is a terminal failure.
func (p ProgressEvent[M, C]) IsFailed() bool {
	return p.Status == StatusFailed
}

// IsSuspended reports whether the event requests re-invocation: an
// in-progress event with a callback delay or an explicit retry error code.
func (p ProgressEvent[M, C]) IsSuspended() bool {
	return p.Status == StatusInProgress &&
		(p.CallbackDelaySeconds > 0 || p.ErrorCode != ErrCodeNone)
}

// IsTerminal reports whether the event ends the reconciliation.
func (p ProgressEvent[M, C]) IsTerminal() bool {
	return p.Status == StatusSuccess || p.Status == StatusFailed
}

// Then invokes step with the current event unless the chain has already
// failed or suspended; a failed or suspended event passes through untouched,
// short-circuiting the remainder of the chain.
func (p ProgressEvent[M, C]) Then(step Step[M, C]) ProgressEvent[M, C] {
	if p.IsFailed() || p.IsSuspended() {
		return p
	}
	return step(p)
}
