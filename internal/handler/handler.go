// Package handler holds the orchestration helpers shared by all resource
// handlers: error-to-event conversion, execute-once step gating, and the
// idempotent safe-create wrapper.
package handler

import (
	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/errorrule"
)

// HandleError classifies err against rules and converts the outcome into a
// progress event. Retryable classifications suspend the chain with the
// Throttling error code so the framework re-drives the handler; terminal
// classifications fail with the classified code and the original error
// message; ignored classifications pass the event through unchanged.
func HandleError[M, C any](
	p cfn.ProgressEvent[M, C],
	err error,
	rules *errorrule.RuleSet,
	log zerolog.Logger,
) cfn.ProgressEvent[M, C] {
	if err == nil {
		return p
	}
	status := rules.Classify(err)
	switch status.Decision {
	case errorrule.DecisionRetry:
		log.Info().
			Err(err).
			Int64("delay_seconds", status.DelaySeconds).
			Msg("retryable error, requesting re-invocation")
		ev := cfn.Suspend(status.DelaySeconds, p.ResourceModel, p.CallbackContext)
		ev.ErrorCode = cfn.ErrCodeThrottling
		return ev
	case errorrule.DecisionIgnore:
		log.Warn().Err(err).Msg("ignoring soft failure")
		return p
	default:
		log.Error().
			Err(err).
			Str("error_code", string(status.Code)).
			Msg("terminal error")
		return p.Fail(status.Code, err.Error())
	}
}

// ExecOnce runs step at most once per logical reconciliation. The done
// getter reads a monotonic completion flag from the callback context; if it
// is already set the step is skipped. markDone sets the flag once the step's
// remote call went through: on completion, or on a suspension that carries
// no error code. A failed step, or a retry suspension (the call was
// throttled and never happened), stays re-runnable.
func ExecOnce[M, C any](
	p cfn.ProgressEvent[M, C],
	step cfn.Step[M, C],
	done func(C) bool,
	markDone func(C),
) cfn.ProgressEvent[M, C] {
	if done(p.CallbackContext) {
		return p
	}
	next := step(p)
	if !next.IsFailed() && next.ErrorCode == cfn.ErrCodeNone {
		markDone(next.CallbackContext)
	}
	return next
}

// SafeCreate wraps a create step with an existence probe so that re-invoking
// a creation that already went through (including after a crash between the
// remote call and the response) does not attempt a duplicate create.
//
// The probe looks up the resource by its natural key and reports whether it
// exists. If it does, create is skipped and adopt refreshes the event from
// the probe result. If the probe itself fails, the error is propagated
// through onError. Otherwise create runs.
func SafeCreate[M, C, R any](
	log zerolog.Logger,
	typeName, identifier string,
	probe func() (R, bool, error),
	adopt func(cfn.ProgressEvent[M, C], R) cfn.ProgressEvent[M, C],
	create cfn.Step[M, C],
	onError func(cfn.ProgressEvent[M, C], error) cfn.ProgressEvent[M, C],
	p cfn.ProgressEvent[M, C],
) cfn.ProgressEvent[M, C] {
	existing, found, err := probe()
	if err != nil {
		return onError(p, err)
	}
	if found {
		log.Info().
			Str("type", typeName).
			Str("identifier", identifier).
			Msg("resource already exists, skipping create")
		return adopt(p, existing)
	}
	return create(p)
}
