package integration

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/handler"
)

// delete builds the DELETE step chain: issue the delete once, then poll
// until the integration is gone.
func (h *Handler) delete(ctx context.Context, req Request, cb *CallbackContext, log zerolog.Logger) Event {
	return cfn.Progress(req.DesiredState, cb).
		Then(func(p Event) Event {
			return handler.ExecOnce(p, func(p Event) Event {
				return h.deleteIntegration(ctx, p, log)
			}, (*CallbackContext).isDeleteDone, (*CallbackContext).markDeleteDone)
		}).
		Then(func(p Event) Event { return h.stabilizeDelete(ctx, p, log) }).
		Then(func(p Event) Event { return p.SucceedEmpty() })
}

// deleteIntegration issues the delete call and suspends for the first
// deletion poll. A missing integration fails with NotFound via the rule
// set, per the framework's delete contract.
func (h *Handler) deleteIntegration(ctx context.Context, p Event, log zerolog.Logger) Event {
	if p.CallbackContext.IntegrationArn == "" {
		fetched := h.fetchArn(ctx, p, log)
		if fetched.IsFailed() || fetched.IsSuspended() {
			return fetched
		}
		p = fetched
	}

	_, err := h.client.DeleteIntegration(ctx,
		deleteIntegrationInput(p.CallbackContext.IntegrationArn))
	if err != nil {
		return handler.HandleError(p, err, errorRules, log)
	}
	log.Info().Str("integration_arn", p.CallbackContext.IntegrationArn).
		Msg("integration delete initiated")
	return cfn.Suspend(h.cfg.CallbackDelaySeconds, p.ResourceModel, p.CallbackContext)
}

// stabilizeDelete polls until the integration no longer exists. Unlike
// create stabilization there is no invalid state to detect; only the
// deletion timeout bounds the wait.
func (h *Handler) stabilizeDelete(ctx context.Context, p Event, log zerolog.Logger) Event {
	policy := h.cfg.DeleteStabilization
	cb := p.CallbackContext
	now := h.clock.Now()
	if cb.StabilizationStart == nil {
		start := now
		cb.StabilizationStart = &start
	} else if policy.Expired(*cb.StabilizationStart, now) {
		return p.Fail(cfn.ErrCodeNotStabilized,
			fmt.Sprintf("integration %s was not deleted within %s",
				p.ResourceModel.identifier(), policy.Timeout))
	}

	_, found, err := h.findIntegration(ctx, p.ResourceModel)
	if err != nil {
		return handler.HandleError(p, err, errorRules, log)
	}
	if found {
		log.Info().Msg("integration still deleting")
		return cfn.Suspend(policy.DelaySeconds(), p.ResourceModel, cb)
	}
	return p
}
