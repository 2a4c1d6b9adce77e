package integration

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/handler"
	"github.com/rdsops/cfn-rds-integration/internal/tagging"
)

// update builds the UPDATE step chain: modify once if any mutable field
// changed, stabilize, reconcile tags, then delegate to read.
func (h *Handler) update(ctx context.Context, req Request, cb *CallbackContext, log zerolog.Logger) Event {
	previousTags := tagging.TagSet{
		System:   req.PreviousSystemTags,
		Stack:    req.PreviousStackTags,
		Resource: previousResourceTags(req.PreviousState),
	}
	desiredTags := tagging.TagSet{
		System:   req.SystemTags,
		Stack:    req.DesiredStackTags,
		Resource: req.DesiredState.Tags,
	}

	return cfn.Progress(req.DesiredState, cb).
		Then(func(p Event) Event {
			return handler.ExecOnce(p, func(p Event) Event {
				return h.modifyIntegration(ctx, p, req.PreviousState, log)
			}, (*CallbackContext).isModifyDone, (*CallbackContext).markModifyDone)
		}).
		Then(func(p Event) Event { return h.stabilize(ctx, p, h.cfg.CreateUpdateStabilization, log) }).
		Then(func(p Event) Event { return h.updateTags(ctx, p, previousTags, desiredTags, log) }).
		Then(h.readStep(ctx, log))
}

// modifyIntegration issues the modify call when a mutable field changed and
// suspends for stabilization; an update that only touches tags passes
// through without a remote call.
func (h *Handler) modifyIntegration(ctx context.Context, p Event, previous *ResourceModel, log zerolog.Logger) Event {
	if !needsModify(previous, p.ResourceModel) {
		return p
	}

	if p.CallbackContext.IntegrationArn == "" {
		lookup := *p.ResourceModel
		if lookup.IntegrationArn == "" && previous != nil {
			lookup.IntegrationArn = previous.IntegrationArn
			// A renamed integration is not findable by its new name.
			lookup.IntegrationName = previousName(previous, p.ResourceModel)
		}
		fetched := h.fetchArn(ctx, cfn.Progress(&lookup, p.CallbackContext), log)
		if fetched.IsFailed() || fetched.IsSuspended() {
			return fetched
		}
		p.CallbackContext.IntegrationArn = fetched.CallbackContext.IntegrationArn
	}
	p.ResourceModel.IntegrationArn = p.CallbackContext.IntegrationArn

	_, err := h.client.ModifyIntegration(ctx,
		modifyIntegrationInput(p.CallbackContext.IntegrationArn, p.ResourceModel))
	if err != nil {
		return handler.HandleError(p, err, errorRules, log)
	}
	log.Info().Str("integration_arn", p.CallbackContext.IntegrationArn).
		Msg("integration modify initiated")
	return cfn.Suspend(h.cfg.CallbackDelaySeconds, p.ResourceModel, p.CallbackContext)
}

// needsModify reports whether any field ModifyIntegration can change
// differs between the previous and desired state.
func needsModify(previous, desired *ResourceModel) bool {
	if previous == nil {
		return true
	}
	return previous.IntegrationName != desired.IntegrationName ||
		previous.DataFilter != desired.DataFilter ||
		previous.Description != desired.Description
}

// previousName returns the name the remote resource currently carries when
// the update renames it.
func previousName(previous, desired *ResourceModel) string {
	if previous.IntegrationName != "" {
		return previous.IntegrationName
	}
	return desired.IntegrationName
}

// previousResourceTags is nil-safe access to the previous model's tags.
func previousResourceTags(previous *ResourceModel) map[string]string {
	if previous == nil {
		return nil
	}
	return previous.Tags
}
