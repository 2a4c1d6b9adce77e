package integration

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/handler"
	"github.com/rdsops/cfn-rds-integration/internal/tagging"
)

// create builds the CREATE step chain: safe-create, stabilize, apply the
// non-system tags once, then delegate to read for the terminal state.
func (h *Handler) create(ctx context.Context, req Request, cb *CallbackContext, log zerolog.Logger) Event {
	model := req.DesiredState
	if model.IntegrationName == "" {
		model.IntegrationName = newIntegrationName(
			req.StackID, req.LogicalResourceID, req.ClientRequestToken)
		log.Info().Str("integration_name", model.IntegrationName).
			Msg("generated integration name")
	}

	allTags := tagging.TagSet{
		System:   req.SystemTags,
		Stack:    req.DesiredStackTags,
		Resource: model.Tags,
	}

	return cfn.Progress(model, cb).
		Then(func(p Event) Event { return h.safeCreate(ctx, p, allTags, log) }).
		Then(func(p Event) Event { return h.stabilize(ctx, p, h.cfg.CreateUpdateStabilization, log) }).
		Then(func(p Event) Event {
			return handler.ExecOnce(p, func(p Event) Event {
				extra := tagging.TagSet{Stack: allTags.Stack, Resource: allTags.Resource}
				applied := extra
				if p.CallbackContext.TaggingFallback {
					// The fallback create carried system tags only; the rest
					// still need to go on.
					applied = tagging.TagSet{}
				}
				return h.updateTags(ctx, p, applied, extra, log)
			}, (*CallbackContext).isAddTagsDone, (*CallbackContext).markAddTagsDone)
		}).
		Then(h.readStep(ctx, log))
}

// safeCreate probes for an integration with the desired name before
// creating one, so a resumed invocation adopts the resource it already
// created instead of failing on a duplicate.
func (h *Handler) safeCreate(ctx context.Context, p Event, allTags tagging.TagSet, log zerolog.Logger) Event {
	probe := func() (types.Integration, bool, error) {
		return h.findIntegration(ctx, p.ResourceModel)
	}
	adopt := func(p Event, existing types.Integration) Event {
		applyIntegration(p.ResourceModel, existing)
		p.CallbackContext.IntegrationArn = aws.ToString(existing.IntegrationArn)
		return p
	}
	create := func(p Event) Event {
		return h.createIntegration(ctx, p, allTags, log)
	}
	onError := func(p Event, err error) Event {
		return handler.HandleError(p, err, errorRules, log)
	}
	return handler.SafeCreate(log, TypeName, p.ResourceModel.IntegrationName,
		probe, adopt, create, onError, p)
}

// createIntegration issues the create call with the full tag set and
// suspends for the first stabilization poll. If the call is denied for the
// tag portion, it is retried with system tags only; the remaining tags are
// applied later by the execute-once tag step.
func (h *Handler) createIntegration(ctx context.Context, p Event, allTags tagging.TagSet, log zerolog.Logger) Event {
	out, err := h.client.CreateIntegration(ctx, createIntegrationInput(p.ResourceModel, allTags.Flatten()))
	if err != nil && isTagAccessDenied(err) {
		log.Warn().Err(err).
			Msg("create with full tag set denied, retrying with system tags only")
		p.CallbackContext.TaggingFallback = true
		systemOnly := tagging.TagSet{System: allTags.System}
		out, err = h.client.CreateIntegration(ctx, createIntegrationInput(p.ResourceModel, systemOnly.Flatten()))
	}
	if err != nil {
		return handler.HandleError(p, err, errorRules, log)
	}

	arn := aws.ToString(out.IntegrationArn)
	p.CallbackContext.IntegrationArn = arn
	p.ResourceModel.IntegrationArn = arn
	log.Info().Str("integration_arn", arn).Msg("integration create initiated")
	return cfn.Suspend(h.cfg.CallbackDelaySeconds, p.ResourceModel, p.CallbackContext)
}

// isTagAccessDenied reports whether err is an access denial on the tagging
// portion of a create, identified by the denied IAM action in the message.
func isTagAccessDenied(err error) bool {
	if errorRules.Classify(err).Code != cfn.ErrCodeAccessDenied {
		return false
	}
	return strings.Contains(err.Error(), "rds:AddTagsToResource")
}
