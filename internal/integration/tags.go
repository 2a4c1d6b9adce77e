package integration

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/handler"
	"github.com/rdsops/cfn-rds-integration/internal/tagging"
)

// updateTags reconciles the remote tag set from previous to desired. An
// empty diff issues no remote calls. Otherwise the delta is applied as a
// remove followed by an add against the integration ARN, fetching the ARN
// first if no step has cached it yet.
//
// Tag failures are never soft-failed for this resource: any error fails
// the whole operation through the rule set.
//
// TODO: apply the delta with a single set-tags call once the API offers
// one; between remove and add the resource briefly carries neither tag set.
func (h *Handler) updateTags(ctx context.Context, p Event, previous, desired tagging.TagSet, log zerolog.Logger) Event {
	removeKeys, add := tagging.Diff(previous, desired)
	if len(removeKeys) == 0 && len(add) == 0 {
		return p
	}

	if p.CallbackContext.IntegrationArn == "" {
		fetched := h.fetchArn(ctx, p, log)
		if fetched.IsFailed() || fetched.IsSuspended() {
			return fetched
		}
		p = fetched
	}
	arn := p.CallbackContext.IntegrationArn

	if len(removeKeys) > 0 {
		_, err := h.client.RemoveTagsFromResource(ctx, &rds.RemoveTagsFromResourceInput{
			ResourceName: aws.String(arn),
			TagKeys:      removeKeys,
		})
		if err != nil {
			return handler.HandleError(p, err, errorRules, log)
		}
	}
	if len(add) > 0 {
		_, err := h.client.AddTagsToResource(ctx, &rds.AddTagsToResourceInput{
			ResourceName: aws.String(arn),
			Tags:         tagging.ToSDK(add),
		})
		if err != nil {
			return handler.HandleError(p, err, errorRules, log)
		}
	}

	log.Info().
		Int("removed", len(removeKeys)).
		Int("added", len(add)).
		Str("integration_arn", arn).
		Msg("reconciled integration tags")
	return p
}
