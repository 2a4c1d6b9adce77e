package integration

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/handler"
	"github.com/rdsops/cfn-rds-integration/internal/tagging"
)

// read returns the current remote state of the integration.
func (h *Handler) read(ctx context.Context, req Request, cb *CallbackContext, log zerolog.Logger) Event {
	return cfn.Progress(req.DesiredState, cb).Then(h.readStep(ctx, log))
}

// readStep refreshes the model from the remote integration and its tags and
// succeeds with it. Also used as the terminal step of CREATE and UPDATE.
func (h *Handler) readStep(ctx context.Context, log zerolog.Logger) cfn.Step[*ResourceModel, *CallbackContext] {
	return func(p Event) Event {
		integ, found, err := h.findIntegration(ctx, p.ResourceModel)
		if err != nil {
			return handler.HandleError(p, err, errorRules, log)
		}
		if !found {
			return p.Fail(cfn.ErrCodeNotFound,
				fmt.Sprintf("integration %s not found", p.ResourceModel.identifier()))
		}
		applyIntegration(p.ResourceModel, integ)

		tags, err := h.client.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
			ResourceName: integ.IntegrationArn,
		})
		if err != nil {
			return handler.HandleError(p, err, errorRules, log)
		}
		p.ResourceModel.Tags = resourceTagsOnly(tagging.FromSDK(tags.TagList))
		log.Debug().Str("integration_arn", aws.ToString(integ.IntegrationArn)).
			Msg("integration state read")
		return p.Succeed()
	}
}
