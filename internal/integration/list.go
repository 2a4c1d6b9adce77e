package integration

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/handler"
)

// list returns one page of integrations with the marker for the next.
func (h *Handler) list(ctx context.Context, req Request, cb *CallbackContext, log zerolog.Logger) Event {
	out, err := h.client.DescribeIntegrations(ctx, describeIntegrationsPageInput(req.NextToken))
	if err != nil {
		return handler.HandleError(cfn.Progress(req.DesiredState, cb), err, errorRules, log)
	}

	models := make([]*ResourceModel, 0, len(out.Integrations))
	for _, integ := range out.Integrations {
		models = append(models, modelFromIntegration(integ))
	}
	log.Debug().Int("count", len(models)).Msg("listed integrations")
	return cfn.SuccessList[*ResourceModel, *CallbackContext](models, aws.ToString(out.Marker))
}
