package integration

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rds"
)

// RDSAPI is the subset of the RDS control-plane client the handlers use.
// *rds.Client satisfies it; tests substitute a recording fake.
type RDSAPI interface {
	CreateIntegration(ctx context.Context, in *rds.CreateIntegrationInput, optFns ...func(*rds.Options)) (*rds.CreateIntegrationOutput, error)
	DeleteIntegration(ctx context.Context, in *rds.DeleteIntegrationInput, optFns ...func(*rds.Options)) (*rds.DeleteIntegrationOutput, error)
	ModifyIntegration(ctx context.Context, in *rds.ModifyIntegrationInput, optFns ...func(*rds.Options)) (*rds.ModifyIntegrationOutput, error)
	DescribeIntegrations(ctx context.Context, in *rds.DescribeIntegrationsInput, optFns ...func(*rds.Options)) (*rds.DescribeIntegrationsOutput, error)
	AddTagsToResource(ctx context.Context, in *rds.AddTagsToResourceInput, optFns ...func(*rds.Options)) (*rds.AddTagsToResourceOutput, error)
	RemoveTagsFromResource(ctx context.Context, in *rds.RemoveTagsFromResourceInput, optFns ...func(*rds.Options)) (*rds.RemoveTagsFromResourceOutput, error)
	ListTagsForResource(ctx context.Context, in *rds.ListTagsForResourceInput, optFns ...func(*rds.Options)) (*rds.ListTagsForResourceOutput, error)
}
