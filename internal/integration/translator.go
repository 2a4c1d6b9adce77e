package integration

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/rdsops/cfn-rds-integration/internal/tagging"
)

// listPageSize is the MaxRecords value for DescribeIntegrations pages.
const listPageSize = 100

// systemTagPrefix marks service-owned tags, which are excluded from the
// model's resource tags when reading state back.
const systemTagPrefix = "aws:"

// createIntegrationInput maps the model and the flattened tag set onto the
// create request.
func createIntegrationInput(m *ResourceModel, tags map[string]string) *rds.CreateIntegrationInput {
	in := &rds.CreateIntegrationInput{
		IntegrationName: aws.String(m.IntegrationName),
		SourceArn:       aws.String(m.SourceArn),
		TargetArn:       aws.String(m.TargetArn),
		Tags:            tagging.ToSDK(tags),
	}
	if m.KMSKeyId != "" {
		in.KMSKeyId = aws.String(m.KMSKeyId)
	}
	if m.DataFilter != "" {
		in.DataFilter = aws.String(m.DataFilter)
	}
	if m.Description != "" {
		in.Description = aws.String(m.Description)
	}
	if len(m.AdditionalEncryptionContext) > 0 {
		in.AdditionalEncryptionContext = m.AdditionalEncryptionContext
	}
	return in
}

// describeIntegrationInput targets a single integration by ARN.
func describeIntegrationInput(arn string) *rds.DescribeIntegrationsInput {
	return &rds.DescribeIntegrationsInput{
		IntegrationIdentifier: aws.String(arn),
	}
}

// describeIntegrationsPageInput lists a page of integrations.
func describeIntegrationsPageInput(marker string) *rds.DescribeIntegrationsInput {
	in := &rds.DescribeIntegrationsInput{
		MaxRecords: aws.Int32(listPageSize),
	}
	if marker != "" {
		in.Marker = aws.String(marker)
	}
	return in
}

// modifyIntegrationInput maps the desired model onto the modify request for
// the integration identified by arn.
func modifyIntegrationInput(arn string, m *ResourceModel) *rds.ModifyIntegrationInput {
	in := &rds.ModifyIntegrationInput{
		IntegrationIdentifier: aws.String(arn),
	}
	if m.IntegrationName != "" {
		in.IntegrationName = aws.String(m.IntegrationName)
	}
	if m.DataFilter != "" {
		in.DataFilter = aws.String(m.DataFilter)
	}
	if m.Description != "" {
		in.Description = aws.String(m.Description)
	}
	return in
}

// deleteIntegrationInput targets the integration identified by arn.
func deleteIntegrationInput(arn string) *rds.DeleteIntegrationInput {
	return &rds.DeleteIntegrationInput{
		IntegrationIdentifier: aws.String(arn),
	}
}

// applyIntegration refreshes the model from the remote integration state.
func applyIntegration(m *ResourceModel, integ types.Integration) {
	m.IntegrationArn = aws.ToString(integ.IntegrationArn)
	m.IntegrationName = aws.ToString(integ.IntegrationName)
	m.SourceArn = aws.ToString(integ.SourceArn)
	m.TargetArn = aws.ToString(integ.TargetArn)
	if integ.KMSKeyId != nil {
		m.KMSKeyId = aws.ToString(integ.KMSKeyId)
	}
	if integ.DataFilter != nil {
		m.DataFilter = aws.ToString(integ.DataFilter)
	}
	if integ.Description != nil {
		m.Description = aws.ToString(integ.Description)
	}
	if len(integ.AdditionalEncryptionContext) > 0 {
		m.AdditionalEncryptionContext = integ.AdditionalEncryptionContext
	}
	if integ.CreateTime != nil {
		m.CreateTime = integ.CreateTime.UTC().Format(time.RFC3339)
	}
	if len(integ.Tags) > 0 {
		m.Tags = resourceTagsOnly(tagging.FromSDK(integ.Tags))
	}
}

// modelFromIntegration builds a fresh model from remote state, as LIST does.
func modelFromIntegration(integ types.Integration) *ResourceModel {
	m := &ResourceModel{}
	applyIntegration(m, integ)
	return m
}

// resourceTagsOnly strips service-owned aws:* tags from a flat tag map.
func resourceTagsOnly(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if strings.HasPrefix(k, systemTagPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}
