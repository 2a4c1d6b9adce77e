package integration

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
)

const (
	testIntegrationName = "orders-redshift-integration"
	testIntegrationARN  = "arn:aws:rds:us-east-1:123456789012:integration:0ecd2c06"
	testSourceARN       = "arn:aws:rds:us-east-1:123456789012:cluster:orders"
	testTargetARN       = "arn:aws:redshift:us-east-1:123456789012:namespace:1a2b3c4d"
)

// mockRDS is an in-memory RDS control plane holding at most one
// integration. Tests flip its status and existence between invocations to
// script stabilization sequences, and inspect recorded calls afterwards.
type mockRDS struct {
	exists bool
	integ  types.Integration

	// errs injects an error per operation name; failOnce injects one that is
	// consumed by the first call.
	errs     map[string]error
	failOnce map[string]error

	calls       map[string]int
	removedKeys [][]string
	addedTags   [][]types.Tag
	pageMarker  string
}

func newMockRDS() *mockRDS {
	return &mockRDS{
		errs:     map[string]error{},
		failOnce: map[string]error{},
		calls:    map[string]int{},
	}
}

// seed installs an existing integration with the given status.
func (m *mockRDS) seed(status types.IntegrationStatus) {
	m.exists = true
	m.integ = types.Integration{
		IntegrationName: aws.String(testIntegrationName),
		IntegrationArn:  aws.String(testIntegrationARN),
		SourceArn:       aws.String(testSourceARN),
		TargetArn:       aws.String(testTargetARN),
		Status:          status,
		CreateTime:      aws.Time(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (m *mockRDS) CreateIntegration(_ context.Context, in *rds.CreateIntegrationInput, _ ...func(*rds.Options)) (*rds.CreateIntegrationOutput, error) {
	m.calls["CreateIntegration"]++
	if err := m.failOnce["CreateIntegration"]; err != nil {
		delete(m.failOnce, "CreateIntegration")
		return nil, err
	}
	if err := m.errs["CreateIntegration"]; err != nil {
		return nil, err
	}
	m.exists = true
	m.integ = types.Integration{
		IntegrationName: in.IntegrationName,
		IntegrationArn:  aws.String(testIntegrationARN),
		SourceArn:       in.SourceArn,
		TargetArn:       in.TargetArn,
		Status:          types.IntegrationStatusCreating,
		Tags:            in.Tags,
	}
	return &rds.CreateIntegrationOutput{
		IntegrationName: in.IntegrationName,
		IntegrationArn:  aws.String(testIntegrationARN),
		SourceArn:       in.SourceArn,
		TargetArn:       in.TargetArn,
		Status:          types.IntegrationStatusCreating,
	}, nil
}

func (m *mockRDS) DeleteIntegration(_ context.Context, _ *rds.DeleteIntegrationInput, _ ...func(*rds.Options)) (*rds.DeleteIntegrationOutput, error) {
	m.calls["DeleteIntegration"]++
	if err := m.failOnce["DeleteIntegration"]; err != nil {
		delete(m.failOnce, "DeleteIntegration")
		return nil, err
	}
	if err := m.errs["DeleteIntegration"]; err != nil {
		return nil, err
	}
	if !m.exists {
		return nil, &types.IntegrationNotFoundFault{Message: aws.String("integration not found")}
	}
	m.integ.Status = types.IntegrationStatusDeleting
	return &rds.DeleteIntegrationOutput{}, nil
}

func (m *mockRDS) ModifyIntegration(_ context.Context, in *rds.ModifyIntegrationInput, _ ...func(*rds.Options)) (*rds.ModifyIntegrationOutput, error) {
	m.calls["ModifyIntegration"]++
	if err := m.failOnce["ModifyIntegration"]; err != nil {
		delete(m.failOnce, "ModifyIntegration")
		return nil, err
	}
	if err := m.errs["ModifyIntegration"]; err != nil {
		return nil, err
	}
	if in.IntegrationName != nil {
		m.integ.IntegrationName = in.IntegrationName
	}
	if in.Description != nil {
		m.integ.Description = in.Description
	}
	if in.DataFilter != nil {
		m.integ.DataFilter = in.DataFilter
	}
	m.integ.Status = types.IntegrationStatusModifying
	return &rds.ModifyIntegrationOutput{}, nil
}

func (m *mockRDS) DescribeIntegrations(_ context.Context, in *rds.DescribeIntegrationsInput, _ ...func(*rds.Options)) (*rds.DescribeIntegrationsOutput, error) {
	m.calls["DescribeIntegrations"]++
	if err := m.errs["DescribeIntegrations"]; err != nil {
		return nil, err
	}
	out := &rds.DescribeIntegrationsOutput{}
	if m.pageMarker != "" {
		out.Marker = aws.String(m.pageMarker)
	}
	if !m.exists {
		if in.IntegrationIdentifier != nil {
			return nil, &types.IntegrationNotFoundFault{Message: aws.String("integration not found")}
		}
		return out, nil
	}
	if in.IntegrationIdentifier != nil && aws.ToString(in.IntegrationIdentifier) != aws.ToString(m.integ.IntegrationArn) {
		return nil, &types.IntegrationNotFoundFault{Message: aws.String("integration not found")}
	}
	out.Integrations = []types.Integration{m.integ}
	return out, nil
}

func (m *mockRDS) AddTagsToResource(_ context.Context, in *rds.AddTagsToResourceInput, _ ...func(*rds.Options)) (*rds.AddTagsToResourceOutput, error) {
	m.calls["AddTagsToResource"]++
	if err := m.errs["AddTagsToResource"]; err != nil {
		return nil, err
	}
	m.addedTags = append(m.addedTags, in.Tags)
	m.integ.Tags = append(m.integ.Tags, in.Tags...)
	return &rds.AddTagsToResourceOutput{}, nil
}

func (m *mockRDS) RemoveTagsFromResource(_ context.Context, in *rds.RemoveTagsFromResourceInput, _ ...func(*rds.Options)) (*rds.RemoveTagsFromResourceOutput, error) {
	m.calls["RemoveTagsFromResource"]++
	if err := m.errs["RemoveTagsFromResource"]; err != nil {
		return nil, err
	}
	m.removedKeys = append(m.removedKeys, in.TagKeys)
	return &rds.RemoveTagsFromResourceOutput{}, nil
}

func (m *mockRDS) ListTagsForResource(_ context.Context, _ *rds.ListTagsForResourceInput, _ ...func(*rds.Options)) (*rds.ListTagsForResourceOutput, error) {
	m.calls["ListTagsForResource"]++
	if err := m.errs["ListTagsForResource"]; err != nil {
		return nil, err
	}
	return &rds.ListTagsForResourceOutput{TagList: m.integ.Tags}, nil
}

// newTestHandler builds a Handler over the mock with a fake clock, so
// stabilization deadlines only move when a test advances them.
func newTestHandler(m *mockRDS) (*Handler, *clockwork.FakeClock) {
	fc := clockwork.NewFakeClock()
	h := NewHandler(m, WithClock(fc), WithLogger(zerolog.Nop()))
	return h, fc
}

// desiredModel returns a fresh desired state for each invocation, the way
// the framework delivers one.
func desiredModel() *ResourceModel {
	return &ResourceModel{
		IntegrationName: testIntegrationName,
		SourceArn:       testSourceARN,
		TargetArn:       testTargetARN,
	}
}

func newRequest(desired *ResourceModel) Request {
	return Request{
		LogicalResourceID:  "OrdersIntegration",
		StackID:            "arn:aws:cloudformation:us-east-1:123456789012:stack/orders/abc-123",
		ClientRequestToken: "0f2c2f7b-9a2e-4a7e-9f57-1c07e7a1f8a4",
		DesiredState:       desired,
	}
}

// Progress-event expectations, matching the framework's wire contract.

func expectInProgress(t *testing.T, ev Event, delay int64, code cfn.HandlerErrorCode) {
	t.Helper()
	require.Equal(t, cfn.StatusInProgress, ev.Status)
	assert.Equal(t, delay, ev.CallbackDelaySeconds)
	assert.Equal(t, code, ev.ErrorCode)
	assert.Empty(t, ev.Message)
	assert.Nil(t, ev.ResourceModels)
}

func expectSuccess(t *testing.T, ev Event) {
	t.Helper()
	require.Equal(t, cfn.StatusSuccess, ev.Status, "message: %s", ev.Message)
	assert.Zero(t, ev.CallbackDelaySeconds)
	assert.Empty(t, ev.Message)
	assert.Equal(t, cfn.ErrCodeNone, ev.ErrorCode)
}

func expectFailed(t *testing.T, ev Event, code cfn.HandlerErrorCode) {
	t.Helper()
	require.Equal(t, cfn.StatusFailed, ev.Status)
	assert.Zero(t, ev.CallbackDelaySeconds)
	assert.NotEmpty(t, ev.Message)
	assert.Equal(t, code, ev.ErrorCode)
	assert.Nil(t, ev.ResourceModels)
}
