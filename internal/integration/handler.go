// Package integration implements the CloudFormation resource handlers for
// AWS::RDS::Integration. Each operation is a chain of idempotent steps over
// a progress event; the invoking framework re-drives the handler with the
// returned callback context until it reaches a terminal state.
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/handler"
	"github.com/rdsops/cfn-rds-integration/internal/logging"
	"github.com/rdsops/cfn-rds-integration/internal/stabilize"
)

// Event is the progress event type for this resource.
type Event = cfn.ProgressEvent[*ResourceModel, *CallbackContext]

// Config tunes handler pacing. Tests shrink the timeouts; production uses
// DefaultConfig.
type Config struct {
	// CallbackDelaySeconds is the delay requested after a step that starts
	// an asynchronous remote operation.
	CallbackDelaySeconds int64
	// CreateUpdateStabilization paces create and update polling. A large
	// backing-store resync can take hours, hence the long ceiling.
	CreateUpdateStabilization stabilize.Constant
	// DeleteStabilization paces delete polling; deletes settle quickly.
	DeleteStabilization stabilize.Constant
}

// DefaultConfig returns the production pacing profile.
func DefaultConfig() Config {
	return Config{
		CallbackDelaySeconds: callbackDelaySeconds,
		CreateUpdateStabilization: stabilize.Constant{
			Delay:   30 * time.Second,
			Timeout: 8 * time.Hour,
		},
		DeleteStabilization: stabilize.Constant{
			Delay:   30 * time.Second,
			Timeout: 30 * time.Minute,
		},
	}
}

// Handler reconciles the declared integration state against the RDS
// control plane. It holds no per-reconciliation state of its own; all
// resumable progress lives in the CallbackContext.
type Handler struct {
	client RDSAPI
	cfg    Config
	clock  clockwork.Clock
	log    zerolog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithConfig overrides the pacing profile.
func WithConfig(cfg Config) Option {
	return func(h *Handler) { h.cfg = cfg }
}

// WithClock substitutes the wall clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(h *Handler) { h.clock = clock }
}

// WithLogger overrides the base logger.
func WithLogger(log zerolog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// NewHandler builds a Handler over the given RDS client.
func NewHandler(client RDSAPI, opts ...Option) *Handler {
	h := &Handler{
		client: client,
		cfg:    DefaultConfig(),
		clock:  clockwork.NewRealClock(),
		log:    logging.WithComponent("integration"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle dispatches one invocation to the operation's step chain and
// returns the resulting progress event. A nil callback context starts a
// fresh reconciliation.
func (h *Handler) Handle(ctx context.Context, op Operation, req Request, cb *CallbackContext) Event {
	if cb == nil {
		cb = &CallbackContext{}
	}
	log := h.log.With().
		Str("operation", string(op)).
		Str("stack_id", req.StackID).
		Str("request_token", req.ClientRequestToken).
		Logger()

	if op != OperationList && req.DesiredState == nil {
		var zero Event
		return zero.Fail(cfn.ErrCodeInvalidRequest, "desired resource state is required")
	}

	switch op {
	case OperationCreate:
		return h.create(ctx, req, cb, log)
	case OperationRead:
		return h.read(ctx, req, cb, log)
	case OperationUpdate:
		return h.update(ctx, req, cb, log)
	case OperationDelete:
		return h.delete(ctx, req, cb, log)
	case OperationList:
		return h.list(ctx, req, cb, log)
	default:
		var zero Event
		return zero.Fail(cfn.ErrCodeInvalidRequest, fmt.Sprintf("unsupported operation %q", op))
	}
}

// findIntegration looks up the integration by ARN when the model has one,
// and otherwise by scanning pages for a matching name. The boolean result
// distinguishes not-found from a lookup failure.
func (h *Handler) findIntegration(ctx context.Context, m *ResourceModel) (types.Integration, bool, error) {
	if m.IntegrationArn != "" {
		out, err := h.client.DescribeIntegrations(ctx, describeIntegrationInput(m.IntegrationArn))
		if err != nil {
			var notFound *types.IntegrationNotFoundFault
			if errors.As(err, &notFound) {
				return types.Integration{}, false, nil
			}
			return types.Integration{}, false, err
		}
		if len(out.Integrations) == 0 {
			return types.Integration{}, false, nil
		}
		return out.Integrations[0], true, nil
	}

	marker := ""
	for {
		out, err := h.client.DescribeIntegrations(ctx, describeIntegrationsPageInput(marker))
		if err != nil {
			return types.Integration{}, false, err
		}
		for _, integ := range out.Integrations {
			if aws.ToString(integ.IntegrationName) == m.IntegrationName {
				return integ, true, nil
			}
		}
		marker = aws.ToString(out.Marker)
		if marker == "" {
			return types.Integration{}, false, nil
		}
	}
}

// fetchArn populates the callback context's cached ARN from remote state.
// Used by steps that need the ARN before the create path has cached it.
func (h *Handler) fetchArn(ctx context.Context, p Event, log zerolog.Logger) Event {
	integ, found, err := h.findIntegration(ctx, p.ResourceModel)
	if err != nil {
		return handler.HandleError(p, err, errorRules, log)
	}
	if !found {
		return p.Fail(cfn.ErrCodeNotFound,
			fmt.Sprintf("integration %s not found", p.ResourceModel.identifier()))
	}
	p.CallbackContext.IntegrationArn = aws.ToString(integ.IntegrationArn)
	p.ResourceModel.IntegrationArn = p.CallbackContext.IntegrationArn
	return p
}

// stabilize polls remote status until the integration settles, suspending
// between polls per the policy. A state that cannot complete creation, or
// an elapsed time past the policy ceiling, fails with NotStabilized.
func (h *Handler) stabilize(ctx context.Context, p Event, policy stabilize.Constant, log zerolog.Logger) Event {
	cb := p.CallbackContext
	now := h.clock.Now()
	if cb.StabilizationStart == nil {
		start := now
		cb.StabilizationStart = &start
	} else if policy.Expired(*cb.StabilizationStart, now) {
		return p.Fail(cfn.ErrCodeNotStabilized,
			fmt.Sprintf("integration %s did not stabilize within %s",
				p.ResourceModel.identifier(), policy.Timeout))
	}

	integ, found, err := h.findIntegration(ctx, p.ResourceModel)
	if err != nil {
		return handler.HandleError(p, err, errorRules, log)
	}
	if !found {
		return p.Fail(cfn.ErrCodeNotFound,
			fmt.Sprintf("integration %s disappeared while stabilizing", p.ResourceModel.identifier()))
	}

	status := integ.Status
	if !isValidCreatingStatus(status) {
		return p.Fail(cfn.ErrCodeNotStabilized,
			fmt.Sprintf("integration %s is in state %s and cannot complete creation",
				p.ResourceModel.identifier(), status))
	}
	if !isStabilizedStatus(status) {
		log.Info().Str("status", string(status)).Msg("integration still stabilizing")
		return cfn.Suspend(policy.DelaySeconds(), p.ResourceModel, cb)
	}

	applyIntegration(p.ResourceModel, integ)
	return p
}
