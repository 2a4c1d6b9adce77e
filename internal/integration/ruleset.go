package integration

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
	"github.com/rdsops/cfn-rds-integration/internal/errorrule"
)

// callbackDelaySeconds is the delay requested between chained invocations
// and on retryable classifications.
const callbackDelaySeconds = 6

// retriableConflictMessage identifies the transient flavor of
// IntegrationConflictOperationFault: the backing Redshift warehouse is busy
// with another operation, which always clears up on its own. The same fault
// type with any other message is not known to be safe to retry.
const retriableConflictMessage = "because another operation is in progress for the " +
	"Amazon Redshift data warehouse specified by the Amazon Resource Name (ARN). " +
	"Try again after the current operation completes."

// retriableStateMessage is the equivalent transient marker for
// InvalidIntegrationStateFault.
const retriableStateMessage = "because it is not in a valid state. " +
	"Wait until the integration is in a valid state and try again."

// retryIfMessageContains retries when the caught error's message carries the
// known transient marker, and otherwise fails as a resource conflict. The
// remote API exposes no structured sub-code, so the message substring is the
// only way to tell the two apart.
func retryIfMessageContains(marker string) errorrule.Resolver {
	return func(err error) errorrule.Status {
		if strings.Contains(err.Error(), marker) {
			return errorrule.Retry(callbackDelaySeconds)
		}
		return errorrule.FailWith(cfn.ErrCodeResourceConflict)
	}
}

// errorRules extends the shared defaults with the integration fault types.
// These rules are consulted before the base set.
var errorRules = errorrule.Base().Extend(
	errorrule.OnClass[*types.IntegrationAlreadyExistsFault](
		errorrule.Static(errorrule.FailWith(cfn.ErrCodeAlreadyExists))),
	errorrule.OnClass[*types.IntegrationNotFoundFault](
		errorrule.Static(errorrule.FailWith(cfn.ErrCodeNotFound))),
	errorrule.OnClass[*types.IntegrationConflictOperationFault](
		retryIfMessageContains(retriableConflictMessage)),
	errorrule.OnClass[*types.InvalidIntegrationStateFault](
		retryIfMessageContains(retriableStateMessage)),
	errorrule.OnClass[*types.IntegrationQuotaExceededFault](
		errorrule.Static(errorrule.FailWith(cfn.ErrCodeServiceLimitExceeded))),
	errorrule.OnClass[*types.KMSKeyNotAccessibleFault](
		errorrule.Static(errorrule.FailWith(cfn.ErrCodeAccessDenied))),
)
