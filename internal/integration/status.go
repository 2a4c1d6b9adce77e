package integration

import "github.com/aws/aws-sdk-go-v2/service/rds/types"

// isStabilizedStatus reports whether the integration has reached its
// settled state.
func isStabilizedStatus(s types.IntegrationStatus) bool {
	return s == types.IntegrationStatusActive
}

// validCreatingStatuses are the states an integration may pass through
// while creation or modification is still able to complete. Modifying is
// included because the update path reuses the same poller.
var validCreatingStatuses = map[types.IntegrationStatus]struct{}{
	types.IntegrationStatusCreating:  {},
	types.IntegrationStatusSyncing:   {},
	types.IntegrationStatusModifying: {},
	types.IntegrationStatusActive:    {},
}

// isValidCreatingStatus reports whether creation can still complete from
// status. Failed, deleting and needs-attention integrations never reach
// active on their own.
func isValidCreatingStatus(s types.IntegrationStatus) bool {
	_, ok := validCreatingStatuses[s]
	return ok
}
