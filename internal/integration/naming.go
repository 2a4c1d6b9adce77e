package integration

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// maxIntegrationNameLength is the RDS limit on integration names.
const maxIntegrationNameLength = 63

// tokenSuffixLength is the number of request-token characters appended to a
// generated name to make it unique per create attempt.
const tokenSuffixLength = 12

// invalidNameChars matches everything outside the RDS integration name
// alphabet; runs of invalid characters collapse to a single hyphen.
var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

// newIntegrationName derives a name for a model that declared none, from the
// stack name, the logical resource id, and a request-token suffix, capped at
// the RDS length limit. With a request token the name is deterministic, so a
// resumed invocation regenerates the identifier it created with; an empty
// token (never sent by the service, but possible from the local invoker)
// falls back to a random suffix.
func newIntegrationName(stackID, logicalID, requestToken string) string {
	if requestToken == "" {
		requestToken = uuid.NewString()
	}
	suffix := sanitizeNameSegment(requestToken)
	if len(suffix) > tokenSuffixLength {
		suffix = suffix[:tokenSuffixLength]
	}

	segments := make([]string, 0, 3)
	if s := sanitizeNameSegment(stackName(stackID)); s != "" {
		segments = append(segments, s)
	}
	if s := sanitizeNameSegment(logicalID); s != "" {
		segments = append(segments, s)
	}
	segments = append(segments, suffix)

	name := strings.Join(segments, "-")
	if len(name) > maxIntegrationNameLength {
		// Keep the unique suffix; trim the descriptive prefix.
		keep := maxIntegrationNameLength - len(suffix) - 1
		name = strings.TrimRight(name[:keep], "-") + "-" + suffix
	}
	return name
}

// stackName extracts the stack name from a stack ARN
// (arn:aws:cloudformation:region:account:stack/name/id); a bare name passes
// through unchanged.
func stackName(stackID string) string {
	if idx := strings.Index(stackID, "/"); idx >= 0 {
		rest := stackID[idx+1:]
		if end := strings.Index(rest, "/"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	return stackID
}

// sanitizeNameSegment lowercases a segment and collapses characters outside
// the name alphabet into hyphens.
func sanitizeNameSegment(s string) string {
	s = invalidNameChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
