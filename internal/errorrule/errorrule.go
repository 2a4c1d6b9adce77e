// Package errorrule classifies remote API errors into handler outcomes.
//
// A RuleSet is an ordered list of rules plus an optional base set. Rules
// appended by Extend are consulted before the base, so a resource-specific
// set overrides shared defaults; within one set the first matching rule
// wins. Classification is pure and total: any error that matches no rule
// falls back to a terminal InternalFailure.
package errorrule

import (
	"errors"

	"github.com/aws/smithy-go"

	"github.com/rdsops/cfn-rds-integration/internal/cfn"
)

// DefaultRetryDelaySeconds is the callback delay applied to retryable
// classifications that do not specify their own delay.
const DefaultRetryDelaySeconds = 6

// Decision is the kind of outcome a rule produces.
type Decision int

const (
	// DecisionFail terminates the operation with a handler error code.
	DecisionFail Decision = iota
	// DecisionRetry requests re-invocation after a delay.
	DecisionRetry
	// DecisionIgnore treats the error as a soft failure and continues.
	DecisionIgnore
)

// Status is the classified outcome for a single error.
type Status struct {
	Decision     Decision
	Code         cfn.HandlerErrorCode
	DelaySeconds int64
}

// FailWith returns a terminal status with the given error code.
func FailWith(code cfn.HandlerErrorCode) Status {
	return Status{Decision: DecisionFail, Code: code}
}

// Retry returns a retryable status with the given callback delay.
func Retry(delaySeconds int64) Status {
	return Status{Decision: DecisionRetry, DelaySeconds: delaySeconds}
}

// Ignore returns a soft-failure status; the caller proceeds as if the call
// had succeeded.
func Ignore() Status {
	return Status{Decision: DecisionIgnore}
}

// Matcher reports whether a rule applies to an error.
type Matcher func(error) bool

// Resolver produces the status for a matched error. Conditional rules
// inspect the error (typically its message) at classification time.
type Resolver func(error) Status

// Rule pairs a matcher with a resolver.
type Rule struct {
	Matches Matcher
	Resolve Resolver
}

// Static wraps a fixed status as a resolver.
func Static(s Status) Resolver {
	return func(error) Status { return s }
}

// OnClass matches errors of the concrete fault type T (via errors.As) and
// resolves them with r. T is instantiated with a pointer fault type, e.g.
// OnClass[*types.IntegrationNotFoundFault](...).
func OnClass[T error](r Resolver) Rule {
	return Rule{
		Matches: func(err error) bool {
			var target T
			return errors.As(err, &target)
		},
		Resolve: r,
	}
}

// OnCode matches smithy API errors by error code and resolves them with r.
func OnCode(r Resolver, codes ...string) Rule {
	return Rule{
		Matches: func(err error) bool {
			var ae smithy.APIError
			if !errors.As(err, &ae) {
				return false
			}
			for _, code := range codes {
				if ae.ErrorCode() == code {
					return true
				}
			}
			return false
		},
		Resolve: r,
	}
}

// RuleSet is an ordered rule list with an optional base consulted after the
// set's own rules.
type RuleSet struct {
	base  *RuleSet
	rules []Rule
}

// New builds a RuleSet with no base.
func New(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Extend returns a new RuleSet whose rules are consulted before s.
func (s *RuleSet) Extend(rules ...Rule) *RuleSet {
	return &RuleSet{base: s, rules: rules}
}

// Classify maps err to a Status. It never returns an unresolved outcome: a
// nil or unmatched error classifies as a terminal InternalFailure.
func (s *RuleSet) Classify(err error) Status {
	if err == nil {
		return FailWith(cfn.ErrCodeInternalFailure)
	}
	for cur := s; cur != nil; cur = cur.base {
		for _, rule := range cur.rules {
			if rule.Matches(err) {
				return rule.Resolve(err)
			}
		}
	}
	return FailWith(cfn.ErrCodeInternalFailure)
}

// Throttling, access-denied and validation error codes shared across RDS
// sub-resources. Matching by code rather than fault type covers the generic
// service errors the SDK does not model as typed faults.
var (
	throttlingCodes = []string{
		"Throttling",
		"ThrottlingException",
		"ThrottledException",
		"RequestThrottled",
		"RequestThrottledException",
		"RequestLimitExceeded",
	}
	accessDeniedCodes = []string{
		"AccessDenied",
		"AccessDeniedException",
		"NotAuthorized",
		"UnauthorizedOperation",
	}
	invalidRequestCodes = []string{
		"InvalidParameterValue",
		"InvalidParameterCombination",
		"MissingParameter",
		"ValidationError",
		"ValidationException",
	}
)

var base = New(
	OnCode(Static(Retry(DefaultRetryDelaySeconds)), throttlingCodes...),
	OnCode(Static(FailWith(cfn.ErrCodeAccessDenied)), accessDeniedCodes...),
	OnCode(Static(FailWith(cfn.ErrCodeInvalidRequest)), invalidRequestCodes...),
)

// Base returns the rule set shared by all resource handlers. Resource
// packages extend it with their typed fault rules.
func Base() *RuleSet {
	return base
}
