// Package tagging reconciles desired against previous resource tag sets.
//
// A TagSet keeps system, stack and resource tags in separate strata so the
// handlers can exclude or re-apply a stratum on its own, but diffing
// collapses the strata into one flat key space: a tag key means the same
// thing to the remote API regardless of where it originated.
package tagging

import (
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// TagSet stratifies tags by origin: service-owned system tags (aws:*),
// stack-level tags, and tags declared on the resource itself.
type TagSet struct {
	System   map[string]string
	Stack    map[string]string
	Resource map[string]string
}

// IsEmpty reports whether the set carries no tags at all.
func (s TagSet) IsEmpty() bool {
	return len(s.System) == 0 && len(s.Stack) == 0 && len(s.Resource) == 0
}

// Flatten collapses the strata into one map. Resource tags override stack
// tags, which override system tags, when keys collide.
func (s TagSet) Flatten() map[string]string {
	flat := make(map[string]string, len(s.System)+len(s.Stack)+len(s.Resource))
	for k, v := range s.System {
		flat[k] = v
	}
	for k, v := range s.Stack {
		flat[k] = v
	}
	for k, v := range s.Resource {
		flat[k] = v
	}
	return flat
}

// Exclude returns the key/value pairs of from whose keys do not appear in
// other.
func Exclude(from, other map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range from {
		if _, ok := other[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// ExcludeSet applies Exclude stratum by stratum, preserving provenance.
func ExcludeSet(from, other TagSet) TagSet {
	return TagSet{
		System:   Exclude(from.System, other.System),
		Stack:    Exclude(from.Stack, other.Stack),
		Resource: Exclude(from.Resource, other.Resource),
	}
}

// Diff computes the tag operations needed to turn previous into desired.
// removeKeys holds keys present before but no longer desired; add holds
// desired pairs that are new or whose value changed. A tag whose value
// changed is re-added but not removed, so its key is never absent from the
// resource during the update.
func Diff(previous, desired TagSet) (removeKeys []string, add map[string]string) {
	prev := previous.Flatten()
	want := desired.Flatten()

	for k := range prev {
		if _, ok := want[k]; !ok {
			removeKeys = append(removeKeys, k)
		}
	}
	sort.Strings(removeKeys)

	add = make(map[string]string)
	for k, v := range want {
		if old, ok := prev[k]; !ok || old != v {
			add[k] = v
		}
	}
	return removeKeys, add
}

// ToSDK converts a flat tag map into RDS SDK tags, sorted by key so request
// payloads are deterministic.
func ToSDK(tags map[string]string) []types.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{
			Key:   aws.String(k),
			Value: aws.String(tags[k]),
		})
	}
	return out
}

// FromSDK converts RDS SDK tags into a flat map. Tags without a key are
// dropped.
func FromSDK(tags []types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key == nil {
			continue
		}
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}
