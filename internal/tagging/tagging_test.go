package tagging

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFlattenPrecedence(t *testing.T) {
	s := TagSet{
		System:   map[string]string{"aws:cloudformation:stack-name": "orders", "shared": "system"},
		Stack:    map[string]string{"env": "prod", "shared": "stack"},
		Resource: map[string]string{"owner": "data-eng", "shared": "resource"},
	}

	want := map[string]string{
		"aws:cloudformation:stack-name": "orders",
		"env":                           "prod",
		"owner":                         "data-eng",
		"shared":                        "resource",
	}
	if diff := cmp.Diff(want, s.Flatten()); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, TagSet{}.IsEmpty())
	assert.False(t, TagSet{Stack: map[string]string{"env": "prod"}}.IsEmpty())
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name       string
		previous   TagSet
		desired    TagSet
		wantRemove []string
		wantAdd    map[string]string
	}{
		{
			name:       "identical sets need no operations",
			previous:   TagSet{Resource: map[string]string{"env": "prod", "owner": "data-eng"}},
			desired:    TagSet{Resource: map[string]string{"env": "prod", "owner": "data-eng"}},
			wantRemove: nil,
			wantAdd:    map[string]string{},
		},
		{
			name:       "everything desired is added from empty",
			previous:   TagSet{},
			desired:    TagSet{Resource: map[string]string{"env": "prod"}},
			wantRemove: nil,
			wantAdd:    map[string]string{"env": "prod"},
		},
		{
			name:       "everything previous is removed when nothing is desired",
			previous:   TagSet{Resource: map[string]string{"env": "prod", "owner": "data-eng"}},
			desired:    TagSet{},
			wantRemove: []string{"env", "owner"},
			wantAdd:    map[string]string{},
		},
		{
			name:       "changed value is re-added, not removed",
			previous:   TagSet{Resource: map[string]string{"env": "staging"}},
			desired:    TagSet{Resource: map[string]string{"env": "prod"}},
			wantRemove: nil,
			wantAdd:    map[string]string{"env": "prod"},
		},
		{
			name: "mixed add remove and change",
			previous: TagSet{
				Stack:    map[string]string{"env": "staging"},
				Resource: map[string]string{"owner": "data-eng", "tier": "gold"},
			},
			desired: TagSet{
				Stack:    map[string]string{"env": "prod"},
				Resource: map[string]string{"owner": "data-eng", "team": "orders"},
			},
			wantRemove: []string{"tier"},
			wantAdd:    map[string]string{"env": "prod", "team": "orders"},
		},
		{
			name:       "key moving between strata is no change",
			previous:   TagSet{Stack: map[string]string{"env": "prod"}},
			desired:    TagSet{Resource: map[string]string{"env": "prod"}},
			wantRemove: nil,
			wantAdd:    map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removeKeys, add := Diff(tt.previous, tt.desired)
			if diff := cmp.Diff(tt.wantRemove, removeKeys); diff != "" {
				t.Errorf("removeKeys mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantAdd, add); diff != "" {
				t.Errorf("add mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffRemoveKeysSorted(t *testing.T) {
	previous := TagSet{Resource: map[string]string{"zeta": "1", "alpha": "2", "mid": "3"}}
	removeKeys, _ := Diff(previous, TagSet{})
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, removeKeys)
}

func TestExclude(t *testing.T) {
	from := map[string]string{"env": "prod", "owner": "data-eng"}
	other := map[string]string{"env": "anything"}

	got := Exclude(from, other)
	if diff := cmp.Diff(map[string]string{"owner": "data-eng"}, got); diff != "" {
		t.Errorf("Exclude() mismatch (-want +got):\n%s", diff)
	}
}

func TestExcludeSetKeepsStrata(t *testing.T) {
	from := TagSet{
		System:   map[string]string{"aws:stack": "orders"},
		Stack:    map[string]string{"env": "prod"},
		Resource: map[string]string{"owner": "data-eng"},
	}
	other := TagSet{Stack: map[string]string{"env": "anything"}}

	got := ExcludeSet(from, other)
	assert.Equal(t, map[string]string{"aws:stack": "orders"}, got.System)
	assert.Empty(t, got.Stack)
	assert.Equal(t, map[string]string{"owner": "data-eng"}, got.Resource)
}

func TestToSDKSortedByKey(t *testing.T) {
	got := ToSDK(map[string]string{"zeta": "1", "alpha": "2"})

	want := []types.Tag{
		{Key: aws.String("alpha"), Value: aws.String("2")},
		{Key: aws.String("zeta"), Value: aws.String("1")},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(types.Tag{})); diff != "" {
		t.Errorf("ToSDK() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSDKDropsKeylessTags(t *testing.T) {
	got := FromSDK([]types.Tag{
		{Key: aws.String("env"), Value: aws.String("prod")},
		{Value: aws.String("orphan")},
		{Key: aws.String("empty")},
	})

	want := map[string]string{"env": "prod", "empty": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromSDK() mismatch (-want +got):\n%s", diff)
	}
}
