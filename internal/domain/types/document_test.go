package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionTerms_SortedAndDeduped(t *testing.T) {
	got := UnionTerms([]string{"rust", "golang"}, []string{"golang", "cli"})
	assert.Equal(t, []string{"cli", "golang", "rust"}, got)
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	d := Document{Keywords: []string{"a"}, Tags: []string{"t"}}
	c := d.Clone()
	c.Keywords[0] = "changed"
	c.Tags[0] = "changed"
	assert.Equal(t, "a", d.Keywords[0])
	assert.Equal(t, "t", d.Tags[0])
}

func TestListFilter_Matches(t *testing.T) {
	d := Document{Category: "research", Tags: []string{"ml"}}

	assert.True(t, ListFilter{}.Matches(d))
	assert.True(t, ListFilter{Category: "research", Tag: "ml"}.Matches(d))
	assert.False(t, ListFilter{Category: "journal"}.Matches(d))
	assert.False(t, ListFilter{Tag: "go"}.Matches(d))
}
