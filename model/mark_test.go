package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/scribelab/richedit/model"
)

func TestMarkSameSet(t *testing.T) {
	// returns true for two empty sets
	assert.True(t, SameMarkSet([]*Mark{}, []*Mark{}))

	// returns true for simple identical sets
	assert.True(t, SameMarkSet([]*Mark{strong2, em2}, []*Mark{strong2, em2}))

	// returns false for different sets
	assert.False(t, SameMarkSet([]*Mark{strong2, em2}, []*Mark{strong2, u2}))

	// returns false when set size differs
	assert.False(t, SameMarkSet([]*Mark{strong2, em2}, []*Mark{strong2, em2, u2}))

	// recognizes identical links in set
	assert.True(t, SameMarkSet(
		[]*Mark{link("http://foo"), strong2},
		[]*Mark{link("http://foo"), strong2}))

	// recognizes different links in set
	assert.False(t, SameMarkSet(
		[]*Mark{link("http://foo"), strong2},
		[]*Mark{link("http://bar"), strong2}))
}

func TestMarkEq(t *testing.T) {
	// considers identical links to be the same
	assert.True(t, link("http://foo").Eq(link("http://foo")))

	// considers different links to differ
	assert.False(t, link("http://foo").Eq(link("http://bar")))

	// considers marks of different types to differ
	assert.False(t, strong2.Eq(em2))
}

func TestMarkAddToSet(t *testing.T) {
	// can add to the empty set
	assert.True(t, SameMarkSet(
		em2.AddToSet([]*Mark{}),
		[]*Mark{em2},
	))

	// is a no-op when the added thing is in set
	assert.True(t, SameMarkSet(
		em2.AddToSet([]*Mark{em2}),
		[]*Mark{em2},
	))

	// adds marks with lower rank before others
	assert.True(t, SameMarkSet(
		strong2.AddToSet([]*Mark{em2}),
		[]*Mark{strong2, em2},
	))

	// adds marks with higher rank after others
	assert.True(t, SameMarkSet(
		em2.AddToSet([]*Mark{strong2}),
		[]*Mark{strong2, em2},
	))

	// replaces a link with different attributes
	assert.True(t, SameMarkSet(
		link("http://bar").AddToSet([]*Mark{link("http://foo"), strong2}),
		[]*Mark{link("http://bar"), strong2},
	))

	// does nothing when adding an existing link
	assert.True(t, SameMarkSet(
		link("http://foo").AddToSet([]*Mark{link("http://foo"), strong2}),
		[]*Mark{link("http://foo"), strong2},
	))

	// puts strike marks at the end
	assert.True(t, SameMarkSet(
		strike2.AddToSet([]*Mark{strong2, em2, u2}),
		[]*Mark{strong2, em2, u2, strike2},
	))

	// puts marks with middle rank in the middle
	assert.True(t, SameMarkSet(
		em2.AddToSet([]*Mark{strong2, u2}),
		[]*Mark{strong2, em2, u2},
	))
}

func TestMarkAddToSetCombinesStyles(t *testing.T) {
	// merges the style maps of two spans instead of stacking them
	merged := styled("color: red").AddToSet([]*Mark{styled("font-size: 12px")})
	if assert.Len(t, merged, 1) {
		assert.Equal(t, "color:red; font-size:12px", merged[0].Attrs["style"])
	}

	// the style being added wins on conflicting properties
	merged = styled("color: red").AddToSet([]*Mark{styled("color: blue; font-size: 12px")})
	if assert.Len(t, merged, 1) {
		assert.Equal(t, "color:red; font-size:12px", merged[0].Attrs["style"])
	}

	// keeps other marks around the merged span
	merged = styled("color: red").AddToSet([]*Mark{styled("color: blue"), strong2})
	if assert.Len(t, merged, 2) {
		assert.Equal(t, "color:red", merged[0].Attrs["style"])
		assert.True(t, merged[1].Eq(strong2))
	}
}

func TestMarkRemoveFromSet(t *testing.T) {
	// removes the mark when present
	assert.True(t, SameMarkSet(
		em2.RemoveFromSet([]*Mark{strong2, em2}),
		[]*Mark{strong2},
	))

	// returns the set unchanged when absent
	set := []*Mark{strong2, u2}
	assert.Equal(t, set, em2.RemoveFromSet(set))

	// only removes an exact attribute match
	assert.True(t, SameMarkSet(
		link("http://bar").RemoveFromSet([]*Mark{link("http://foo")}),
		[]*Mark{link("http://foo")},
	))
}

func TestMarkIsInSet(t *testing.T) {
	assert.True(t, em2.IsInSet([]*Mark{strong2, em2}))
	assert.False(t, em2.IsInSet([]*Mark{strong2}))

	// attribute differences matter
	assert.False(t, link("http://bar").IsInSet([]*Mark{link("http://foo")}))
}
