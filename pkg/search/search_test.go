package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/grudgebook/internal/store"
)

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"boss", "coffee"}, Terms("The BOSS and my coffee the"))
	assert.Equal(t, []string{"the"}, Terms("the The"))
	assert.Empty(t, Terms("   "))
}

func TestMatcherFilter(t *testing.T) {
	records := []store.Record{
		{ID: 3, Text: "Boss ate my lunch again"},
		{ID: 2, Text: "boss was late"},
		{ID: 1, Text: "lunch was cold"},
		{ID: 0, Text: ""},
	}

	m, err := NewMatcher("boss lunch")
	require.NoError(t, err)

	hits := m.Filter(records)
	require.Len(t, hits, 1)
	assert.EqualValues(t, 3, hits[0].Record.ID)
	require.Len(t, hits[0].Spans, 2)
	assert.Equal(t, Span{Start: 0, End: 4, Term: "boss"}, hits[0].Spans[0])
	assert.Equal(t, "lunch", hits[0].Spans[1].Term)
	assert.Equal(t, "lunch", records[0].Text[hits[0].Spans[1].Start:hits[0].Spans[1].End])
}

func TestMatcherCJK(t *testing.T) {
	m, err := NewMatcher("奶茶")
	require.NoError(t, err)

	hits := m.Filter([]store.Record{
		{ID: 1, Text: "他偷喝了我的奶茶"},
		{ID: 2, Text: "今天下雨"},
	})
	require.Len(t, hits, 1)
	assert.EqualValues(t, 1, hits[0].Record.ID)
}

func TestEmptyQueryMatchesNothing(t *testing.T) {
	m, err := NewMatcher("")
	require.NoError(t, err)
	assert.Nil(t, m.Filter([]store.Record{{ID: 1, Text: "anything"}}))
	assert.Nil(t, m.Match("anything"))
}
