package richtext

import (
	"testing"

	"github.com/bestbytes/blog-mcp/service/vo"
	"github.com/stretchr/testify/require"
)

func TestNewInlineIndexEmpty(t *testing.T) {
	index := NewInlineIndex(nil)
	require.NotNil(t, index)
	require.Equal(t, 0, index.Len())

	_, ok := index.Get("anything")
	require.False(t, ok)
}

func TestNewInlineIndexLookup(t *testing.T) {
	index := NewInlineIndex([]vo.InlineEntry{
		{Sys: vo.Sys{ID: "A"}, MergetagID: "level", Fallback: "beginner"},
		{Sys: vo.Sys{ID: "B"}},
	})
	require.Equal(t, 2, index.Len())

	entry, ok := index.Get("A")
	require.True(t, ok)
	require.Equal(t, "level", entry.MergetagID)
	require.Equal(t, "beginner", entry.Fallback)

	_, ok = index.Get("C")
	require.False(t, ok)
}

func TestNewInlineIndexDuplicateLastWins(t *testing.T) {
	index := NewInlineIndex([]vo.InlineEntry{
		{Sys: vo.Sys{ID: "A"}, MergetagID: "first"},
		{Sys: vo.Sys{ID: "A"}, MergetagID: "second"},
	})
	require.Equal(t, 1, index.Len())

	entry, ok := index.Get("A")
	require.True(t, ok)
	require.Equal(t, "second", entry.MergetagID)
}
