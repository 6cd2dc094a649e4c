package chunk

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchicalLevelSizes(t *testing.T) {
	tests := []struct {
		size                 int
		large, medium, small int
	}{
		{size: 400, large: 400, medium: 200, small: 100},
		{size: 1000, large: 1000, medium: 500, small: 250},
		{size: 300, large: 300, medium: 200, small: 100},
		{size: 100, large: 100, medium: 200, small: 100},
	}

	for _, tt := range tests {
		h := NewHierarchicalSplitter(tt.size, 0)
		large, medium, small := h.LevelSizes()
		assert.Equal(t, tt.large, large, "size=%d", tt.size)
		assert.Equal(t, tt.medium, medium, "size=%d", tt.size)
		assert.Equal(t, tt.small, small, "size=%d", tt.size)
	}
}

func TestHierarchicalSplitTree(t *testing.T) {
	text := strings.Repeat("This sentence provides filler content for the hierarchy test. ", 20)

	nodes, err := NewHierarchicalSplitter(400, 0).Split(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, nodes)

	byID := make(map[string]Node, len(nodes))
	position := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = n
		position[n.ID] = i
	}

	topLevel := 0
	for _, n := range nodes {
		if n.ParentID == "" {
			topLevel++
			continue
		}
		parent, ok := byID[n.ParentID]
		require.True(t, ok, "parent %s of %s not emitted", n.ParentID, n.ID)
		assert.Less(t, position[parent.ID], position[n.ID], "pre-order: parent precedes child")
		assert.Contains(t, parent.ChildIDs, n.ID)
	}

	assert.Greater(t, topLevel, 0)
	assert.Greater(t, len(nodes), topLevel, "expected child levels below the top")
}

func TestHierarchicalShortTextSingleNode(t *testing.T) {
	// Text that fits one top-level chunk produces no redundant children.
	nodes, err := NewHierarchicalSplitter(4096, 0).Split(context.Background(), "One short sentence.")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Empty(t, nodes[0].ParentID)
	assert.Empty(t, nodes[0].ChildIDs)
}
