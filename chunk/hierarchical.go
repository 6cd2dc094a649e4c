// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import "context"

const (
	mediumSizeFloor = 200
	smallSizeFloor  = 100
)

// HierarchicalSplitter produces a three-level parent/child chunk tree
// over the same text. Level sizes derive from the requested chunk size:
// large = size, medium = size/2 (floor 200), small = size/4 (floor 100).
// The emitted node order is a pre-order walk of the tree, so a parent
// always precedes its children.
type HierarchicalSplitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewHierarchicalSplitter creates a hierarchical splitter.
func NewHierarchicalSplitter(chunkSize, chunkOverlap int) *HierarchicalSplitter {
	return &HierarchicalSplitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// LevelSizes returns the derived (large, medium, small) chunk sizes.
func (h *HierarchicalSplitter) LevelSizes() (int, int, int) {
	medium := h.chunkSize / 2
	if medium < mediumSizeFloor {
		medium = mediumSizeFloor
	}
	small := h.chunkSize / 4
	if small < smallSizeFloor {
		small = smallSizeFloor
	}
	return h.chunkSize, medium, small
}

// hierNode pairs a node with its subtree during construction.
type hierNode struct {
	node     Node
	children []hierNode
}

// Split builds the chunk tree and returns it flattened in pre-order.
func (h *HierarchicalSplitter) Split(ctx context.Context, text string) ([]Node, error) {
	large, medium, small := h.LevelSizes()

	tree, err := h.buildLevel(ctx, text, 0, "", []int{large, medium, small})
	if err != nil {
		return nil, err
	}

	var out []Node
	var walk func(nodes []hierNode)
	walk = func(nodes []hierNode) {
		for i := range nodes {
			out = append(out, nodes[i].node)
			walk(nodes[i].children)
		}
	}
	walk(tree)
	return out, nil
}

// buildLevel splits text at sizes[0] and recurses into each piece with
// the remaining sizes. A level that reproduces its parent verbatim adds
// nothing and is dropped.
func (h *HierarchicalSplitter) buildLevel(ctx context.Context, text string, baseOffset int, parentID string, sizes []int) ([]hierNode, error) {
	if len(sizes) == 0 {
		return nil, nil
	}

	nodes, err := h.splitLevel(ctx, text, baseOffset, sizes[0])
	if err != nil {
		return nil, err
	}
	if parentID != "" && len(nodes) == 1 {
		return nil, nil
	}

	tree := make([]hierNode, len(nodes))
	for i := range nodes {
		nodes[i].ParentID = parentID
		children, err := h.buildLevel(ctx, nodes[i].Text, nodes[i].StartChar, nodes[i].ID, sizes[1:])
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			nodes[i].ChildIDs = append(nodes[i].ChildIDs, c.node.ID)
		}
		tree[i] = hierNode{node: nodes[i], children: children}
	}
	return tree, nil
}

// splitLevel sentence-splits text at one level's size, shifting offsets
// into the original document's coordinate space.
func (h *HierarchicalSplitter) splitLevel(ctx context.Context, text string, baseOffset, size int) ([]Node, error) {
	overlap := h.chunkOverlap
	if overlap >= size {
		// Per-level defensive clamp; request validation bounds overlap
		// against the top-level size only.
		overlap = size / 2
	}

	nodes, err := NewSentenceSplitter(size, overlap).Split(ctx, text)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		if nodes[i].StartChar >= 0 {
			nodes[i].StartChar += baseOffset
			nodes[i].EndChar += baseOffset
		}
	}
	return nodes, nil
}
