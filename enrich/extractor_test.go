package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/docproc/ai/mock"
	"github.com/poiesic/docproc/chunk"
	"github.com/poiesic/docproc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNodes() []chunk.Node {
	return []chunk.Node{
		{ID: "n0", Text: "The first chunk talks about storage engines."},
		{ID: "n1", Text: "The second chunk talks about query planning."},
	}
}

func TestEnrichNodesFullPipeline(t *testing.T) {
	completer := mock.NewMockCompleter(
		`"Database Internals"`,        // title, once
		"Keywords: storage, engines",  // node 0 keywords
		"1. What is a storage engine?", // node 0 questions
		"query, planning",             // node 1 keywords
		"What does a planner do?",     // node 1 questions
	)

	nodes := NewExtractor(completer).EnrichNodes(context.Background(), testNodes(), chunk.EnrichOptions{
		NumKeywords:  5,
		NumQuestions: 3,
	})
	require.Len(t, nodes, 2)
	assert.Equal(t, 5, completer.CallCount())

	// Title computed once, copied to every node.
	for _, n := range nodes {
		assert.Equal(t, "Database Internals", n.Metadata[core.MetaDocumentTitle])
	}
	assert.Equal(t, []string{"storage", "engines"}, nodes[0].Metadata[core.MetaKeywords])
	assert.Equal(t, []string{"What is a storage engine?"}, nodes[0].Metadata[core.MetaQuestions])
	assert.Equal(t, []string{"query", "planning"}, nodes[1].Metadata[core.MetaKeywords])
	assert.Equal(t, []string{"What does a planner do?"}, nodes[1].Metadata[core.MetaQuestions])
}

func TestEnrichNodesFieldIsolation(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "keywords"):
			return "", errors.New("model overloaded")
		case strings.Contains(prompt, "questions"):
			return "What is isolated?", nil
		default:
			return "Resilience Patterns", nil
		}
	}

	nodes := NewExtractor(completer).EnrichNodes(context.Background(), testNodes(), chunk.EnrichOptions{})
	require.Len(t, nodes, 2)

	for _, n := range nodes {
		assert.Equal(t, "Resilience Patterns", n.Metadata[core.MetaDocumentTitle])
		assert.NotContains(t, n.Metadata, core.MetaKeywords)
		assert.Equal(t, []string{"What is isolated?"}, n.Metadata[core.MetaQuestions])
	}
}

func TestEnrichNodesEndpointUnreachable(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(_ context.Context, _ string) (string, error) {
		return "", errors.New("connection refused")
	}

	nodes := NewExtractor(completer).EnrichNodes(context.Background(), testNodes(), chunk.EnrichOptions{})
	require.Len(t, nodes, 2)

	for _, n := range nodes {
		assert.NotContains(t, n.Metadata, core.MetaDocumentTitle)
		assert.NotContains(t, n.Metadata, core.MetaKeywords)
		assert.NotContains(t, n.Metadata, core.MetaQuestions)
	}
	// The batch is abandoned early instead of hammering a dead endpoint.
	assert.Less(t, completer.CallCount(), 5)
}

func TestEnrichNodesJSONWrappedQuestions(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "questions") {
			return `{"generated_questions": ["Q1?", "Q2?"]}`, nil
		}
		return "anything", nil
	}

	nodes := NewExtractor(completer).EnrichNodes(context.Background(), testNodes()[:1], chunk.EnrichOptions{NumQuestions: 2})
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"Q1?", "Q2?"}, nodes[0].Metadata[core.MetaQuestions])
}

func TestEnrichNodesEmptyBatch(t *testing.T) {
	completer := mock.NewMockCompleter()
	nodes := NewExtractor(completer).EnrichNodes(context.Background(), nil, chunk.EnrichOptions{})
	assert.Empty(t, nodes)
	assert.Equal(t, 0, completer.CallCount())
}
