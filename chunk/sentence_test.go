package chunk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeParagraphs = "The quick brown fox jumps over the lazy dog. A second sentence follows it closely. The paragraph ends here.\n\n" +
	"A new paragraph begins with fresh ideas. It continues with supporting detail. More words pad the paragraph out.\n\n" +
	"The final paragraph wraps everything up. It restates the main point briefly. The document ends on this sentence."

func TestSentenceSplitterOffsets(t *testing.T) {
	s := NewSentenceSplitter(100, 20)
	nodes, err := s.Split(context.Background(), threeParagraphs)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(nodes), 2)

	for _, n := range nodes {
		require.GreaterOrEqual(t, n.StartChar, 0)
		require.LessOrEqual(t, n.EndChar, len(threeParagraphs))
		assert.Equal(t, threeParagraphs[n.StartChar:n.EndChar], n.Text)
		assert.NotEmpty(t, n.ID)
	}
}

func TestSentenceSplitterDeterministic(t *testing.T) {
	s := NewSentenceSplitter(100, 20)
	first, err := s.Split(context.Background(), threeParagraphs)
	require.NoError(t, err)
	second, err := s.Split(context.Background(), threeParagraphs)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].StartChar, second[i].StartChar)
	}
}

func TestSentenceSplitterOverlapProducesMoreChunks(t *testing.T) {
	ctx := context.Background()
	without, err := NewSentenceSplitter(120, 0).Split(ctx, threeParagraphs)
	require.NoError(t, err)
	with, err := NewSentenceSplitter(120, 60).Split(ctx, threeParagraphs)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(with), len(without))
}

func TestSentenceSplitterEmptyInput(t *testing.T) {
	nodes, err := NewSentenceSplitter(100, 0).Split(context.Background(), "   \n\n  ")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestSentenceSplitterSingleLongSentence(t *testing.T) {
	// One sentence far over budget is still emitted whole.
	long := "This single sentence keeps going well past the configured chunk size budget without any terminal punctuation until the very end."
	nodes, err := NewSentenceSplitter(50, 0).Split(context.Background(), long)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, long, nodes[0].Text)
}

func TestSplitSentenceSpans(t *testing.T) {
	spans := splitSentenceSpans("First one. Second one! Third one?")
	require.Len(t, spans, 3)

	spans = splitSentenceSpans("No terminal punctuation\n\nsecond paragraph")
	require.Len(t, spans, 2)

	// Decimal points do not end sentences.
	spans = splitSentenceSpans("Pi is 3.14 roughly. Next sentence.")
	require.Len(t, spans, 2)
}
