package chunk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/docproc/ai/mock"
	"github.com/poiesic/docproc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// topicEmbedder maps any window mentioning cats to one axis and
// everything else to an orthogonal one, forcing a clean breakpoint.
func topicEmbedder() *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			if strings.Contains(text, "Cats") {
				out[i] = []float32{1, 0}
			} else {
				out[i] = []float32{0, 1}
			}
		}
		return out, nil
	}
	return e
}

func TestSemanticSplitterBreakpoint(t *testing.T) {
	text := "Cats purr softly. Cats chase mice. Stocks fell sharply. Markets closed lower."

	s := NewSemanticSplitter(topicEmbedder())
	nodes, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "Markets closed lower.", nodes[1].Text)
	for _, n := range nodes {
		assert.Equal(t, text[n.StartChar:n.EndChar], n.Text)
	}
}

func TestSemanticSplitterSingleSentence(t *testing.T) {
	s := NewSemanticSplitter(mock.NewMockEmbedder())
	nodes, err := s.Split(context.Background(), "Just one sentence here.")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Just one sentence here.", nodes[0].Text)
}

func TestSemanticSplitterEmbeddingFailure(t *testing.T) {
	e := mock.NewMockEmbedder()
	e.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}

	s := NewSemanticSplitter(e)
	_, err := s.Split(context.Background(), "First sentence. Second sentence.")
	require.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestPercentile(t *testing.T) {
	assert.InDelta(t, 0.9, percentile([]float64{0, 0, 1}, 0.95), 1e-9)
	assert.InDelta(t, 5, percentile([]float64{5}, 0.95), 1e-9)
	assert.Equal(t, float64(0), percentile(nil, 0.95))
}

func TestSelectorSemanticRequiresEmbedder(t *testing.T) {
	s := NewSelector(nil)
	_, _, err := s.Select(core.StrategySemantic, 512, 50)
	require.ErrorIs(t, err, ErrEmbedderRequired)

	withEmbedder := NewSelector(mock.NewMockEmbedder())
	sp, used, err := withEmbedder.Select(core.StrategySemantic, 512, 50)
	require.NoError(t, err)
	assert.Equal(t, core.StrategySemantic, used)
	assert.NotNil(t, sp)
}

func TestSelectorUnknownFallsBackToSentence(t *testing.T) {
	s := NewSelector(nil)
	sp, used, err := s.Select(core.ChunkingStrategy("paragraph"), 512, 50)
	require.NoError(t, err)
	assert.Equal(t, core.StrategySentence, used)
	assert.IsType(t, &SentenceSplitter{}, sp)
}
