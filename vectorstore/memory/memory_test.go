package memory

import (
	"context"
	"testing"

	"github.com/poiesic/docproc/core"
	"github.com/poiesic/docproc/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Init(ctx, 3))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Record{
		{ID: "a", Text: "about cats", Vector: []float32{1, 0, 0}, Metadata: map[string]any{core.MetaDocumentID: "doc-1"}},
		{ID: "b", Text: "about dogs", Vector: []float32{0.9, 0.1, 0}, Metadata: map[string]any{core.MetaDocumentID: "doc-1"}},
		{ID: "c", Text: "about bonds", Vector: []float32{0, 0, 1}, Metadata: map[string]any{core.MetaDocumentID: "doc-2"}},
	}))
	return s
}

func TestQueryRanksBySimilarity(t *testing.T) {
	s := seeded(t)
	results, err := s.Query(context.Background(), []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].Record.ID)
	assert.Equal(t, "b", results[1].Record.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestQueryFilter(t *testing.T) {
	s := seeded(t)
	results, err := s.Query(context.Background(), []float32{1, 0, 0}, 10, map[string]any{core.MetaDocumentID: "doc-2"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].Record.ID)
}

func TestUpsertReplaces(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, []vectorstore.Record{
		{ID: "a", Text: "replaced", Vector: []float32{0, 1, 0}, Metadata: map[string]any{core.MetaDocumentID: "doc-1"}},
	}))
	assert.Equal(t, 3, s.Len())

	results, err := s.Query(ctx, []float32{0, 1, 0}, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "replaced", results[0].Record.Text)
}

func TestDeleteByDocument(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Delete(context.Background(), "doc-1"))
	assert.Equal(t, 1, s.Len())
}

func TestDimensionChecks(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Upsert(ctx, []vectorstore.Record{{ID: "x", Vector: []float32{1}}})
	require.ErrorIs(t, err, vectorstore.ErrNotInitialized)

	require.NoError(t, s.Init(ctx, 3))
	err = s.Upsert(ctx, []vectorstore.Record{{ID: "x", Vector: []float32{1}}})
	require.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	_, err = s.Query(ctx, []float32{1}, 5, nil)
	require.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	require.ErrorIs(t, s.Init(ctx, 4), vectorstore.ErrDimensionMismatch)
	require.NoError(t, s.Init(ctx, 3))
}
