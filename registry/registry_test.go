package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRegisterGetRoundTrip(t *testing.T) {
	r := openTestRegistry(t)
	ctx := context.Background()

	fields := map[string]string{
		"document_id": "doc-1",
		"filename":    "report.pdf",
		"chunk_count": "12",
	}
	require.NoError(t, r.Register(ctx, "doc-1", fields))

	got, err := r.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestRegisterReplaces(t *testing.T) {
	r := openTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "doc-1", map[string]string{"filename": "a.pdf"}))
	require.NoError(t, r.Register(ctx, "doc-1", map[string]string{"filename": "b.pdf"}))

	got, err := r.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "b.pdf", got["filename"])
}

func TestGetNotFound(t *testing.T) {
	r := openTestRegistry(t)
	_, err := r.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	r := openTestRegistry(t)
	ctx := context.Background()

	records, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, r.Register(ctx, "doc-1", map[string]string{"document_id": "doc-1"}))
	require.NoError(t, r.Register(ctx, "doc-2", map[string]string{"document_id": "doc-2"}))

	records, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDelete(t *testing.T) {
	r := openTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "doc-1", map[string]string{"document_id": "doc-1"}))
	require.NoError(t, r.Delete(ctx, "doc-1"))

	_, err := r.Get(ctx, "doc-1")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, r.Delete(ctx, "doc-1"), ErrNotFound)
}

func TestEmptyID(t *testing.T) {
	r := openTestRegistry(t)
	ctx := context.Background()

	require.ErrorIs(t, r.Register(ctx, "", nil), ErrEmptyID)
	_, err := r.Get(ctx, "")
	require.ErrorIs(t, err, ErrEmptyID)
	require.ErrorIs(t, r.Delete(ctx, ""), ErrEmptyID)
}

func TestJoinKeywordsRoundTrip(t *testing.T) {
	joined, err := JoinKeywords([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	assert.Equal(t, "alpha,beta,gamma", joined)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, SplitKeywords(joined))

	joined, err = JoinKeywords(nil)
	require.NoError(t, err)
	assert.Equal(t, "", joined)
	assert.Nil(t, SplitKeywords(joined))
}

func TestJoinKeywordsRejectsCommas(t *testing.T) {
	_, err := JoinKeywords([]string{"fine", "not,fine"})
	require.ErrorIs(t, err, ErrKeywordComma)
}
