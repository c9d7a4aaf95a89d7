package shipment

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIDGen(repo *fakeDraftRepo) *DraftIDGenerator {
	return &DraftIDGenerator{Drafts: repo, Logger: zap.NewNop()}
}

func TestGenerateEmbedsCompanyAndCustomerTokens(t *testing.T) {
	gen := newIDGen(newFakeDraftRepo())

	id, err := gen.Generate(context.Background(), "integrated-carriers", "dynamex")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "INTDYN-"), "got %s", id)
	assert.Len(t, id, len("INTDYN-")+5)
}

func TestGeneratePadsShortTokens(t *testing.T) {
	gen := newIDGen(newFakeDraftRepo())

	id, err := gen.Generate(context.Background(), "ab", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "ABXXXX-"), "got %s", id)
}

func TestGenerateProducesDistinctIDs(t *testing.T) {
	gen := newIDGen(newFakeDraftRepo())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := gen.Generate(context.Background(), "acme", "cust")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	repo := newFakeDraftRepo()
	gen := newIDGen(repo)

	// Take one candidate up front, then confirm a fresh generation avoids it.
	first, err := gen.Generate(context.Background(), "acme", "cust")
	require.NoError(t, err)
	repo.taken[first] = true

	second, err := gen.Generate(context.Background(), "acme", "cust")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerateFallsBackWhenUniquenessCheckFails(t *testing.T) {
	repo := newFakeDraftRepo()
	repo.failExists = errDown
	gen := newIDGen(repo)

	id, err := gen.Generate(context.Background(), "acme", "cust")
	require.NoError(t, err, "a dependency failure downgrades the strategy instead of failing the caller")

	assert.True(t, strings.HasPrefix(id, "ACMCUS-"), "got %s", id)
	suffix := strings.TrimPrefix(id, "ACMCUS-")
	assert.Greater(t, len(suffix), 5, "timestamp-derived suffix is longer than the primary one: %s", id)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}
