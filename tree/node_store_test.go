package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNodeStoreCreateAssignsUniqueIDs(t *testing.T) {
	store := NewMemoryNodeStore()
	ctx := context.Background()

	n1 := &Node{}
	n2 := &Node{}
	require.NoError(t, store.Create(ctx, n1))
	require.NoError(t, store.Create(ctx, n2))
	assert.NotEmpty(t, n1.ID)
	assert.NotEqual(t, n1.ID, n2.ID)

	got, err := store.Get(ctx, n1.ID)
	require.NoError(t, err)
	assert.Same(t, n1, got)
}

func TestMemoryNodeStoreGetMissingReturnsNil(t *testing.T) {
	store := NewMemoryNodeStore()
	n, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestMemoryNodeStoreStoreOverwritesExistingNode(t *testing.T) {
	store := NewMemoryNodeStore()
	ctx := context.Background()
	n := &Node{}
	require.NoError(t, store.Create(ctx, n))

	n.SubtreeIDs = []string{"left", "right"}
	require.NoError(t, store.Store(ctx, n))

	got, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, got.SubtreeIDs)
}

func TestMemoryNodeStoreCloseIsNoOp(t *testing.T) {
	store := NewMemoryNodeStore()
	assert.NoError(t, store.Close(context.Background()))
}
