package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfie/shelfie/internal/domain/analysis"
)

func TestHistoryStore_BoundedNewestFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Push(ctx, analysis.HistoryEntry{ID: fmt.Sprint(i), Kind: analysis.HistoryAnalysis}, 3))
	}
	require.NoError(t, store.Push(ctx, analysis.HistoryEntry{ID: "s", Kind: analysis.HistorySuggestion}, 3))

	got, err := store.Recent(ctx, analysis.HistoryAnalysis)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"4", "3", "2"}, []string{got[0].ID, got[1].ID, got[2].ID})

	suggestions, err := store.Recent(ctx, analysis.HistorySuggestion)
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Recent(ctx, analysis.HistoryAnalysis)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryStore_ConcurrentPush(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Push(ctx, analysis.HistoryEntry{ID: fmt.Sprint(i), Kind: analysis.HistoryAnalysis}, 10)
		}(i)
	}
	wg.Wait()

	got, err := store.Recent(ctx, analysis.HistoryAnalysis)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
