package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

func openJSON(t *testing.T, dir string) *store.Store {
	t.Helper()
	m, err := jsonstore.New(dir)
	require.NoError(t, err)
	s, err := store.Open(context.Background(), m, ns)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestWatchIgnoresOwnWritesAndReportsOthers(t *testing.T) {
	dir := t.TempDir()
	mine := openJSON(t, dir)
	theirs := openJSON(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := mine.Watch(ctx)
	require.NoError(t, err)

	_, err = mine.Create(ctx, model.Fields{}.WithTitle("mine"))
	require.NoError(t, err)
	select {
	case <-ch:
		t.Fatal("own write was reported as an external change")
	case <-time.After(500 * time.Millisecond):
	}

	_, err = theirs.Create(ctx, model.Fields{}.WithTitle("theirs"))
	require.NoError(t, err)
	select {
	case _, ok := <-ch:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for external change")
	}

	all, err := mine.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
