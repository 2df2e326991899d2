package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

func TestBackendsConform(t *testing.T) {
	for _, backend := range store.Backends {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			m, err := store.NewMedium(backend, dir)
			require.NoError(t, err)

			_, err = m.Load(ctx, "missing")
			assert.True(t, errors.Is(err, os.ErrNotExist), "missing namespace: %v", err)

			s, err := store.Open(ctx, m, "todos-vanillajs")
			require.NoError(t, err)

			a, err := s.Create(ctx, model.Fields{}.WithTitle("A"))
			require.NoError(t, err)
			_, err = s.Create(ctx, model.Fields{}.WithTitle("B"))
			require.NoError(t, err)
			_, err = s.Update(ctx, a[0].ID, model.Fields{}.WithCompleted(true))
			require.NoError(t, err)
			want, err := s.FindAll(ctx)
			require.NoError(t, err)
			require.NoError(t, s.Close())

			if backend == store.BackendMemory {
				return
			}

			m2, err := store.NewMedium(backend, dir)
			require.NoError(t, err)
			s2, err := store.Open(ctx, m2, "todos-vanillajs")
			require.NoError(t, err)
			defer s2.Close()

			got, err := s2.FindAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNewMediumUnknownBackend(t *testing.T) {
	_, err := store.NewMedium("postgres", t.TempDir())
	assert.Error(t, err)
}
